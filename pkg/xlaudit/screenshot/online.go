// Package screenshot captures per-sheet images of a workbook rendered in
// Excel Online through an authenticated browser session.
package screenshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

const (
	canvasSelector = `[data-automation-id="spreadsheet"]`
	loadTimeout    = 30 * time.Second
	settleDelay    = 2 * time.Second
	tabSwitchDelay = time.Second
)

// Capturer drives Excel Online and saves one PNG per visible sheet.
type Capturer struct {
	outputDir string
	log       *zap.Logger
}

// NewCapturer builds a Capturer writing into outputDir. A nil logger is
// replaced with a no-op one.
func NewCapturer(outputDir string, log *zap.Logger) *Capturer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Capturer{outputDir: outputDir, log: log}
}

// CaptureSheets opens the workbook URL in the authenticated browser and
// captures each visible sheet. Hidden and very hidden sheets are skipped
// with a note; capture failures skip the sheet and continue.
func (c *Capturer) CaptureSheets(browserCtx context.Context, workbookURL string, sheets []models.SheetInfo) ([]models.ScreenshotInfo, error) {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating screenshot directory: %w", err)
	}

	loadCtx, cancel := context.WithTimeout(browserCtx, loadTimeout)
	err := chromedp.Run(loadCtx,
		chromedp.Navigate(workbookURL),
		chromedp.WaitVisible(canvasSelector, chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
	)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("loading workbook in Excel Online: %w", err)
	}

	var shots []models.ScreenshotInfo
	for _, sheet := range sheets {
		if sheet.Visibility != models.VisibilityVisible {
			c.log.Info("skipping non-visible sheet",
				zap.String("sheet", sheet.Name),
				zap.String("visibility", string(sheet.Visibility)))
			continue
		}
		shot, err := c.captureSheet(browserCtx, sheet.Name)
		if err != nil {
			c.log.Warn("failed to capture sheet",
				zap.String("sheet", sheet.Name), zap.Error(err))
			continue
		}
		shots = append(shots, shot)
	}
	return shots, nil
}

func (c *Capturer) captureSheet(browserCtx context.Context, sheetName string) (models.ScreenshotInfo, error) {
	if err := c.selectSheetTab(browserCtx, sheetName); err != nil {
		return models.ScreenshotInfo{}, err
	}

	var buf []byte
	shotCtx, cancel := context.WithTimeout(browserCtx, loadTimeout)
	defer cancel()
	err := chromedp.Run(shotCtx,
		chromedp.Sleep(tabSwitchDelay),
		chromedp.Screenshot(canvasSelector, &buf, chromedp.ByQuery),
	)
	if err != nil {
		// No capturable canvas element; fall back to the full viewport.
		err = chromedp.Run(shotCtx, chromedp.FullScreenshot(&buf, 90))
	}
	if err != nil {
		return models.ScreenshotInfo{}, fmt.Errorf("capturing %s: %w", sheetName, err)
	}

	path := filepath.Join(c.outputDir, imageFilename(sheetName))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return models.ScreenshotInfo{}, fmt.Errorf("saving %s: %w", sheetName, err)
	}
	c.log.Info("captured sheet", zap.String("sheet", sheetName), zap.String("path", path))
	return models.ScreenshotInfo{
		Sheet:      sheetName,
		Path:       path,
		CapturedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// selectSheetTab clicks the sheet's tab, trying the automation attribute
// first and falling back to matching the tab text.
func (c *Capturer) selectSheetTab(browserCtx context.Context, sheetName string) error {
	selectors := []struct {
		sel  string
		opts chromedp.QueryOption
	}{
		{fmt.Sprintf(`[data-automation-id="SheetTab-%s"]`, sheetName), chromedp.ByQuery},
		{fmt.Sprintf(`//*[@role="tab"][contains(., %q)]`, sheetName), chromedp.BySearch},
	}
	for _, candidate := range selectors {
		clickCtx, cancel := context.WithTimeout(browserCtx, 3*time.Second)
		err := chromedp.Run(clickCtx, chromedp.Click(candidate.sel, candidate.opts))
		cancel()
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("sheet tab not found: %s", sheetName)
}

// imageFilename derives a safe PNG file name from a sheet name.
func imageFilename(sheetName string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, sheetName)
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe + ".png"
}
