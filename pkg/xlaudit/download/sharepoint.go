// Package download fetches Excel files from SharePoint and OneDrive
// through an authenticated browser session.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrDownloadFailed is returned when every download strategy has been
// exhausted without producing a file.
var ErrDownloadFailed = errors.New("could not download file; download manually and provide a local path")

// sharePointHosts identify URLs this package can handle.
var sharePointHosts = []string{
	"sharepoint.com",
	"sharepoint.us",
	"onedrive.com",
	"office.com",
}

// filenamePatterns pull the file name out of the URL shapes SharePoint
// sharing links take. Tried in order; the last capture group wins.
var filenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/Shared%20Documents/([^?]+\.xls[xmb])(?:\?|$)`),
	regexp.MustCompile(`(?i)/Shared Documents/([^?]+\.xls[xmb])(?:\?|$)`),
	regexp.MustCompile(`(?i)/sites/[^/]+/([^?]+\.xls[xmb])(?:\?|$)`),
	regexp.MustCompile(`(?i)/personal/[^/]+/([^?]+\.xls[xmb])(?:\?|$)`),
	regexp.MustCompile(`(?i)[?&]file=([^&]+\.xls[xmb])`),
}

// serverRelativePatterns recover the server-relative document path from a
// sharing URL for the REST fallback.
var serverRelativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/:x:/r(/sites/[^/]+/Shared%20Documents/[^?]+)`),
	regexp.MustCompile(`(?i)/:x:/r(/Shared%20Documents/[^?]+)`),
	regexp.MustCompile(`(?i)/r(/sites/[^/]+/Shared%20Documents/[^?]+)`),
	regexp.MustCompile(`(?i)(/sites/[^/]+/Shared%20Documents/[^?]+)`),
	regexp.MustCompile(`(?i)(/Shared%20Documents/[^?]+)`),
	regexp.MustCompile(`(?i)(/personal/[^/]+/Documents/[^?]+)`),
}

// downloadButtonSelectors cover the download command across SharePoint
// document libraries and the Excel Online toolbar.
var downloadButtonSelectors = []string{
	`button[data-automationid="downloadCommand"]`,
	`[data-automation-id="downloadCommand"]`,
	`button[aria-label*="Download"]`,
	`[aria-label="Download"]`,
	`[aria-label="Download a Copy"]`,
	`button[name="Download"]`,
	`[data-icon-name="Download"]`,
}

var fileMenuSelectors = []string{
	`#FileTabButton`,
	`button[id*="FileTabButton"]`,
	`[data-automation-id="FileMenu"]`,
	`button[aria-label="File"]`,
	`#jewel-menu-button`,
}

var fileMenuDownloadSelectors = []string{
	`[data-automationid="SaveAsBtn"]`,
	`button[aria-label*="Download"]`,
	`a[aria-label*="Download"]`,
	`[data-automationid*="Download"]`,
}

// IsSharePointURL reports whether the URL points at a SharePoint or
// OneDrive host.
func IsSharePointURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	for _, known := range sharePointHosts {
		if strings.Contains(host, known) {
			return true
		}
	}
	return false
}

// FilenameFromURL derives the workbook file name from a SharePoint URL.
// Unrecognized URLs fall back to "workbook.xlsx", and names without a
// workbook extension get ".xlsm" appended since macro content cannot be
// ruled out.
func FilenameFromURL(rawURL string) string {
	name := ""
	for _, pattern := range filenamePatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			if unescaped, err := url.QueryUnescape(m[1]); err == nil {
				name = path.Base(unescaped)
			} else {
				name = path.Base(m[1])
			}
			break
		}
	}
	if name == "" {
		if parsed, err := url.Parse(rawURL); err == nil {
			if file := parsed.Query().Get("file"); file != "" {
				name = path.Base(file)
			}
		}
	}
	if name == "" || name == "." || name == "/" {
		return "workbook.xlsx"
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xlsb":
		return name
	}
	return name + ".xlsm"
}

// serverRelativePath extracts the server-relative document path for the
// REST download endpoint, or returns "" when none is recognizable.
func serverRelativePath(rawURL string) string {
	for _, pattern := range serverRelativePatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			if unescaped, err := url.QueryUnescape(m[1]); err == nil {
				return unescaped
			}
			return m[1]
		}
	}
	return ""
}

// Downloader drives an authenticated browser through a cascade of
// download strategies: toolbar button, File menu, keyboard shortcut and
// finally direct URLs.
type Downloader struct {
	log *zap.Logger
}

// NewDownloader builds a Downloader. A nil logger is replaced with a
// no-op one.
func NewDownloader(log *zap.Logger) *Downloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{log: log}
}

// Fetch downloads the workbook behind rawURL into outputDir using the
// authenticated chromedp context and returns the saved file path.
func (d *Downloader) Fetch(browserCtx context.Context, rawURL, outputDir string) (string, error) {
	if !IsSharePointURL(rawURL) {
		return "", fmt.Errorf("not a SharePoint/OneDrive URL: %s", rawURL)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := FilenameFromURL(rawURL)
	outputPath := filepath.Join(outputDir, filename)
	d.log.Info("downloading workbook", zap.String("file", filename), zap.String("url", rawURL))

	done := d.watchDownloads(browserCtx, outputDir)

	err := chromedp.Run(browserCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(outputDir).
			WithEventsEnabled(true),
		chromedp.Navigate(rawURL),
		// Excel Online keeps making requests after load, so settle on a
		// fixed delay instead of waiting for network idle.
		chromedp.Sleep(5*time.Second),
	)
	if err != nil {
		return "", fmt.Errorf("opening workbook page: %w", err)
	}

	strategies := []struct {
		name string
		run  func(context.Context) bool
	}{
		{"download button", d.tryDownloadButton},
		{"file menu", d.tryFileMenu},
		{"keyboard", d.tryKeyboard},
	}

	for _, strategy := range strategies {
		d.log.Debug("trying download strategy", zap.String("strategy", strategy.name))
		if !strategy.run(browserCtx) {
			continue
		}
		saved, err := awaitDownload(browserCtx, done, 60*time.Second)
		if err != nil {
			d.log.Debug("strategy produced no file", zap.String("strategy", strategy.name), zap.Error(err))
			continue
		}
		return d.moveIntoPlace(saved, outputPath, strategy.name)
	}

	// Last resort: navigate directly to download endpoints. Navigating to
	// a file response triggers a browser download, so navigation errors
	// are expected and ignored.
	for _, candidate := range directCandidates(rawURL) {
		d.log.Debug("trying direct download URL", zap.String("url", candidate))
		navCtx, cancel := context.WithTimeout(browserCtx, 10*time.Second)
		_ = chromedp.Run(navCtx, chromedp.Navigate(candidate))
		cancel()

		saved, err := awaitDownload(browserCtx, done, 30*time.Second)
		if err != nil {
			continue
		}
		return d.moveIntoPlace(saved, outputPath, "direct URL")
	}
	return "", ErrDownloadFailed
}

func (d *Downloader) moveIntoPlace(saved, outputPath, strategy string) (string, error) {
	if err := os.Rename(saved, outputPath); err != nil {
		return "", fmt.Errorf("moving download into place: %w", err)
	}
	d.log.Info("downloaded", zap.String("path", outputPath), zap.String("strategy", strategy))
	return outputPath, nil
}

// directCandidates lists download endpoints to try when the UI paths
// fail: the REST file endpoint, the plain server-relative URL and the
// download query parameter.
func directCandidates(rawURL string) []string {
	var candidates []string
	if parsed, err := url.Parse(rawURL); err == nil {
		origin := parsed.Scheme + "://" + parsed.Host
		if relPath := serverRelativePath(rawURL); relPath != "" {
			candidates = append(candidates,
				fmt.Sprintf("%s/_api/web/GetFileByServerRelativeUrl('%s')/$value", origin, relPath),
				origin+relPath,
			)
		}
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return append(candidates, rawURL+sep+"download=1")
}

// watchDownloads listens for browser download completion events and
// reports finished file paths on the returned channel.
func (d *Downloader) watchDownloads(browserCtx context.Context, dir string) <-chan string {
	done := make(chan string, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if progress, ok := ev.(*browser.EventDownloadProgress); ok {
			if progress.State == browser.DownloadProgressStateCompleted {
				select {
				case done <- filepath.Join(dir, progress.GUID):
				default:
				}
			}
		}
	})
	return done
}

func awaitDownload(browserCtx context.Context, done <-chan string, timeout time.Duration) (string, error) {
	select {
	case saved := <-done:
		return saved, nil
	case <-time.After(timeout):
		return "", errors.New("download did not complete in time")
	case <-browserCtx.Done():
		return "", browserCtx.Err()
	}
}

// clickFirstVisible clicks the first selector that appears within the
// per-selector timeout. Returns false when none matched.
func clickFirstVisible(browserCtx context.Context, selectors []string, timeout time.Duration) bool {
	for _, sel := range selectors {
		attemptCtx, cancel := context.WithTimeout(browserCtx, timeout)
		err := chromedp.Run(attemptCtx,
			chromedp.WaitVisible(sel, chromedp.ByQuery),
			chromedp.Click(sel, chromedp.ByQuery),
		)
		cancel()
		if err == nil {
			return true
		}
	}
	return false
}

func (d *Downloader) tryDownloadButton(browserCtx context.Context) bool {
	return clickFirstVisible(browserCtx, downloadButtonSelectors, 2*time.Second)
}

func (d *Downloader) tryFileMenu(browserCtx context.Context) bool {
	if !clickFirstVisible(browserCtx, fileMenuSelectors, 3*time.Second) {
		return false
	}
	// Give the backstage menu a moment to open.
	_ = chromedp.Run(browserCtx, chromedp.Sleep(time.Second))
	if clickFirstVisible(browserCtx, fileMenuDownloadSelectors, 2*time.Second) {
		return true
	}
	_ = chromedp.Run(browserCtx, chromedp.KeyEvent("\u001b"))
	return false
}

func (d *Downloader) tryKeyboard(browserCtx context.Context) bool {
	err := chromedp.Run(browserCtx,
		chromedp.KeyEvent("f", chromedp.KeyModifiers(input.ModifierAlt)),
		chromedp.Sleep(time.Second),
	)
	if err != nil {
		return false
	}
	if clickFirstVisible(browserCtx, fileMenuDownloadSelectors, 2*time.Second) {
		return true
	}
	_ = chromedp.Run(browserCtx, chromedp.KeyEvent("\u001b"))
	return false
}

