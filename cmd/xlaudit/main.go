// Package main provides the CLI entry point for xlaudit.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/okdsh/xlaudit/pkg/xlaudit"
	"github.com/okdsh/xlaudit/pkg/xlaudit/auth"
	"github.com/okdsh/xlaudit/pkg/xlaudit/download"
	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
	"github.com/okdsh/xlaudit/pkg/xlaudit/report"
	"github.com/okdsh/xlaudit/pkg/xlaudit/screenshot"
)

var (
	cfgFile       string
	outputDir     string
	format        string
	noScreenshots bool
	dataOnly      bool
	maxFormulas   int
	skipSheets    []string
	clearSession  bool
	debug         bool
)

// config is the file/env configuration layered under the CLI flags.
type config struct {
	OutputDir          string `mapstructure:"output_dir"`
	Format             string `mapstructure:"format"`
	MaxFormulas        int    `mapstructure:"max_formulas"`
	SessionDir         string `mapstructure:"session_dir"`
	SessionMaxAgeHours int    `mapstructure:"session_max_age_hours"`
	AuthTimeoutMinutes int    `mapstructure:"auth_timeout_minutes"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "xlaudit [input.xlsx | sharepoint-url]",
		Short: "Audit Excel workbooks and render structured reports",
		Long: `xlaudit extracts structured facts from Excel workbooks (formulas, VBA,
Power Query, pivot tables, conditional formatting and more) and renders
HTML and Markdown reports. SharePoint URLs are downloaded through an
authenticated browser session first.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: <workbook>_analysis)")
	rootCmd.Flags().StringVar(&format, "format", "", "Report format: md, html or both (default: both)")
	rootCmd.Flags().BoolVar(&noScreenshots, "no-screenshots", false, "Skip Excel Online screenshot capture")
	rootCmd.Flags().BoolVar(&dataOnly, "data-only", false, "Extract data only, no screenshots")
	rootCmd.Flags().IntVar(&maxFormulas, "max-formulas", 0, "Limit the number of extracted formulas (0: unlimited)")
	rootCmd.Flags().StringArrayVar(&skipSheets, "skip-sheet", nil, "Sheet to exclude from extraction (repeatable)")
	rootCmd.Flags().BoolVar(&clearSession, "clear-session", false, "Clear cached SharePoint sessions before authenticating")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.xlaudit/config.yaml)")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := auth.NewStore(cfg.SessionDir, time.Duration(cfg.SessionMaxAgeHours)*time.Hour)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if !clearSession {
			return errors.New("an input workbook path or SharePoint URL is required")
		}
		if err := store.ClearAll(); err != nil {
			return fmt.Errorf("clearing sessions: %w", err)
		}
		log.Info("cleared all cached sessions")
		return nil
	}
	input := args[0]

	if format == "" {
		format = cfg.Format
	}
	switch format {
	case "md", "html", "both":
	default:
		return fmt.Errorf("invalid format: %s (must be md, html or both)", format)
	}

	opts := xlaudit.DefaultOptions()
	opts.MaxFormulas = maxFormulas
	if !cmd.Flags().Changed("max-formulas") {
		opts.MaxFormulas = cfg.MaxFormulas
	}
	opts.SkipSheets = skipSheets
	opts.Logger = log

	ctx := cmd.Context()
	localPath := input
	var session *auth.BrowserSession

	if download.IsSharePointURL(input) {
		if clearSession {
			domain, err := auth.DomainOf(input)
			if err != nil {
				return err
			}
			if err := store.ClearSession(domain); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			log.Info("cleared cached session", zap.String("domain", domain))
		}

		authenticator := auth.NewAuthenticator(store,
			time.Duration(cfg.AuthTimeoutMinutes)*time.Minute, log)
		session, err = authenticator.Session(ctx, input)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		defer session.Close()

		downloadDir, err := os.MkdirTemp("", "xlaudit_")
		if err != nil {
			return err
		}
		downloader := download.NewDownloader(log)
		localPath, err = downloader.Fetch(session.Ctx, input, downloadDir)
		if err != nil {
			return err
		}
	} else if clearSession {
		if err := store.ClearAll(); err != nil {
			return fmt.Errorf("clearing sessions: %w", err)
		}
		log.Info("cleared all cached sessions")
	}

	analysis, err := xlaudit.Analyze(localPath, opts)
	if err != nil {
		return err
	}

	outDir := outputDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if outDir == "" {
		base := strings.TrimSuffix(filepath.Base(localPath), filepath.Ext(localPath))
		outDir = base + "_analysis"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if session != nil && !noScreenshots && !dataOnly {
		capturer := screenshot.NewCapturer(filepath.Join(outDir, "screenshots"), log)
		shots, err := capturer.CaptureSheets(session.Ctx, input, analysis.Sheets)
		if err != nil {
			log.Warn("screenshot capture failed", zap.Error(err))
		}
		analysis.Screenshots = shots
	}

	if err := writeReports(analysis, outDir, format); err != nil {
		return err
	}

	log.Info("analysis complete",
		zap.String("output", outDir),
		zap.Int("sheets", len(analysis.Sheets)),
		zap.Int("formulas", len(analysis.Formulas)))
	return nil
}

func writeReports(analysis *models.WorkbookAnalysis, outDir, format string) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing analysis: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "analysis.json"), data, 0o644); err != nil {
		return fmt.Errorf("writing analysis.json: %w", err)
	}

	if format == "md" || format == "both" {
		if err := report.WriteMarkdown(analysis, outDir); err != nil {
			return fmt.Errorf("writing markdown report: %w", err)
		}
	}
	if format == "html" || format == "both" {
		if err := report.WriteHTML(analysis, outDir); err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
	}
	return nil
}

// loadConfig layers flags over env (XLAUDIT_*) over ~/.xlaudit/config.yaml
// over defaults. A missing config file is not an error.
func loadConfig() (*config, error) {
	v := viper.New()
	v.SetEnvPrefix("XLAUDIT")
	v.AutomaticEnv()

	v.SetDefault("format", "both")
	v.SetDefault("session_max_age_hours", 8)
	v.SetDefault("auth_timeout_minutes", 5)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".xlaudit"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	_ = v.ReadInConfig()

	var c config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &c, nil
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = nil
	return cfg.Build()
}
