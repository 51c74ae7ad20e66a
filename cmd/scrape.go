package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/siimots/sadamad-data/internal/config"
	"github.com/siimots/sadamad-data/internal/fetcher"
	"github.com/siimots/sadamad-data/internal/monitoring"
	"github.com/siimots/sadamad-data/internal/output"
	"github.com/siimots/sadamad-data/internal/pipeline"
	"github.com/siimots/sadamad-data/internal/sadamaregister"
)

var (
	scrapeLimit  int
	scrapeOffset int
	scrapeOut    string
	scrapeNoSort bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the harbor register and write the output files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyScrapeFlags(cmd, cfg)
		if err := cfg.Validate("scrape"); err != nil {
			return err
		}

		res, written, err := runScrape(ctx, cfg, prometheus.NewRegistry())
		if err != nil {
			return err
		}

		zap.L().Info("scrape complete",
			zap.String("run_id", res.RunID),
			zap.Int("features", len(res.Collection.Features)),
			zap.Int("failures", len(res.Failures)),
			zap.Strings("files", written),
			zap.Duration("duration", res.Duration),
		)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeLimit, "limit", 0, "process at most N ports (default from config, 0 = all)")
	scrapeCmd.Flags().IntVar(&scrapeOffset, "offset", 0, "skip the first N ports of the listing")
	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "", "output directory (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeNoSort, "no-sort", false, "keep listing order instead of sorting by register id")
	rootCmd.AddCommand(scrapeCmd)
}

// applyScrapeFlags lets explicitly set flags override the loaded config.
func applyScrapeFlags(cmd *cobra.Command, c *config.Config) {
	if cmd.Flags().Changed("limit") {
		c.Scrape.Limit = scrapeLimit
	}
	if cmd.Flags().Changed("offset") {
		c.Scrape.Offset = scrapeOffset
	}
	if scrapeOut != "" {
		c.Output.Dir = scrapeOut
	}
	if scrapeNoSort {
		c.Output.Sort = false
	}
}

// runScrape wires the fetcher, register client, and runner from c, runs one
// scrape, and writes the output files.
func runScrape(ctx context.Context, c *config.Config, reg *prometheus.Registry) (*pipeline.Result, []string, error) {
	writer, err := output.NewWriter(output.Options{
		Dir:          c.Output.Dir,
		PrettyFile:   c.Output.PrettyFile,
		CompactFile:  c.Output.CompactFile,
		ScriptFile:   c.Output.ScriptFile,
		VarName:      c.Output.VarName,
		MinifyScript: c.Output.MinifyScript,
		Shapefile:    c.Output.Shapefile,
		XLSXFile:     c.Output.XLSXFile,
	})
	if err != nil {
		return nil, nil, err
	}

	metrics, err := monitoring.NewScrapeMetrics(reg)
	if err != nil {
		return nil, nil, err
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:      c.Registry.UserAgent,
		Referer:        c.Registry.Referer,
		AcceptLanguage: c.Registry.AcceptLanguage,
		Timeout:        time.Duration(c.Registry.TimeoutSecs) * time.Second,
		Limiter:        fetcher.NewSpacingLimiter(time.Duration(c.Scrape.DelayMS) * time.Millisecond),
	})
	client := sadamaregister.NewClient(f, c.Registry.BaseURL)

	runner := pipeline.NewRunner(client, pipeline.Options{
		Limit:       c.Scrape.Limit,
		Offset:      c.Scrape.Offset,
		Concurrency: c.Scrape.Concurrency,
		Sort:        c.Output.Sort,
	}, metrics)

	res, err := runner.Run(ctx)
	if err != nil {
		return nil, nil, err
	}

	written, err := writer.Write(res.Collection)
	if err != nil {
		return res, written, eris.Wrap(err, "scrape: write output")
	}

	if c.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(c.Metrics.Textfile); err != nil {
			return res, written, err
		}
		written = append(written, c.Metrics.Textfile)
	}
	return res, written, nil
}
