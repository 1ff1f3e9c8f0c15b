package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/kiwifruitpeter/curator/internal/cache"
	"github.com/kiwifruitpeter/curator/internal/config"
	"github.com/kiwifruitpeter/curator/internal/feedfile"
	"github.com/kiwifruitpeter/curator/internal/feeds"
	"github.com/kiwifruitpeter/curator/internal/feeds/rss"
	"github.com/kiwifruitpeter/curator/internal/guardrails"
	"github.com/kiwifruitpeter/curator/internal/logging"
	"github.com/kiwifruitpeter/curator/internal/metrics"
	"github.com/kiwifruitpeter/curator/internal/model"
	"github.com/kiwifruitpeter/curator/internal/pipeline"
	"github.com/kiwifruitpeter/curator/internal/sanitize"
	"github.com/kiwifruitpeter/curator/internal/store"
)

func main() {
	var (
		rawPath      = flag.String("raw", "", "reuse an existing raw JSON file instead of fetching")
		skipGenerate = flag.Bool("skip-generate", false, "curate and rank only, no provider calls")
		display      = flag.Bool("display", false, "also write the display-optimized feed variant")
	)
	flag.Parse()

	logging.InitConsole()
	defer logging.Close()

	if err := run(*rawPath, *skipGenerate, *display); err != nil {
		logging.Error("pipeline failed", "err", err)
		os.Exit(1)
	}
}

func run(rawPath string, skipGenerate, display bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Collect raw records.
	var raw []model.Record
	if rawPath != "" {
		doc, err := feedfile.LoadFeed(rawPath)
		if err != nil {
			return err
		}
		raw = doc.Items
		logging.Info("loaded raw records", "path", rawPath, "count", len(raw))
	} else {
		raw, err = fetchSources(ctx, cfg)
		if err != nil {
			return err
		}
		if err := feedfile.Save(cfg.Files.RawFile, model.NewDocument(raw)); err != nil {
			return err
		}
	}

	// Sanitize and curate.
	sanitizer := sanitize.New()
	clean := sanitizer.SanitizeBatch(raw)

	opts := pipeline.Options{
		SimilarityThreshold: cfg.Pipeline.SimilarityThreshold,
		MinMatches:          cfg.Pipeline.MinMatches,
		MinComposite:        cfg.Pipeline.MinComposite,
		MaxItems:            cfg.Pipeline.MaxItems,
	}
	curated, reasons := pipeline.PreFilter(clean, opts)
	metrics.CountRejections(reasons)
	metrics.RecordsKept.Add(float64(len(curated)))

	logging.Info("curation complete", "in", len(raw), "out", len(curated), "rejections", reasons)

	st, err := store.Open(cfg.Files.DBFile)
	if err != nil {
		return err
	}
	defer st.Close()

	// Generate summaries and video ideas.
	if !skipGenerate {
		if err := generate(ctx, cfg, st, curated); err != nil {
			return err
		}
	}

	if _, err := st.SaveRecords(curated); err != nil {
		return fmt.Errorf("save records: %w", err)
	}

	feed := model.NewDocument(curated)
	if err := feedfile.Save(cfg.Files.FeedFile, feed); err != nil {
		return err
	}
	if display {
		displayPath := cfg.Files.FeedFile + ".display"
		if err := feedfile.Save(displayPath, feed.Display()); err != nil {
			return err
		}
	}

	logging.Info("feed written", "path", cfg.Files.FeedFile, "items", len(curated))
	return nil
}

func fetchSources(ctx context.Context, cfg *config.Config) ([]model.Record, error) {
	sources, err := config.LoadSources(cfg.Files.SourcesFile)
	if err != nil {
		return nil, err
	}

	agg := feeds.NewAggregator()
	for _, feed := range sources.Enabled() {
		agg.AddSource(rss.New(feed.Name, feed.URL))
	}
	logging.Info("fetching sources", "count", agg.SourceCount())

	if err := agg.FetchAll(ctx); err != nil {
		return nil, err
	}
	for name, err := range agg.Failed() {
		logging.Warn("source unavailable", "source", name, "err", err)
	}

	records := agg.Records()
	for _, rec := range records {
		metrics.RecordsFetched.WithLabelValues(rec.Source).Inc()
	}
	return records, nil
}

func generate(ctx context.Context, cfg *config.Config, st *store.Store, curated []model.Record) error {
	pm := guardrails.NewProviderManager()
	if c := cfg.Models.Claude; c.Enabled && c.APIKey != "" {
		pm.AddProvider(guardrails.NewClaudeProvider(c.APIKey, c.Model))
	}
	if g := cfg.Models.Gemini; g.Enabled && g.APIKey != "" {
		pm.AddProvider(guardrails.NewGeminiProvider(g.APIKey, g.Model))
	}
	if pm.GetAvailable() == nil {
		logging.Warn("no provider configured, skipping generation")
		return nil
	}
	if cfg.Models.Gemini.Enabled && cfg.Models.Gemini.Priority < cfg.Models.Claude.Priority {
		pm.SetPreferred("gemini")
	} else {
		pm.SetPreferred("claude")
	}

	perMinute := cfg.Pipeline.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 15
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	results := cache.New(cfg.Cache.Capacity, cfg.CacheTTL())

	mgr := guardrails.NewManager(pm, limiter, results)

	summaries, sumFailures := mgr.SummarizeBatch(ctx, curated)
	metrics.CountRejections(sumFailures)

	artifacts, ideaFailures := mgr.GenerateIdeas(ctx, summaries)
	metrics.CountRejections(ideaFailures)

	attached := model.MergeArtifacts(curated, artifacts)
	logging.Info("generation complete",
		"summaries", len(summaries), "ideas", len(artifacts), "attached", attached)

	if err := feedfile.Save(cfg.Files.IdeasFile, model.NewArtifactDocument(artifacts)); err != nil {
		return err
	}
	if _, err := st.SaveArtifacts(artifacts); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}

	return nil
}
