// Package app wires sources, aggregation and the report together.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/config"
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/scraper"
	"github.com/fr4nk3nst1ner/salarystats/internal/stats"
	"github.com/fr4nk3nst1ner/salarystats/internal/ui"
	"github.com/pterm/pterm"
)

// Runner collects statistics for every language on every source, one
// request at a time, and prints one table per source.
type Runner struct {
	Config  *config.Config
	Sources []scraper.Source
	Logger  *pterm.Logger
	// Out receives the tables
	Out io.Writer
	// Progress receives the progress bars, nil disables them
	Progress io.Writer
	// Sleep paces page and language requests, client.Sleep when nil
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run collects all statistics and prints the tables. Any fetch error
// aborts the whole run and nothing is printed.
func (r *Runner) Run(ctx context.Context) ([]models.SourceReport, error) {
	reports, err := r.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.Print(reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Collect runs the full pass over sources and languages
func (r *Runner) Collect(ctx context.Context) ([]models.SourceReport, error) {
	reports := make([]models.SourceReport, 0, len(r.Sources))
	for _, src := range r.Sources {
		report, err := r.collectSource(ctx, src)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *Runner) collectSource(ctx context.Context, src scraper.Source) (models.SourceReport, error) {
	report := models.SourceReport{
		Source:    src.Name(),
		Languages: make([]models.LanguageReport, 0, len(r.Config.Languages)),
	}

	r.Logger.Info("Collecting statistics", r.Logger.Args("source", src.Name(), "languages", len(r.Config.Languages)))

	var bar *pb.ProgressBar
	if r.Progress != nil {
		bar = pb.New(len(r.Config.Languages)).
			SetWriter(r.Progress).
			Set("prefix", src.Name()+" ").
			Start()
		defer bar.Finish()
	}

	sleep := r.Sleep
	if sleep == nil {
		sleep = client.Sleep
	}
	opts := scraper.PageOptions{Pause: r.Config.PagePause, MaxPages: src.MaxPages(), Sleep: sleep}
	for i, lang := range r.Config.Languages {
		if i > 0 {
			if err := sleep(ctx, r.Config.LanguagePause); err != nil {
				return report, err
			}
		}
		if bar != nil {
			bar.Set("suffix", " "+lang)
		}

		languageStats, err := r.collectLanguage(ctx, src, lang, opts)
		if err != nil {
			return report, err
		}
		report.Languages = append(report.Languages, models.LanguageReport{Language: lang, Stats: languageStats})

		if bar != nil {
			bar.Increment()
		}
	}

	return report, nil
}

func (r *Runner) collectLanguage(ctx context.Context, src scraper.Source, lang string, opts scraper.PageOptions) (models.LanguageStatistics, error) {
	collection, err := scraper.FetchAll(ctx, src, lang, opts)
	if err != nil {
		return models.LanguageStatistics{}, err
	}

	if collection.Truncated {
		r.Logger.Warn("Page cap reached with fewer vacancies than reported, results are partial",
			r.Logger.Args("source", src.Name(), "language", lang, "max_pages", opts.MaxPages,
				"collected", len(collection.Items), "found", collection.TotalFound))
	}

	languageStats := stats.Aggregate(collection.Items, collection.TotalFound, src.PredictSalary)

	r.Logger.Debug("Language done", r.Logger.Args(
		"source", src.Name(),
		"language", lang,
		"pages", collection.Pages,
		"found", humanize.Comma(int64(languageStats.VacanciesFound)),
		"processed", languageStats.VacanciesProcessed,
		"average", humanize.Comma(int64(languageStats.AverageSalary)),
	))

	return languageStats, nil
}

// Print writes one table per source in collection order
func (r *Runner) Print(reports []models.SourceReport) error {
	for _, report := range reports {
		if err := ui.PrintStatistics(r.Out, report, r.Config.Location); err != nil {
			return fmt.Errorf("failed to print %s statistics: %w", report.Source, err)
		}
	}
	return nil
}
