package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/config"
	"github.com/tidwall/gjson"
)

var (
	ErrUnknownSource = errors.New("unknown source")
	ErrNoSources     = errors.New("no sources enabled")
)

// Source is a paged job-board API that can be turned into salary statistics
type Source interface {
	// Name is the human readable board name used in logs and table titles
	Name() string
	// FetchPage returns the raw JSON body of one zero-based result page
	FetchPage(ctx context.Context, language string, page int) ([]byte, error)
	// ExtractItems returns the vacancies of a page, empty when the field is missing
	ExtractItems(body []byte) []gjson.Result
	// ExtractTotal returns the reported total, zero when the field is missing
	ExtractTotal(body []byte) int
	// PredictSalary estimates the salary of one vacancy in the domestic currency
	PredictSalary(vacancy gjson.Result) (float64, bool)
	// MaxPages is the safety cap on pages per query, zero for none
	MaxPages() int
}

// NewSources builds every source enabled in cfg
func NewSources(cfg *config.Config, httpClient *http.Client) ([]Source, error) {
	retry := client.RetryPolicy{Retries: cfg.Retries, Backoff: cfg.RetryBackoff}

	var sources []Source
	if cfg.HeadHunter.Enabled {
		sources = append(sources, NewHeadHunter(cfg.HeadHunter, httpClient, cfg.UserAgent, retry))
	}
	if cfg.SuperJob.Enabled {
		sources = append(sources, NewSuperJob(cfg.SuperJob, httpClient, cfg.UserAgent, retry))
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	return sources, nil
}

// SelectSources disables every source in cfg that is not listed in ids.
// An empty list keeps the configuration as is.
func SelectSources(cfg *config.Config, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	wanted := make(map[string]bool)
	for _, id := range ids {
		canonical, ok := CanonicalSourceID(id)
		if !ok {
			return fmt.Errorf("%w: %q (expected hh or sj)", ErrUnknownSource, id)
		}
		wanted[canonical] = true
	}

	cfg.HeadHunter.Enabled = cfg.HeadHunter.Enabled && wanted[SourceHeadHunter]
	cfg.SuperJob.Enabled = cfg.SuperJob.Enabled && wanted[SourceSuperJob]
	return nil
}

// CanonicalSourceID maps user input to a source ID
func CanonicalSourceID(id string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "hh", "headhunter", "hh.ru":
		return SourceHeadHunter, true
	case "sj", "superjob", "superjob.ru":
		return SourceSuperJob, true
	}
	return "", false
}

// Missing or mistyped fields are read as empty/zero rather than errors so
// that additive API schema changes never break a run.

func extractArray(body []byte, field string) []gjson.Result {
	value := gjson.GetBytes(body, field)
	if !value.IsArray() {
		return nil
	}
	return value.Array()
}

func extractCount(body []byte, field string) int {
	value := gjson.GetBytes(body, field)
	if value.Type != gjson.Number {
		return 0
	}
	return int(value.Int())
}

func fetchJSON(ctx context.Context, name string, httpClient *http.Client, rawURL string, headers http.Header, retry client.RetryPolicy) ([]byte, error) {
	body, err := client.GetJSON(ctx, httpClient, rawURL, headers, retry)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON from %s", name)
	}
	return body, nil
}
