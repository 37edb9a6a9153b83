package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/config"
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
	"github.com/tidwall/gjson"
)

const (
	SourceSuperJob = "sj"

	superJobKeyHeader = "X-Api-App-Id"
)

// SuperJob talks to the api.superjob.ru vacancies search
type SuperJob struct {
	cfg        config.SuperJobConfig
	httpClient *http.Client
	headers    http.Header
	retry      client.RetryPolicy
}

// NewSuperJob creates a SuperJob source. The API key must already be
// present in cfg; config.Validate guarantees that.
func NewSuperJob(cfg config.SuperJobConfig, httpClient *http.Client, userAgent string, retry client.RetryPolicy) *SuperJob {
	headers := client.DefaultHeaders(userAgent)
	headers.Set(superJobKeyHeader, cfg.APIKey)

	return &SuperJob{
		cfg:        cfg,
		httpClient: httpClient,
		headers:    headers,
		retry:      retry,
	}
}

func (s *SuperJob) Name() string {
	return "SuperJob"
}

func (s *SuperJob) MaxPages() int {
	return s.cfg.MaxPages
}

func (s *SuperJob) FetchPage(ctx context.Context, language string, page int) ([]byte, error) {
	apiURL, err := s.buildURL(language, page)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	return fetchJSON(ctx, s.Name(), s.httpClient, apiURL, s.headers, s.retry)
}

func (s *SuperJob) buildURL(language string, page int) (string, error) {
	u, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", err
	}

	query := u.Query()
	query.Set("town", strconv.Itoa(s.cfg.TownID))
	query.Set("catalogues", strconv.Itoa(s.cfg.CatalogueID))
	// the template mentions the language twice, e.g. "программист %[1]s разработчик %[1]s"
	query.Set("keyword", fmt.Sprintf(s.cfg.KeywordTemplate, language))
	query.Set("count", strconv.Itoa(s.cfg.Count))
	query.Set("page", strconv.Itoa(page))

	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (s *SuperJob) ExtractItems(body []byte) []gjson.Result {
	return extractArray(body, "objects")
}

func (s *SuperJob) ExtractTotal(body []byte) int {
	return extractCount(body, "total")
}

// PredictSalary uses the flat payment fields, e.g.
// {"payment_from": 100000, "payment_to": 0, "currency": "rub"}
func (s *SuperJob) PredictSalary(vacancy gjson.Result) (float64, bool) {
	if vacancy.Get("currency").String() != s.cfg.Currency {
		return 0, false
	}
	return utils.PredictSalary(models.SalaryBounds{
		From: utils.BoundFromJSON(vacancy.Get("payment_from")),
		To:   utils.BoundFromJSON(vacancy.Get("payment_to")),
	})
}
