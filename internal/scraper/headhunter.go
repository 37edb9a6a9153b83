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

const SourceHeadHunter = "hh"

// HeadHunter talks to the api.hh.ru vacancies search
type HeadHunter struct {
	cfg        config.HeadHunterConfig
	httpClient *http.Client
	headers    http.Header
	retry      client.RetryPolicy
}

// NewHeadHunter creates a HeadHunter source
func NewHeadHunter(cfg config.HeadHunterConfig, httpClient *http.Client, userAgent string, retry client.RetryPolicy) *HeadHunter {
	return &HeadHunter{
		cfg:        cfg,
		httpClient: httpClient,
		headers:    client.DefaultHeaders(userAgent),
		retry:      retry,
	}
}

func (h *HeadHunter) Name() string {
	return "HeadHunter"
}

func (h *HeadHunter) MaxPages() int {
	return h.cfg.MaxPages
}

func (h *HeadHunter) FetchPage(ctx context.Context, language string, page int) ([]byte, error) {
	apiURL, err := h.buildURL(language, page)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	return fetchJSON(ctx, h.Name(), h.httpClient, apiURL, h.headers, h.retry)
}

func (h *HeadHunter) buildURL(language string, page int) (string, error) {
	u, err := url.Parse(h.cfg.BaseURL)
	if err != nil {
		return "", err
	}

	query := u.Query()
	query.Set("text", fmt.Sprintf(h.cfg.TextTemplate, language))
	query.Set("area", strconv.Itoa(h.cfg.Area))
	query.Set("period", strconv.Itoa(h.cfg.Period))
	query.Set("search_field", h.cfg.SearchField)
	query.Set("per_page", strconv.Itoa(h.cfg.PerPage))
	query.Set("page", strconv.Itoa(page))

	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (h *HeadHunter) ExtractItems(body []byte) []gjson.Result {
	return extractArray(body, "items")
}

func (h *HeadHunter) ExtractTotal(body []byte) int {
	return extractCount(body, "found")
}

// PredictSalary uses the embedded salary object, e.g.
// {"salary": {"from": 150000, "to": null, "currency": "RUR"}}
func (h *HeadHunter) PredictSalary(vacancy gjson.Result) (float64, bool) {
	salary := vacancy.Get("salary")
	if !salary.IsObject() || salary.Get("currency").String() != h.cfg.Currency {
		return 0, false
	}
	return utils.PredictSalary(models.SalaryBounds{
		From: utils.BoundFromJSON(salary.Get("from")),
		To:   utils.BoundFromJSON(salary.Get("to")),
	})
}
