// Package stats turns collected vacancies into per-language summaries.
package stats

import (
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/tidwall/gjson"
)

// SalaryExtractor estimates the salary of a single vacancy
type SalaryExtractor func(vacancy gjson.Result) (float64, bool)

// Aggregate computes the summary for one language. totalFound is taken as
// reported by the board, not recounted from vacancies.
func Aggregate(vacancies []gjson.Result, totalFound int, extract SalaryExtractor) models.LanguageStatistics {
	var sum float64
	processed := 0
	for _, vacancy := range vacancies {
		salary, ok := extract(vacancy)
		if !ok {
			continue
		}
		sum += salary
		processed++
	}

	average := 0
	if processed > 0 {
		average = int(sum / float64(processed))
	}

	return models.LanguageStatistics{
		VacanciesFound:     totalFound,
		VacanciesProcessed: processed,
		AverageSalary:      average,
	}
}
