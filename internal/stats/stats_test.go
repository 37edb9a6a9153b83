package stats

import (
	"testing"

	"github.com/tidwall/gjson"
)

// salaryField reads a plain "salary" number, absent when missing
func salaryField(vacancy gjson.Result) (float64, bool) {
	salary := vacancy.Get("salary")
	if !salary.Exists() {
		return 0, false
	}
	return salary.Float(), true
}

func vacancies(docs ...string) []gjson.Result {
	results := make([]gjson.Result, len(docs))
	for i, doc := range docs {
		results[i] = gjson.Parse(doc)
	}
	return results
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name          string
		vacancies     []gjson.Result
		totalFound    int
		wantFound     int
		wantProcessed int
		wantAverage   int
	}{
		{
			name:          "mixed salaries",
			vacancies:     vacancies(`{"salary": 100000}`, `{"salary": 200000}`, `{}`),
			totalFound:    10,
			wantFound:     10,
			wantProcessed: 2,
			wantAverage:   150000,
		},
		{
			name:          "no salaries",
			vacancies:     vacancies(`{}`, `{"title": "dev"}`),
			totalFound:    42,
			wantFound:     42,
			wantProcessed: 0,
			wantAverage:   0,
		},
		{
			name:          "no vacancies",
			vacancies:     nil,
			totalFound:    0,
			wantFound:     0,
			wantProcessed: 0,
			wantAverage:   0,
		},
		{
			name:          "average is truncated",
			vacancies:     vacancies(`{"salary": 100000}`, `{"salary": 100001}`),
			totalFound:    2,
			wantFound:     2,
			wantProcessed: 2,
			wantAverage:   100000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.vacancies, tt.totalFound, salaryField)
			if got.VacanciesFound != tt.wantFound {
				t.Errorf("VacanciesFound = %d, want %d", got.VacanciesFound, tt.wantFound)
			}
			if got.VacanciesProcessed != tt.wantProcessed {
				t.Errorf("VacanciesProcessed = %d, want %d", got.VacanciesProcessed, tt.wantProcessed)
			}
			if got.AverageSalary != tt.wantAverage {
				t.Errorf("AverageSalary = %d, want %d", got.AverageSalary, tt.wantAverage)
			}
		})
	}
}
