package models

import "github.com/tidwall/gjson"

// SalaryBounds holds the advertised salary range of a vacancy.
// A nil bound means the listing did not specify it.
type SalaryBounds struct {
	From *float64
	To   *float64
}

// LanguageStatistics is the per-language summary printed in the report
type LanguageStatistics struct {
	VacanciesFound     int
	VacanciesProcessed int
	AverageSalary      int
}

// LanguageReport pairs a language with its statistics. A slice of these
// keeps the configured language order.
type LanguageReport struct {
	Language string
	Stats    LanguageStatistics
}

// SourceReport is the full result of one pass over a job board
type SourceReport struct {
	Source    string
	Languages []LanguageReport
}

// Collection is everything gathered for one language on one board
type Collection struct {
	Items      []gjson.Result
	TotalFound int
	Pages      int
	Truncated  bool
}
