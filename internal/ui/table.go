package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
	"github.com/pterm/pterm"
)

var tableHeader = []string{"Language", "Vacancies found", "Vacancies processed", "Average salary"}

// StatisticsRows builds the table grid: the header followed by one row per
// language that had at least one vacancy found.
func StatisticsRows(reports []models.LanguageReport) pterm.TableData {
	data := pterm.TableData{tableHeader}
	for _, report := range reports {
		if report.Stats.VacanciesFound <= 0 {
			continue
		}
		data = append(data, []string{
			report.Language,
			strconv.Itoa(report.Stats.VacanciesFound),
			strconv.Itoa(report.Stats.VacanciesProcessed),
			utils.FormatSalary(report.Stats.AverageSalary),
		})
	}
	return data
}

// RenderStatistics renders the statistics table inside a titled box
func RenderStatistics(reports []models.LanguageReport, title string) (string, error) {
	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithData(StatisticsRows(reports)).
		Srender()
	if err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}
	return pterm.DefaultBox.WithTitle(title).Sprint(table), nil
}

// PrintStatistics writes the table for one source followed by a blank line
func PrintStatistics(w io.Writer, report models.SourceReport, location string) error {
	rendered, err := RenderStatistics(report.Languages, utils.FormatTitle(report.Source, location))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n\n", rendered)
	return err
}
