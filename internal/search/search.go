// Package search narrows catalog items and submitted reports by a free-text term.
//
// Matching is a case-insensitive substring test. Accents are significant:
// "pediatria" does not match "Pediatría".
package search

import (
	"strings"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"

	"golang.org/x/text/cases"
)

// MaxItemResults caps catalog search results for rendering.
const MaxItemResults = 15

// Normalize trims and case-folds a term or a field.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func contains(field, folded string) bool {
	return strings.Contains(cases.Fold().String(field), folded)
}

// SearchItems returns items whose description or code contains term, in
// catalog order, at most MaxItemResults. An empty term yields nothing.
func SearchItems(term string, items []entity.MedicalItem) []entity.MedicalItem {
	folded := Normalize(term)
	if folded == "" {
		return []entity.MedicalItem{}
	}

	results := make([]entity.MedicalItem, 0, MaxItemResults)
	for _, item := range items {
		if contains(item.Description, folded) || contains(item.Code, folded) {
			results = append(results, item)
			if len(results) == MaxItemResults {
				break
			}
		}
	}
	return results
}

// FilterReports keeps reports whose service, physician, or any item
// description or code contains term. An empty term keeps everything.
func FilterReports(term string, reports []entity.Report) []entity.Report {
	folded := Normalize(term)
	if folded == "" {
		return reports
	}

	results := make([]entity.Report, 0, len(reports))
	for _, report := range reports {
		if reportMatches(report, folded) {
			results = append(results, report)
		}
	}
	return results
}

func reportMatches(report entity.Report, folded string) bool {
	if contains(report.Service, folded) || contains(report.PhysicianName, folded) {
		return true
	}
	for _, item := range report.Items {
		if contains(item.Description, folded) || contains(item.Code, folded) {
			return true
		}
	}
	return false
}
