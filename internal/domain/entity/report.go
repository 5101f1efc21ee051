package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrInvalidReport = errors.New("invalid report")

// Report is a submitted shortage report. It is never updated, only deleted.
type Report struct {
	ID            string   `gorm:"type:text;primaryKey" json:"id"`
	PhysicianName string   `gorm:"type:text;not null" json:"physician_name"`
	Service       string   `gorm:"type:text;not null" json:"service"`
	Date          string   `gorm:"type:text;not null" json:"date"`
	Timestamp     int64    `gorm:"not null;index" json:"timestamp"`
	Items         ItemList `gorm:"type:text;not null" json:"items"`
}

func (Report) TableName() string {
	return "reports"
}

// NewReport builds a report stamped with now. Items are copied so later
// catalog changes never reach a submitted report.
func NewReport(id, physicianName, service string, items []MedicalItem, now time.Time) *Report {
	snapshot := make(ItemList, len(items))
	copy(snapshot, items)

	return &Report{
		ID:            id,
		PhysicianName: strings.TrimSpace(physicianName),
		Service:       service,
		Date:          FormatReportDate(now),
		Timestamp:     now.UnixMilli(),
		Items:         snapshot,
	}
}

// FormatReportDate renders the es-MX short date, d/m/yyyy.
func FormatReportDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// ValidationError lists the offending fields of a report.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidReport, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidReport
}

// Validate checks the report before any persistence attempt.
func (r *Report) Validate(isKnownService func(string) bool) error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.ID) == "" {
		fields["id"] = "id is required"
	}
	if strings.TrimSpace(r.PhysicianName) == "" {
		fields["physician_name"] = "physician_name is required"
	}
	if strings.TrimSpace(r.Service) == "" {
		fields["service"] = "service is required"
	} else if isKnownService != nil && !isKnownService(r.Service) {
		fields["service"] = "service is not in the known service list"
	}
	if len(r.Items) == 0 {
		fields["items"] = "at least one item is required"
	}

	for i, item := range r.Items {
		key := fmt.Sprintf("items[%d]", i)
		switch {
		case strings.TrimSpace(item.ID) == "":
			fields[key] = "id is required"
		case strings.TrimSpace(item.Description) == "":
			fields[key] = "description is required"
		case !item.Category.IsValid():
			fields[key] = "category must be Medicamento or Insumo"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
