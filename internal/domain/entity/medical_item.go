package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Category string

const (
	CategoryMedicamento Category = "Medicamento"
	CategoryInsumo      Category = "Insumo"
)

func (c Category) IsValid() bool {
	return c == CategoryMedicamento || c == CategoryInsumo
}

// Origin tells whether an item came from the catalog or was typed in by the physician.
type Origin string

const (
	OriginCatalog  Origin = "catalog"
	OriginFreeText Origin = "free_text"
)

const (
	// Id prefix of free-text items, kept for reports written by older clients
	FreeTextIDPrefix = "custom-"

	FreeTextCode         = "CAPTURA LIBRE"
	FreeTextPresentation = "N/A"
)

// MedicalItem is a catalog entry, or a free-text entry that looks like one.
type MedicalItem struct {
	ID           string   `json:"id"`
	Code         string   `json:"code"`
	Description  string   `json:"description"`
	Presentation string   `json:"presentation"`
	Category     Category `json:"category"`
	Origin       Origin   `json:"origin,omitempty"`
}

// IsFreeText reports whether the item was typed in rather than picked from the catalog.
// Items without an origin fall back to the id prefix.
func (m MedicalItem) IsFreeText() bool {
	if m.Origin != "" {
		return m.Origin == OriginFreeText
	}
	return strings.HasPrefix(m.ID, FreeTextIDPrefix)
}

// ItemList is stored as the JSON string encoding of the items in a text column
type ItemList []MedicalItem

// Value returns the JSON text, implements driver.Valuer interface
func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		l = ItemList{}
	}
	b, err := json.Marshal([]MedicalItem(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes the column, implements sql.Scanner interface.
// Accepts both a JSON array and a JSON string holding an encoded array.
func (l *ItemList) Scan(value interface{}) error {
	if value == nil {
		*l = ItemList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal items value:", value))
	}
	return l.UnmarshalJSON(raw)
}

// UnmarshalJSON accepts the same two encodings as Scan.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = ItemList{}
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return fmt.Errorf("decode items string: %w", err)
		}
		trimmed = inner
	}

	var items []MedicalItem
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return fmt.Errorf("decode items: %w", err)
	}
	*l = ItemList(items)
	return nil
}
