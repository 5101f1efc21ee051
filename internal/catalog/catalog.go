package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/search"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

//go:embed catalog.csv
var defaultCatalogCSV []byte

// DefaultServices are the hospital services a report can be filed under.
var DefaultServices = []string{
	"Urgencias",
	"Pediatría",
	"Neonatología",
	"Medicina Interna",
	"Cirugía General",
	"Ginecología y Obstetricia",
	"Traumatología y Ortopedia",
	"Terapia Intensiva",
	"Quirófano",
	"Consulta Externa",
	"Hospitalización",
}

var expectedHeader = []string{"id", "code", "description", "presentation", "category"}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	items    []entity.MedicalItem
	byID     map[string]int
	byCode   map[string]int
	services []string
	known    map[string]struct{}
}

// New builds a catalog from items and services. Services are sorted with
// Spanish collation for display.
func New(items []entity.MedicalItem, services []string) (*Catalog, error) {
	c := &Catalog{
		items:  make([]entity.MedicalItem, 0, len(items)),
		byID:   make(map[string]int, len(items)),
		byCode: make(map[string]int, len(items)),
		known:  make(map[string]struct{}, len(services)),
	}

	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %q has no id", item.Description)
		}
		if !item.Category.IsValid() {
			return nil, fmt.Errorf("catalog item %s: invalid category %q", item.ID, item.Category)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("catalog item %s is duplicated", item.ID)
		}
		item.Origin = entity.OriginCatalog
		c.byID[item.ID] = len(c.items)
		if item.Code != "" {
			c.byCode[item.Code] = len(c.items)
		}
		c.items = append(c.items, item)
	}

	if len(services) == 0 {
		services = DefaultServices
	}
	c.services = make([]string, 0, len(services))
	for _, s := range services {
		if _, dup := c.known[s]; dup {
			continue
		}
		c.known[s] = struct{}{}
		c.services = append(c.services, s)
	}
	collate.New(language.Spanish).SortStrings(c.services)

	return c, nil
}

// Load reads a catalog CSV with the header id,code,description,presentation,category.
func Load(r io.Reader, services []string) (*Catalog, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("catalog CSV must have header and at least one data row")
	}

	header := records[0]
	if !validateHeader(header) {
		return nil, fmt.Errorf("catalog CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	items := make([]entity.MedicalItem, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("catalog CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		items = append(items, entity.MedicalItem{
			ID:           strings.TrimSpace(record[0]),
			Code:         strings.TrimSpace(record[1]),
			Description:  strings.TrimSpace(record[2]),
			Presentation: strings.TrimSpace(record[3]),
			Category:     entity.Category(strings.TrimSpace(record[4])),
		})
	}

	return New(items, services)
}

// LoadFile loads the catalog from path, or the embedded catalog when path is empty.
func LoadFile(path string, services []string) (*Catalog, error) {
	if path == "" {
		return Load(bytes.NewReader(defaultCatalogCSV), services)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file, services)
}

// Default returns the embedded catalog with the default services.
func Default() (*Catalog, error) {
	return LoadFile("", nil)
}

func validateHeader(header []string) bool {
	if len(header) != len(expectedHeader) {
		return false
	}
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) != expectedHeader[i] {
			return false
		}
	}
	return true
}

func (c *Catalog) All() []entity.MedicalItem {
	out := make([]entity.MedicalItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) FindByID(id string) (entity.MedicalItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return entity.MedicalItem{}, false
	}
	return c.items[i], true
}

func (c *Catalog) FindByCode(code string) (entity.MedicalItem, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return entity.MedicalItem{}, false
	}
	return c.items[i], true
}

func (c *Catalog) Search(term string) []entity.MedicalItem {
	return search.SearchItems(term, c.items)
}

func (c *Catalog) Services() []string {
	out := make([]string, len(c.services))
	copy(out, c.services)
	return out
}

func (c *Catalog) IsKnownService(name string) bool {
	_, ok := c.known[name]
	return ok
}
