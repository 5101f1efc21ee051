package converter

import (
	"testing"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicalItemToResponse(t *testing.T) {
	tests := []struct {
		name        string
		item        entity.MedicalItem
		wantOrigin  string
		wantDisplay string
		wantLabel   string
	}{
		{
			name:        "catalog item",
			item:        entity.MedicalItem{ID: "M001", Code: "M001", Description: "PARACETAMOL", Category: entity.CategoryMedicamento, Origin: entity.OriginCatalog},
			wantOrigin:  "catalog",
			wantDisplay: "M001",
		},
		{
			name:        "free text item",
			item:        entity.MedicalItem{ID: "custom-1", Code: entity.FreeTextCode, Description: "GASAS", Category: entity.CategoryInsumo, Origin: entity.OriginFreeText},
			wantOrigin:  "free_text",
			wantDisplay: "CAPTURA LIBRE",
			wantLabel:   FreeTextLabel,
		},
		{
			name:        "legacy free text without origin or code",
			item:        entity.MedicalItem{ID: "custom-2", Description: "VENDAS", Category: entity.CategoryInsumo},
			wantOrigin:  "free_text",
			wantDisplay: NoCodeLabel,
			wantLabel:   FreeTextLabel,
		},
		{
			name:        "legacy catalog item without origin",
			item:        entity.MedicalItem{ID: "I001", Code: "I001", Description: "JERINGA", Category: entity.CategoryInsumo},
			wantOrigin:  "catalog",
			wantDisplay: "I001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MedicalItemToResponse(tt.item)
			assert.Equal(t, tt.wantOrigin, got.Origin)
			assert.Equal(t, tt.wantDisplay, got.DisplayCode)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.item.Code, got.Code, "raw code is kept")
		})
	}
}

func TestReportsToResponses(t *testing.T) {
	reports := []entity.Report{{
		ID:            "r1",
		PhysicianName: "Dra. Lopez",
		Service:       "Pediatría",
		Date:          "5/3/2024",
		Timestamp:     1709650000000,
		Items:         entity.ItemList{{ID: "M001", Code: "M001", Description: "PARACETAMOL", Category: entity.CategoryMedicamento}},
	}}

	responses := ReportsToResponses(reports)
	require.Len(t, responses, 1)
	assert.Equal(t, "Dra. Lopez", responses[0].PhysicianName)
	assert.Equal(t, int64(1709650000000), responses[0].Timestamp)
	require.Len(t, responses[0].Items, 1)
	assert.Equal(t, "PARACETAMOL", responses[0].Items[0].Description)

	assert.Nil(t, ReportToResponse(nil))
	assert.Empty(t, ReportsToResponses(nil))
}
