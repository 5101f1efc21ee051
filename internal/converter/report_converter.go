package converter

import (
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
)

const (
	FreeTextLabel = "[LIBRE]"
	NoCodeLabel   = "SIN CLAVE"
)

// MedicalItemToResponse converts a MedicalItem entity to MedicalItemResponse DTO
func MedicalItemToResponse(item entity.MedicalItem) dto.MedicalItemResponse {
	origin := item.Origin
	if origin == "" {
		origin = entity.OriginCatalog
		if item.IsFreeText() {
			origin = entity.OriginFreeText
		}
	}

	response := dto.MedicalItemResponse{
		ID:           item.ID,
		Code:         item.Code,
		Description:  item.Description,
		Presentation: item.Presentation,
		Category:     string(item.Category),
		Origin:       string(origin),
		DisplayCode:  item.Code,
	}

	if response.DisplayCode == "" {
		response.DisplayCode = NoCodeLabel
	}
	if item.IsFreeText() {
		response.Label = FreeTextLabel
	}

	return response
}

// MedicalItemsToResponses converts a slice of MedicalItem entities to slice of MedicalItemResponse DTOs
func MedicalItemsToResponses(items []entity.MedicalItem) []dto.MedicalItemResponse {
	responses := make([]dto.MedicalItemResponse, len(items))
	for i, item := range items {
		responses[i] = MedicalItemToResponse(item)
	}
	return responses
}

// ReportToResponse converts a Report entity to ReportResponse DTO
func ReportToResponse(report *entity.Report) *dto.ReportResponse {
	if report == nil {
		return nil
	}

	return &dto.ReportResponse{
		ID:            report.ID,
		PhysicianName: report.PhysicianName,
		Service:       report.Service,
		Date:          report.Date,
		Timestamp:     report.Timestamp,
		Items:         MedicalItemsToResponses(report.Items),
	}
}

// ReportsToResponses converts a slice of Report entities to slice of ReportResponse DTOs
func ReportsToResponses(reports []entity.Report) []dto.ReportResponse {
	responses := make([]dto.ReportResponse, len(reports))
	for i := range reports {
		responses[i] = *ReportToResponse(&reports[i])
	}
	return responses
}
