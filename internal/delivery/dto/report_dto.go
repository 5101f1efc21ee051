package dto

// Request DTOs

type FreeTextItemRequest struct {
	Description string `json:"description" validate:"required,notblank,max=200"`
	Category    string `json:"category" validate:"omitempty,oneof=Medicamento Insumo"`
}

type SubmitReportRequest struct {
	PhysicianName string                `json:"physician_name" validate:"required,notblank,max=120"`
	Service       string                `json:"service" validate:"required"`
	ItemIDs       []string              `json:"item_ids" validate:"omitempty,dive,required"`
	FreeTextItems []FreeTextItemRequest `json:"free_text_items" validate:"omitempty,dive"`
}

// Response DTOs

type MedicalItemResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	Presentation string `json:"presentation"`
	Category     string `json:"category"`
	Origin       string `json:"origin"`
	DisplayCode  string `json:"display_code"`
	Label        string `json:"label,omitempty"`
}

type ReportResponse struct {
	ID            string                `json:"id"`
	PhysicianName string                `json:"physician_name"`
	Service       string                `json:"service"`
	Date          string                `json:"date"`
	Timestamp     int64                 `json:"timestamp"`
	Items         []MedicalItemResponse `json:"items"`
}

type SubmitReportResponse struct {
	Report  ReportResponse `json:"report"`
	Outcome string         `json:"outcome"`
	Message string         `json:"message"`
}

type PhysicianResponse struct {
	Name       string `json:"name"`
	Remembered bool   `json:"remembered"`
}

type ServiceListResponse struct {
	Services []string `json:"services"`
}

type MedicalItemListResponse struct {
	Items []MedicalItemResponse `json:"items"`
}
