package dto

// Request DTOs

type AdminSessionRequest struct {
	Secret string `json:"secret" validate:"required"`
}

// Response DTOs

type AdminSessionResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
}

type ReconcileResponse struct {
	Delivered int   `json:"delivered"`
	Remaining int64 `json:"remaining"`
}

// ExportFile is a rendered export ready to be served or saved.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}
