package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/http/middleware"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/service"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/usecase"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/response"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/validator"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
	validator     *validator.CustomValidator
}

func NewReportHandler(reportUsecase usecase.ReportUsecase, validator *validator.CustomValidator) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

// SubmitReport handles a shortage report
// @Summary Submit shortage report
// @Description Stored remotely when reachable, otherwise queued locally for later delivery
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body dto.SubmitReportRequest true "Report"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /reports [post]
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clientID, _ := middleware.GetClientIDFromContext(r.Context())

	result, err := h.reportUsecase.SubmitReport(r.Context(), clientID, &req)
	if err != nil {
		var validationErr *entity.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.ValidationError(w, validationErr.Fields)
		case errors.Is(err, usecase.ErrUnknownItem):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, usecase.ErrEmptyFreeTextItem):
			response.Error(w, http.StatusBadRequest, "Free text items need a description", nil)
		case errors.Is(err, service.ErrReportNotPersisted):
			response.ServiceUnavailable(w, "Report could not be saved, please retry", nil)
		default:
			response.InternalServerError(w, "Failed to submit report")
		}
		return
	}

	response.Success(w, http.StatusCreated, result.Message, result)
}

// RecallPhysician returns the name remembered for this device today
// @Summary Recall physician name
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Response
// @Router /physician [get]
func (h *ReportHandler) RecallPhysician(w http.ResponseWriter, r *http.Request) {
	clientID, _ := middleware.GetClientIDFromContext(r.Context())
	response.Success(w, http.StatusOK, "Physician retrieved successfully", h.reportUsecase.RecallPhysician(r.Context(), clientID))
}
