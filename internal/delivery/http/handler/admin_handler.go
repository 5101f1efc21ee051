package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/http/middleware"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/export"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/service"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/usecase"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/response"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/validator"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	validator    *validator.CustomValidator
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

// CreateSession handles admin login
// @Summary Open admin session
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminSessionRequest true "Admin secret"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/session [post]
func (h *AdminHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.adminUsecase.CreateSession(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidAdminSecret:
			response.Unauthorized(w, "Invalid admin secret")
		default:
			response.InternalServerError(w, "Failed to open session")
		}
		return
	}

	response.Success(w, http.StatusOK, "Session opened", session)
}

// Logout revokes the current admin token
// @Summary Close admin session
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	if err := h.adminUsecase.Logout(r.Context(), tokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// ListReports handles the history view
// @Summary List reports
// @Description Newest first, optionally filtered by service, physician or item
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param q query string false "Filter term"
// @Success 200 {object} response.Response
// @Router /admin/reports [get]
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports := h.adminUsecase.ListReports(r.Context(), r.URL.Query().Get("q"))
	response.Success(w, http.StatusOK, "Reports retrieved successfully", reports)
}

// DeleteReport handles report removal
// @Summary Delete report
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/reports/{id} [delete]
func (h *AdminHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.adminUsecase.DeleteReport(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrReportNotFound:
			response.NotFound(w, "Report not found")
		default:
			response.InternalServerError(w, "Failed to delete report")
		}
		return
	}

	response.Success(w, http.StatusOK, "Report deleted successfully", nil)
}

// ExportReports streams the filtered history as a spreadsheet
// @Summary Export reports
// @Description One row per item; 204 when nothing matches
// @Tags Admin
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param q query string false "Filter term"
// @Param format query string false "xlsx or csv"
// @Success 200 {file} file
// @Success 204
// @Failure 400 {object} response.Response
// @Router /admin/reports/export [get]
func (h *AdminHandler) ExportReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	file, err := h.adminUsecase.ExportReports(r.Context(), query.Get("q"), query.Get("format"))
	if err != nil {
		switch {
		case errors.Is(err, export.ErrEmptyExport):
			response.NoContent(w)
		case errors.Is(err, usecase.ErrInvalidExportFormat):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to export reports")
		}
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Content)
}

// PendingReports lists reports waiting in the local queue
// @Summary List pending reports
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/reports/pending [get]
func (h *AdminHandler) PendingReports(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Pending reports retrieved successfully", h.adminUsecase.PendingReports(r.Context()))
}

// Reconcile runs one delivery pass of the local queue
// @Summary Reconcile pending reports
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /admin/reports/reconcile [post]
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminUsecase.Reconcile(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReconcileInProgress):
			response.Error(w, http.StatusConflict, "Reconciliation already running", result)
		case errors.Is(err, service.ErrRemoteUnavailable):
			response.ServiceUnavailable(w, "Remote store unavailable", result)
		default:
			response.Error(w, http.StatusBadGateway, "Reconciliation stopped early", result)
		}
		return
	}

	response.Success(w, http.StatusOK, "Reconciliation finished", result)
}
