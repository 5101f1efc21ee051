package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/export"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/service"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/usecase"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminRouter(uc usecase.AdminUsecase) *mux.Router {
	h := NewAdminHandler(uc, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/admin/session", h.CreateSession).Methods(http.MethodPost)
	r.HandleFunc("/admin/reports", h.ListReports).Methods(http.MethodGet)
	r.HandleFunc("/admin/reports/export", h.ExportReports).Methods(http.MethodGet)
	r.HandleFunc("/admin/reports/reconcile", h.Reconcile).Methods(http.MethodPost)
	r.HandleFunc("/admin/reports/{id}", h.DeleteReport).Methods(http.MethodDelete)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminCreateSessionHandler(t *testing.T) {
	uc := &MockAdminUsecase{
		CreateSessionFunc: func(ctx context.Context, req *dto.AdminSessionRequest) (*dto.AdminSessionResponse, error) {
			if req.Secret != "chmh-admin" {
				return nil, usecase.ErrInvalidAdminSecret
			}
			return &dto.AdminSessionResponse{AccessToken: "token", ExpiresIn: 60}, nil
		},
	}
	r := adminRouter(uc)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/admin/session", `{"secret":"chmh-admin"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/admin/session", `{"secret":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/admin/session", `{}`).Code)
}

func TestAdminListReportsHandler_PassesFilter(t *testing.T) {
	var gotTerm string
	uc := &MockAdminUsecase{
		ListReportsFunc: func(ctx context.Context, term string) *dto.ReportListResponse {
			gotTerm = term
			return &dto.ReportListResponse{Reports: []dto.ReportResponse{{ID: "r1"}}, Total: 1}
		},
	}

	rec := serve(adminRouter(uc), http.MethodGet, "/admin/reports?q=pediatr%C3%ADa", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pediatría", gotTerm)
	assert.Equal(t, float64(1), decodeResponse(t, rec).Data.(map[string]interface{})["total"])
}

func TestAdminDeleteReportHandler(t *testing.T) {
	uc := &MockAdminUsecase{
		DeleteReportFunc: func(ctx context.Context, id string) error {
			if id == "r1" {
				return nil
			}
			return usecase.ErrReportNotFound
		},
	}
	r := adminRouter(uc)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodDelete, "/admin/reports/r1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/admin/reports/r9", "").Code)
}

func TestAdminExportReportsHandler(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		uc := &MockAdminUsecase{
			ExportReportsFunc: func(ctx context.Context, term, format string) (*dto.ExportFile, error) {
				assert.Equal(t, "csv", format)
				return &dto.ExportFile{Filename: "LOG_CHMH_2024-03-05.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("a,b\n"), Rows: 1}, nil
			},
		}
		rec := serve(adminRouter(uc), http.MethodGet, "/admin/reports/export?format=csv", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="LOG_CHMH_2024-03-05.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "a,b\n", rec.Body.String())
	})

	t.Run("nothing to export", func(t *testing.T) {
		uc := &MockAdminUsecase{
			ExportReportsFunc: func(ctx context.Context, term, format string) (*dto.ExportFile, error) {
				return nil, export.ErrEmptyExport
			},
		}
		rec := serve(adminRouter(uc), http.MethodGet, "/admin/reports/export?q=zzz", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("bad format", func(t *testing.T) {
		uc := &MockAdminUsecase{
			ExportReportsFunc: func(ctx context.Context, term, format string) (*dto.ExportFile, error) {
				return nil, usecase.ErrInvalidExportFormat
			},
		}
		assert.Equal(t, http.StatusBadRequest, serve(adminRouter(uc), http.MethodGet, "/admin/reports/export?format=pdf", "").Code)
	})
}

func TestAdminReconcileHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "drained", wantStatus: http.StatusOK},
		{name: "busy", err: service.ErrReconcileInProgress, wantStatus: http.StatusConflict},
		{name: "remote down", err: service.ErrRemoteUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "stopped early", err: errors.New("insert failed"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &MockAdminUsecase{
				ReconcileFunc: func(ctx context.Context) (*dto.ReconcileResponse, error) {
					return &dto.ReconcileResponse{Delivered: 1, Remaining: 2}, tt.err
				},
			}
			rec := serve(adminRouter(uc), http.MethodPost, "/admin/reports/reconcile", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
