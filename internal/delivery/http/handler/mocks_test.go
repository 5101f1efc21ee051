package handler

import (
	"context"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/usecase"
)

// Compile-time checks
var (
	_ usecase.ReportUsecase = (*MockReportUsecase)(nil)
	_ usecase.AdminUsecase  = (*MockAdminUsecase)(nil)
)

type MockReportUsecase struct {
	SubmitReportFunc    func(ctx context.Context, clientID string, req *dto.SubmitReportRequest) (*dto.SubmitReportResponse, error)
	RecallPhysicianFunc func(ctx context.Context, clientID string) *dto.PhysicianResponse

	LastClientID string
}

func (m *MockReportUsecase) SubmitReport(ctx context.Context, clientID string, req *dto.SubmitReportRequest) (*dto.SubmitReportResponse, error) {
	m.LastClientID = clientID
	if m.SubmitReportFunc != nil {
		return m.SubmitReportFunc(ctx, clientID, req)
	}
	return &dto.SubmitReportResponse{Outcome: "remote", Message: usecase.MessageSavedRemote}, nil
}

func (m *MockReportUsecase) RecallPhysician(ctx context.Context, clientID string) *dto.PhysicianResponse {
	m.LastClientID = clientID
	if m.RecallPhysicianFunc != nil {
		return m.RecallPhysicianFunc(ctx, clientID)
	}
	return &dto.PhysicianResponse{}
}

type MockAdminUsecase struct {
	CreateSessionFunc  func(ctx context.Context, req *dto.AdminSessionRequest) (*dto.AdminSessionResponse, error)
	LogoutFunc         func(ctx context.Context, tokenID string) error
	ListReportsFunc    func(ctx context.Context, term string) *dto.ReportListResponse
	DeleteReportFunc   func(ctx context.Context, id string) error
	ExportReportsFunc  func(ctx context.Context, term, format string) (*dto.ExportFile, error)
	PendingReportsFunc func(ctx context.Context) *dto.ReportListResponse
	ReconcileFunc      func(ctx context.Context) (*dto.ReconcileResponse, error)
}

func (m *MockAdminUsecase) CreateSession(ctx context.Context, req *dto.AdminSessionRequest) (*dto.AdminSessionResponse, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, req)
	}
	return &dto.AdminSessionResponse{}, nil
}

func (m *MockAdminUsecase) Logout(ctx context.Context, tokenID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, tokenID)
	}
	return nil
}

func (m *MockAdminUsecase) ListReports(ctx context.Context, term string) *dto.ReportListResponse {
	if m.ListReportsFunc != nil {
		return m.ListReportsFunc(ctx, term)
	}
	return &dto.ReportListResponse{Reports: []dto.ReportResponse{}}
}

func (m *MockAdminUsecase) DeleteReport(ctx context.Context, id string) error {
	if m.DeleteReportFunc != nil {
		return m.DeleteReportFunc(ctx, id)
	}
	return nil
}

func (m *MockAdminUsecase) ExportReports(ctx context.Context, term, format string) (*dto.ExportFile, error) {
	if m.ExportReportsFunc != nil {
		return m.ExportReportsFunc(ctx, term, format)
	}
	return &dto.ExportFile{}, nil
}

func (m *MockAdminUsecase) PendingReports(ctx context.Context) *dto.ReportListResponse {
	if m.PendingReportsFunc != nil {
		return m.PendingReportsFunc(ctx)
	}
	return &dto.ReportListResponse{Reports: []dto.ReportResponse{}}
}

func (m *MockAdminUsecase) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx)
	}
	return &dto.ReconcileResponse{}, nil
}
