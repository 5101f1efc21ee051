package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/converter"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/export"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/search"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/service"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAdminSecret  = errors.New("invalid admin secret")
	ErrReportNotFound      = errors.New("report not found")
	ErrInvalidExportFormat = errors.New("export format must be xlsx or csv")
)

// AdminTokenKeyPrefix namespaces issued admin token ids in Redis
const AdminTokenKeyPrefix = "admin_token:"

func AdminTokenKey(tokenID string) string {
	return AdminTokenKeyPrefix + tokenID
}

// Reconciler runs one delivery pass of the local fallback queue.
type Reconciler interface {
	RunOnce(ctx context.Context) (service.ReconcileResult, error)
}

type AdminUsecase interface {
	CreateSession(ctx context.Context, req *dto.AdminSessionRequest) (*dto.AdminSessionResponse, error)
	Logout(ctx context.Context, tokenID string) error
	ListReports(ctx context.Context, term string) *dto.ReportListResponse
	DeleteReport(ctx context.Context, id string) error
	ExportReports(ctx context.Context, term, format string) (*dto.ExportFile, error)
	PendingReports(ctx context.Context) *dto.ReportListResponse
	Reconcile(ctx context.Context) (*dto.ReconcileResponse, error)
}

type adminUsecase struct {
	log         *logrus.Logger
	gateway     service.SyncGateway
	reconciler  Reconciler
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	secretHash  []byte
	loc         *time.Location
	now         func() time.Time
}

// NewAdminUsecase hashes the admin secret once; requests are compared against the hash.
func NewAdminUsecase(
	log *logrus.Logger,
	gateway service.SyncGateway,
	reconciler Reconciler,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	adminSecret string,
	loc *time.Location,
	now func() time.Time,
) (AdminUsecase, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin secret: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &adminUsecase{
		log:         log,
		gateway:     gateway,
		reconciler:  reconciler,
		jwtService:  jwtService,
		redisClient: redisClient,
		secretHash:  hash,
		loc:         loc,
		now:         now,
	}, nil
}

func (u *adminUsecase) CreateSession(ctx context.Context, req *dto.AdminSessionRequest) (*dto.AdminSessionResponse, error) {
	if err := bcrypt.CompareHashAndPassword(u.secretHash, []byte(req.Secret)); err != nil {
		return nil, ErrInvalidAdminSecret
	}

	accessToken, tokenID, err := u.jwtService.GenerateAccessToken(jwt.AdminSubject)
	if err != nil {
		u.log.Warnf("Failed to generate admin token: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, AdminTokenKey(tokenID), "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store admin token in Redis: %+v", err)
		return nil, err
	}

	return &dto.AdminSessionResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *adminUsecase) Logout(ctx context.Context, tokenID string) error {
	if err := u.redisClient.Del(ctx, AdminTokenKey(tokenID)).Err(); err != nil {
		u.log.Warnf("Failed to revoke admin token: %+v", err)
		return err
	}
	return nil
}

func (u *adminUsecase) ListReports(ctx context.Context, term string) *dto.ReportListResponse {
	reports := search.FilterReports(term, u.gateway.List(ctx))
	return &dto.ReportListResponse{
		Reports: converter.ReportsToResponses(reports),
		Total:   len(reports),
	}
}

func (u *adminUsecase) DeleteReport(ctx context.Context, id string) error {
	if !u.gateway.Remove(ctx, id) {
		return ErrReportNotFound
	}
	u.log.Infof("Report %s deleted", id)
	return nil
}

// ExportReports renders the filtered list. Returns export.ErrEmptyExport
// when there is nothing to write.
func (u *adminUsecase) ExportReports(ctx context.Context, term, format string) (*dto.ExportFile, error) {
	if format == "" {
		format = export.FormatXLSX
	}
	if format != export.FormatXLSX && format != export.FormatCSV {
		return nil, ErrInvalidExportFormat
	}

	rows := export.Project(search.FilterReports(term, u.gateway.List(ctx)))

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		if !errors.Is(err, export.ErrEmptyExport) {
			u.log.Warnf("Failed to write export: %+v", err)
		}
		return nil, err
	}

	return &dto.ExportFile{
		Filename:    export.Filename(u.now().In(u.loc), format),
		ContentType: export.ContentType(format),
		Content:     buf.Bytes(),
		Rows:        len(rows),
	}, nil
}

func (u *adminUsecase) PendingReports(ctx context.Context) *dto.ReportListResponse {
	reports := u.gateway.Pending(ctx)
	return &dto.ReportListResponse{
		Reports: converter.ReportsToResponses(reports),
		Total:   len(reports),
	}
}

func (u *adminUsecase) Reconcile(ctx context.Context) (*dto.ReconcileResponse, error) {
	result, err := u.reconciler.RunOnce(ctx)
	response := &dto.ReconcileResponse{Delivered: result.Delivered, Remaining: result.Remaining}
	if err != nil {
		return response, err
	}
	return response, nil
}
