package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/catalog"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/converter"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrUnknownItem       = errors.New("unknown catalog item")
	ErrEmptyFreeTextItem = errors.New("free text item needs a description")
)

const (
	MessageSavedRemote = "Reporte guardado en la nube correctamente."
	MessageSavedLocal  = "El reporte se guardó localmente (sin internet). Se sincronizará después."
)

// NewFreeTextItem builds an item that is not in the catalog. The description
// is upper-cased with Spanish rules; category defaults to Medicamento.
func NewFreeTextItem(description string, category entity.Category) (entity.MedicalItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return entity.MedicalItem{}, ErrEmptyFreeTextItem
	}
	if category == "" {
		category = entity.CategoryMedicamento
	}

	return entity.MedicalItem{
		ID:           entity.FreeTextIDPrefix + uuid.NewString(),
		Code:         entity.FreeTextCode,
		Description:  cases.Upper(language.Spanish).String(description),
		Presentation: entity.FreeTextPresentation,
		Category:     category,
		Origin:       entity.OriginFreeText,
	}, nil
}

type ReportUsecase interface {
	SubmitReport(ctx context.Context, clientID string, req *dto.SubmitReportRequest) (*dto.SubmitReportResponse, error)
	RecallPhysician(ctx context.Context, clientID string) *dto.PhysicianResponse
}

type reportUsecase struct {
	log            *logrus.Logger
	catalog        *catalog.Catalog
	gateway        service.SyncGateway
	sessionService service.PhysicianSessionService
	loc            *time.Location
	now            func() time.Time
}

func NewReportUsecase(
	log *logrus.Logger,
	catalog *catalog.Catalog,
	gateway service.SyncGateway,
	sessionService service.PhysicianSessionService,
	loc *time.Location,
	now func() time.Time,
) ReportUsecase {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &reportUsecase{
		log:            log,
		catalog:        catalog,
		gateway:        gateway,
		sessionService: sessionService,
		loc:            loc,
		now:            now,
	}
}

func (u *reportUsecase) SubmitReport(ctx context.Context, clientID string, req *dto.SubmitReportRequest) (*dto.SubmitReportResponse, error) {
	items, err := u.resolveItems(req)
	if err != nil {
		return nil, err
	}

	report := entity.NewReport(uuid.NewString(), req.PhysicianName, req.Service, items, u.now().In(u.loc))

	outcome, err := u.gateway.Submit(ctx, report)
	if err != nil {
		return nil, err
	}

	// kept for the rest of the day whatever the outcome
	if err := u.sessionService.Remember(ctx, clientID, report.PhysicianName); err != nil {
		u.log.Warnf("Failed to remember physician after submit: %+v", err)
	}

	message := MessageSavedRemote
	if outcome == service.OutcomeLocalFallback {
		message = MessageSavedLocal
	}

	return &dto.SubmitReportResponse{
		Report:  *converter.ReportToResponse(report),
		Outcome: string(outcome),
		Message: message,
	}, nil
}

func (u *reportUsecase) RecallPhysician(ctx context.Context, clientID string) *dto.PhysicianResponse {
	name, ok := u.sessionService.Recall(ctx, clientID)
	return &dto.PhysicianResponse{Name: name, Remembered: ok}
}

// resolveItems looks up catalog ids, selecting each at most once, then
// appends the free-text items in request order.
func (u *reportUsecase) resolveItems(req *dto.SubmitReportRequest) ([]entity.MedicalItem, error) {
	items := make([]entity.MedicalItem, 0, len(req.ItemIDs)+len(req.FreeTextItems))
	seen := make(map[string]struct{}, len(req.ItemIDs))

	for _, id := range req.ItemIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		item, ok := u.catalog.FindByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		items = append(items, item)
	}

	for _, free := range req.FreeTextItems {
		item, err := NewFreeTextItem(free.Description, entity.Category(free.Category))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
