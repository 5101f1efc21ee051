package service

import (
	"context"
	"strings"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/entity"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// PhysicianSessionService remembers the last physician of a device for the
// rest of the calendar day. Stale entries are ignored, never deleted.
type PhysicianSessionService interface {
	Remember(ctx context.Context, clientID, name string) error
	Recall(ctx context.Context, clientID string) (string, bool)
}

type physicianSessionService struct {
	log  *logrus.Logger
	repo repository.PhysicianSessionRepository
	loc  *time.Location
	now  func() time.Time
}

func NewPhysicianSessionService(
	log *logrus.Logger,
	repo repository.PhysicianSessionRepository,
	loc *time.Location,
	now func() time.Time,
) PhysicianSessionService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &physicianSessionService{
		log:  log,
		repo: repo,
		loc:  loc,
		now:  now,
	}
}

func (s *physicianSessionService) today() string {
	return s.now().In(s.loc).Format(entity.SessionDateLayout)
}

func (s *physicianSessionService) Remember(ctx context.Context, clientID, name string) error {
	name = strings.TrimSpace(name)
	if clientID == "" || name == "" {
		return nil
	}

	session := &entity.PhysicianSession{Name: name, Date: s.today()}
	if err := s.repo.Save(ctx, clientID, session); err != nil {
		s.log.Warnf("Failed to remember physician for client %s: %+v", clientID, err)
		return err
	}
	return nil
}

// Recall returns the stored name only when it was saved today.
// Missing or malformed entries read as absent.
func (s *physicianSessionService) Recall(ctx context.Context, clientID string) (string, bool) {
	if clientID == "" {
		return "", false
	}

	session, err := s.repo.FindByClientID(ctx, clientID)
	if err != nil {
		s.log.Debugf("Ignoring physician session for client %s: %+v", clientID, err)
		return "", false
	}
	if session == nil || session.Name == "" || session.Date != s.today() {
		return "", false
	}
	return session.Name, true
}
