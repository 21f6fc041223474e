package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/logger"
	"credicaja-backend/internal/repository"
)

type cashSessionService struct {
	sessionRepo repository.CashSessionRepository
}

func NewCashSessionService(sessionRepo repository.CashSessionRepository) CashSessionService {
	return &cashSessionService{sessionRepo: sessionRepo}
}

func (s *cashSessionService) OpenSession(ctx context.Context, actor domain.Actor, opening decimal.Decimal) (*domain.CashSession, error) {
	logger.EnterMethod("CashSessionService.OpenSession", "actor_id", actor.UserID, "opening", opening)

	if opening.IsNegative() {
		return nil, domain.NewValidationError("opening", "must not be negative")
	}
	existing, err := s.sessionRepo.GetOpenByCashier(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewStateConflictError("cash session", "an open session already exists for this cashier")
	}

	session := &domain.CashSession{
		CashierID: actor.UserID,
		Status:    domain.CashSessionOpen,
		Opening:   opening,
		Expected:  opening,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		logger.ExitMethodWithError("CashSessionService.OpenSession", err)
		return nil, err
	}

	logger.ExitMethod("CashSessionService.OpenSession", "session_id", session.ID)
	return session, nil
}

func (s *cashSessionService) CloseSession(ctx context.Context, actor domain.Actor, sessionID int64, counted decimal.Decimal) (*domain.CashSession, error) {
	logger.EnterMethod("CashSessionService.CloseSession", "actor_id", actor.UserID, "session_id", sessionID)

	if counted.IsNegative() {
		return nil, domain.NewValidationError("counted", "must not be negative")
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CashierID != actor.UserID && !actor.Role.ManagerLevel() {
		return nil, domain.ErrForbidden
	}
	if session.Status != domain.CashSessionOpen {
		return nil, domain.NewStateConflictError("cash session", "session is already closed")
	}

	now := time.Now().UTC()
	session.Status = domain.CashSessionClosed
	session.Counted = counted
	session.Difference = counted.Sub(session.Expected)
	session.ClosedOn = &now
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		logger.ExitMethodWithError("CashSessionService.CloseSession", err)
		return nil, err
	}

	if !session.Difference.IsZero() {
		logger.Warn("cash session closed with a discrepancy",
			"session_id", session.ID, "cashier_id", session.CashierID,
			"expected", session.Expected, "counted", counted, "difference", session.Difference)
	}

	logger.ExitMethod("CashSessionService.CloseSession", "session_id", session.ID, "difference", session.Difference)
	return session, nil
}

func (s *cashSessionService) GetSession(ctx context.Context, id int64) (*domain.CashSession, error) {
	return s.sessionRepo.GetByID(ctx, id)
}

func (s *cashSessionService) ListSessions(ctx context.Context, actor domain.Actor, page, pageSize int) ([]domain.CashSession, int64, error) {
	if !actor.Role.ManagerLevel() {
		return nil, 0, domain.ErrForbidden
	}
	return s.sessionRepo.List(ctx, page, pageSize)
}
