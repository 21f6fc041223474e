package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/service"
)

func TestCashSessionService_OpenSession(t *testing.T) {
	ctx := context.Background()
	cashier := domain.Actor{UserID: 7, Role: domain.RoleWorker}

	t.Run("opens with the declared float", func(t *testing.T) {
		repo := new(MockCashSessionRepo)
		svc := service.NewCashSessionService(repo)

		repo.On("GetOpenByCashier", ctx, int64(7)).Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(s *domain.CashSession) bool {
			return s.CashierID == 7 && s.Status == domain.CashSessionOpen && s.Expected.Equal(dec("200"))
		})).Return(nil)

		session, err := svc.OpenSession(ctx, cashier, dec("200"))
		require.NoError(t, err)
		assert.True(t, session.Opening.Equal(dec("200")))
	})

	t.Run("second open session is refused", func(t *testing.T) {
		repo := new(MockCashSessionRepo)
		svc := service.NewCashSessionService(repo)

		repo.On("GetOpenByCashier", ctx, int64(7)).
			Return(&domain.CashSession{ID: 9, Status: domain.CashSessionOpen}, nil)

		_, err := svc.OpenSession(ctx, cashier, dec("200"))
		var conflict *domain.StateConflictError
		require.ErrorAs(t, err, &conflict)
	})
}

func TestCashSessionService_CloseSession(t *testing.T) {
	ctx := context.Background()
	cashier := domain.Actor{UserID: 7, Role: domain.RoleWorker}

	t.Run("computes the difference", func(t *testing.T) {
		repo := new(MockCashSessionRepo)
		svc := service.NewCashSessionService(repo)

		repo.On("GetByID", ctx, int64(9)).Return(&domain.CashSession{
			ID: 9, CashierID: 7, Status: domain.CashSessionOpen,
			Opening: dec("200"), Expected: dec("350"),
		}, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.CashSession")).Return(nil)

		session, err := svc.CloseSession(ctx, cashier, 9, dec("340"))
		require.NoError(t, err)
		assert.Equal(t, domain.CashSessionClosed, session.Status)
		assert.True(t, session.Difference.Equal(dec("-10")), "difference %s", session.Difference)
		assert.NotNil(t, session.ClosedOn)
	})

	t.Run("another worker cannot close the session", func(t *testing.T) {
		repo := new(MockCashSessionRepo)
		svc := service.NewCashSessionService(repo)

		repo.On("GetByID", ctx, int64(9)).Return(&domain.CashSession{
			ID: 9, CashierID: 8, Status: domain.CashSessionOpen,
		}, nil)

		_, err := svc.CloseSession(ctx, cashier, 9, dec("100"))
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("closed session stays closed", func(t *testing.T) {
		repo := new(MockCashSessionRepo)
		svc := service.NewCashSessionService(repo)

		repo.On("GetByID", ctx, int64(9)).Return(&domain.CashSession{
			ID: 9, CashierID: 7, Status: domain.CashSessionClosed,
		}, nil)

		_, err := svc.CloseSession(ctx, cashier, 9, dec("100"))
		var conflict *domain.StateConflictError
		require.ErrorAs(t, err, &conflict)
	})
}
