package service

import (
	"context"
	"strings"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/logger"
	"credicaja-backend/internal/repository"
)

type clientService struct {
	clientRepo repository.ClientRepository
	loanRepo   repository.LoanRepository
}

func NewClientService(clientRepo repository.ClientRepository, loanRepo repository.LoanRepository) ClientService {
	return &clientService{clientRepo: clientRepo, loanRepo: loanRepo}
}

func validateClient(client *domain.Client) error {
	client.Document = strings.TrimSpace(client.Document)
	client.FirstName = strings.TrimSpace(client.FirstName)
	client.LastName = strings.TrimSpace(client.LastName)
	if client.Document == "" {
		return domain.NewValidationError("document", "must not be empty")
	}
	if client.FirstName == "" {
		return domain.NewValidationError("first_name", "must not be empty")
	}
	if client.LastName == "" {
		return domain.NewValidationError("last_name", "must not be empty")
	}
	return nil
}

func (s *clientService) CreateClient(ctx context.Context, actor domain.Actor, client *domain.Client) error {
	logger.EnterMethod("ClientService.CreateClient", "actor_id", actor.UserID)

	if err := validateClient(client); err != nil {
		return err
	}
	existing, err := s.clientRepo.GetByDocument(ctx, client.Document)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.NewStateConflictError("client", "document is already registered")
	}

	client.Active = true
	client.CreatedBy = actor.UserID
	if err := s.clientRepo.Create(ctx, client); err != nil {
		logger.ExitMethodWithError("ClientService.CreateClient", err)
		return err
	}

	logger.ExitMethod("ClientService.CreateClient", "client_id", client.ID)
	return nil
}

func (s *clientService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *clientService) UpdateClient(ctx context.Context, actor domain.Actor, client *domain.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}
	current, err := s.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		return err
	}
	if current.Document != client.Document {
		existing, err := s.clientRepo.GetByDocument(ctx, client.Document)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != client.ID {
			return domain.NewStateConflictError("client", "document is already registered")
		}
	}
	client.Active = current.Active
	client.CreatedBy = current.CreatedBy
	return s.clientRepo.Update(ctx, client)
}

// DeactivateClient soft-disables a client. Clients with loans on record are
// never removed from the database.
func (s *clientService) DeactivateClient(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.Role.ManagerLevel() {
		return domain.ErrForbidden
	}
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.loanRepo.CountByClient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("deactivating client with loan history", "client_id", id, "loans", count)
	}
	client.Active = false
	return s.clientRepo.Update(ctx, client)
}

func (s *clientService) ListClients(ctx context.Context, page, pageSize int) ([]domain.Client, int64, error) {
	return s.clientRepo.List(ctx, page, pageSize)
}
