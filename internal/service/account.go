package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/igfollow/snapshot-service/internal/parser"
	"github.com/igfollow/snapshot-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type accountService struct {
	logger *zap.Logger
	repo *repository.Repository
}

func newAccountService(logger *zap.Logger, repo *repository.Repository) Account {
	return &accountService{
		logger: logger,
		repo: repo,
	}
}

func (s *accountService) Create(ctx context.Context, ownerID uuid.UUID, username string, notes string) (*model.TrackedAccount, error) {
	username = parser.NormalizeUsername(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	existing, err := s.repo.Postgres.Account.FindByOwnerAndUsername(ctx, ownerID, username)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to look up tracked account @%s for owner(%s): %s", username, ownerID.String(), err.Error())
		return nil, ErrInternal
	}
	if existing != nil {
		return nil, ErrAccountAlreadyTracked
	}

	account := model.TrackedAccount{
		ID: uuid.New(),
		OwnerID: ownerID,
		InstagramUsername: username,
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		account.Notes = &notes
	}

	created, err := s.repo.Postgres.Account.Create(ctx, account)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create tracked account @%s for owner(%s): %s", username, ownerID.String(), err.Error())
		return nil, ErrInternal
	}

	return created, nil
}

// FindByID resolves an account and checks it belongs to the owner; accounts
// of other owners are reported as not found.
func (s *accountService) FindByID(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID) (*model.TrackedAccount, error) {
	account, err := s.repo.Postgres.Account.FindByID(ctx, accountID)
	if err == pgx.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find tracked account(%s): %s", accountID.String(), err.Error())
		return nil, ErrInternal
	}

	if account.OwnerID != ownerID {
		return nil, ErrAccountNotFound
	}

	return account, nil
}

func (s *accountService) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TrackedAccount, error) {
	accounts, err := s.repo.Postgres.Account.FindByOwner(ctx, ownerID)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to list tracked accounts for owner(%s): %s", ownerID.String(), err.Error())
		return nil, ErrInternal
	}

	return accounts, nil
}

func (s *accountService) DeleteByID(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID) error {
	account, err := s.FindByID(ctx, ownerID, accountID)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Account.DeleteByID(ctx, account.ID); err != nil {
		s.logger.Sugar().Errorf("failed to delete tracked account(%s): %s", account.ID.String(), err.Error())
		return ErrInternal
	}

	return nil
}
