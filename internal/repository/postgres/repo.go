package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Account interface {
	Create(ctx context.Context, account model.TrackedAccount) (*model.TrackedAccount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.TrackedAccount, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TrackedAccount, error)
	FindByOwnerAndUsername(ctx context.Context, ownerID uuid.UUID, username string) (*model.TrackedAccount, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type Snapshot interface {
	Create(ctx context.Context, accountID uuid.UUID, snapshotType string, rows []model.SnapshotRow) (*model.Snapshot, error)
	FindByID(ctx context.Context, id int64) (*model.Snapshot, error)
	Latest(ctx context.Context, accountID uuid.UUID, snapshotType string) (*model.Snapshot, error)
	PreviousTo(ctx context.Context, snapshot model.Snapshot) (*model.Snapshot, error)
	Entries(ctx context.Context, snapshotID int64) ([]model.SnapshotRow, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, keepLatest int) error
}

type PGRepo struct {
	Account
	Snapshot
}

func New(db *pgxpool.Pool) *PGRepo {
	return &PGRepo{
		Account:  newAccountRepo(db),
		Snapshot: newSnapshotRepo(db),
	}
}
