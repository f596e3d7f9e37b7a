package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/igfollow/snapshot-service/internal/diff"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/igfollow/snapshot-service/internal/rabbitmq"
	"github.com/igfollow/snapshot-service/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Account interface {
	Create(ctx context.Context, ownerID uuid.UUID, username string, notes string) (*model.TrackedAccount, error)
	FindByID(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID) (*model.TrackedAccount, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TrackedAccount, error)
	DeleteByID(ctx context.Context, ownerID uuid.UUID, accountID uuid.UUID) error
}

type Snapshot interface {
	Ingest(ctx context.Context, owner model.Owner, account *model.TrackedAccount, snapshotType string, content []byte, filename string) (*model.Snapshot, *diff.Diff, error)
	Latest(ctx context.Context, account *model.TrackedAccount, snapshotType string) (*model.Snapshot, error)
	LatestDiff(ctx context.Context, account *model.TrackedAccount, snapshotType string) (*diff.Diff, error)
	Export(ctx context.Context, owner model.Owner, account *model.TrackedAccount, snapshotType string, format string) (*ExportFile, error)
	CreateExportToken(snapshot *model.Snapshot, format string) (string, error)
	ExportByToken(ctx context.Context, owner model.Owner, account *model.TrackedAccount, token string) (*ExportFile, error)
	RegisterConnection(ownerID uuid.UUID, conn *websocket.Conn)
	UnregisterConnection(ownerID uuid.UUID)
	StartProcessingSyncResults(ctx context.Context)
	StartJobs()
}

type Service struct {
	Account
	Snapshot
}

func New(logger *zap.Logger, repo *repository.Repository, rdb *redis.Client, rabbitmq *rabbitmq.MQConn) *Service {
	return &Service{
		Account: newAccountService(logger, repo),
		Snapshot: newSnapshotService(logger, repo, rdb, rabbitmq),
	}
}
