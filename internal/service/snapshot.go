package service

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/igfollow/snapshot-service/internal/diff"
	"github.com/igfollow/snapshot-service/internal/dto"
	"github.com/igfollow/snapshot-service/internal/export"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/igfollow/snapshot-service/internal/parser"
	"github.com/igfollow/snapshot-service/internal/rabbitmq"
	"github.com/igfollow/snapshot-service/internal/repository"
	"github.com/igfollow/snapshot-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DIFF_CACHE_TTL = time.Minute * 2
	EXPORT_TOKEN_TTL = time.Minute * 5
	DEFAULT_MAX_FREE_EXPORT = 600
	DEFAULT_SNAPSHOT_RETENTION_DAYS = 90
	RETENTION_KEEP_LATEST = 2
)

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type snapshotService struct {
	logger *zap.Logger
	repo *repository.Repository
	rdb *redis.Client
	rabbitmq *rabbitmq.MQConn
	scheduler gocron.Scheduler
	conns *sync.Map
	deliveryChan chan model.DiffDelivery
}

func newSnapshotService(logger *zap.Logger, repo *repository.Repository, rdb *redis.Client, rabbitmq *rabbitmq.MQConn) Snapshot {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		panic(err)
	}

	s := &snapshotService{
		logger: logger,
		repo: repo,
		rdb: rdb,
		rabbitmq: rabbitmq,
		scheduler: scheduler,
		conns: &sync.Map{},
		deliveryChan: make(chan model.DiffDelivery, 1000),
	}

	for range 5 {
		go s.deliveryWorker()
	}

	return s
}

func (s *snapshotService) deliveryWorker() {
	for msg := range s.deliveryChan {
		val, ok := s.conns.Load(msg.OwnerID)
		if !ok {
			continue
		}

		conn, ok := val.(*websocket.Conn)
		if !ok {
			continue
		}

		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Sugar().Errorf("failed to write diff to owner(%s)'s conn: %s", msg.OwnerID.String(), err.Error())
		}
	}
}

func (s *snapshotService) RegisterConnection(ownerID uuid.UUID, conn *websocket.Conn) {
	s.conns.Store(ownerID, conn)

	go func(ownerID uuid.UUID, c *websocket.Conn) {
		for {
			_, _, err := c.ReadMessage()
			if err != nil {
				s.UnregisterConnection(ownerID)
				break
			}
		}
	}(ownerID, conn)
}

func (s *snapshotService) UnregisterConnection(ownerID uuid.UUID) {
	if val, ok := s.conns.Load(ownerID); ok {
		if conn, ok := val.(*websocket.Conn); ok {
			conn.Close()
		}
		s.conns.Delete(ownerID)
	}
}

// Ingest parses an uploaded export file, persists it as a new immutable
// snapshot and returns the diff against the previous snapshot of the same
// type. Nothing is persisted when the upload yields zero rows.
func (s *snapshotService) Ingest(ctx context.Context, owner model.Owner, account *model.TrackedAccount, snapshotType string, content []byte, filename string) (*model.Snapshot, *diff.Diff, error) {
	snapshotType, err := ValidateSnapshotType(snapshotType)
	if err != nil {
		return nil, nil, err
	}

	rows := parser.Parse(content, filename)
	if len(rows) == 0 {
		return nil, nil, ErrEmptyUpload
	}

	return s.ingestRows(ctx, owner, account, snapshotType, rows)
}

func (s *snapshotService) ingestRows(ctx context.Context, owner model.Owner, account *model.TrackedAccount, snapshotType string, rows []model.SnapshotRow) (*model.Snapshot, *diff.Diff, error) {
	snapshot, err := s.repo.Postgres.Snapshot.Create(ctx, account.ID, snapshotType, rows)
	if err == pgx.ErrNoRows {
		return nil, nil, ErrAccountNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to create %s snapshot for account(%s): %s", snapshotType, account.ID.String(), err.Error())
		return nil, nil, ErrInternal
	}

	d, err := s.diffAgainstPrevious(ctx, snapshot, usernames(rows))
	if err != nil {
		return nil, nil, err
	}

	if err := redisrepo.SetJSON(s.rdb, ctx, redisrepo.AccountDiffKey(account.ID.String(), snapshotType), d, DIFF_CACHE_TTL); err != nil {
		s.logger.Sugar().Errorf("failed to cache %s diff for account(%s): %s", snapshotType, account.ID.String(), err.Error())
	}

	s.deliveryChan <- model.DiffDelivery{
		OwnerID: account.OwnerID,
		AccountID: account.ID,
		SnapshotType: snapshotType,
		Added: d.Added,
		Removed: d.Removed,
	}

	s.publishDiffSummary(owner, account, snapshotType, d)

	return snapshot, d, nil
}

// diffAgainstPrevious compares the given snapshot's usernames with the stored
// entries of the snapshot preceding it. With no prior snapshot every row
// counts as added.
func (s *snapshotService) diffAgainstPrevious(ctx context.Context, snapshot *model.Snapshot, current []string) (*diff.Diff, error) {
	previous, err := s.repo.Postgres.Snapshot.PreviousTo(ctx, *snapshot)
	if err == pgx.ErrNoRows {
		d := diff.Compute(nil, current)
		return &d, nil
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find snapshot preceding snapshot(%d): %s", snapshot.ID, err.Error())
		return nil, ErrInternal
	}

	previousEntries, err := s.repo.Postgres.Snapshot.Entries(ctx, previous.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load entries of snapshot(%d): %s", previous.ID, err.Error())
		return nil, ErrInternal
	}

	d := diff.Compute(usernames(previousEntries), current)
	return &d, nil
}

func (s *snapshotService) Latest(ctx context.Context, account *model.TrackedAccount, snapshotType string) (*model.Snapshot, error) {
	snapshotType, err := ValidateSnapshotType(snapshotType)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.repo.Postgres.Snapshot.Latest(ctx, account.ID, snapshotType)
	if err == pgx.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find latest %s snapshot for account(%s): %s", snapshotType, account.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return snapshot, nil
}

// LatestDiff returns the diff between the two most recent snapshots of the
// given type, read through the redis cache.
func (s *snapshotService) LatestDiff(ctx context.Context, account *model.TrackedAccount, snapshotType string) (*diff.Diff, error) {
	snapshotType, err := ValidateSnapshotType(snapshotType)
	if err != nil {
		return nil, err
	}

	diffCache, err := redisrepo.Get[diff.Diff](s.rdb, ctx, redisrepo.AccountDiffKey(account.ID.String(), snapshotType))
	if err == nil {
		return diffCache, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get %s diff for account(%s) from redis: %s", snapshotType, account.ID.String(), err.Error())
		return nil, ErrInternal
	}

	latest, err := s.repo.Postgres.Snapshot.Latest(ctx, account.ID, snapshotType)
	if err == pgx.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find latest %s snapshot for account(%s): %s", snapshotType, account.ID.String(), err.Error())
		return nil, ErrInternal
	}

	entries, err := s.repo.Postgres.Snapshot.Entries(ctx, latest.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load entries of snapshot(%d): %s", latest.ID, err.Error())
		return nil, ErrInternal
	}

	d, err := s.diffAgainstPrevious(ctx, latest, usernames(entries))
	if err != nil {
		return nil, err
	}

	if err := redisrepo.SetJSON(s.rdb, ctx, redisrepo.AccountDiffKey(account.ID.String(), snapshotType), d, DIFF_CACHE_TTL); err != nil {
		s.logger.Sugar().Errorf("failed to cache %s diff for account(%s): %s", snapshotType, account.ID.String(), err.Error())
	}

	return d, nil
}

func (s *snapshotService) Export(ctx context.Context, owner model.Owner, account *model.TrackedAccount, snapshotType string, format string) (*ExportFile, error) {
	format, err := ValidateExportFormat(format)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.Latest(ctx, account, snapshotType)
	if err != nil {
		return nil, err
	}

	return s.exportSnapshot(ctx, owner, account, snapshot, format)
}

func (s *snapshotService) exportSnapshot(ctx context.Context, owner model.Owner, account *model.TrackedAccount, snapshot *model.Snapshot, format string) (*ExportFile, error) {
	entries, err := s.repo.Postgres.Snapshot.Entries(ctx, snapshot.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load entries of snapshot(%d): %s", snapshot.ID, err.Error())
		return nil, ErrInternal
	}

	if len(entries) > maxFreeExport() && !owner.IsSubscribed {
		return nil, ErrExportLimitExceeded
	}

	switch format {
	case EXPORT_FORMAT_XLSX:
		data, err := export.WriteXLSX(snapshot.SnapshotType, entries)
		if err != nil {
			s.logger.Sugar().Errorf("failed to serialize snapshot(%d) to xlsx: %s", snapshot.ID, err.Error())
			return nil, ErrInternal
		}
		return &ExportFile{
			Filename: export.Filename(account.InstagramUsername, snapshot.SnapshotType, "xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data: data,
		}, nil
	default:
		data, err := export.WriteCSV(entries)
		if err != nil {
			s.logger.Sugar().Errorf("failed to serialize snapshot(%d) to csv: %s", snapshot.ID, err.Error())
			return nil, ErrInternal
		}
		return &ExportFile{
			Filename: export.Filename(account.InstagramUsername, snapshot.SnapshotType, "csv"),
			ContentType: "text/csv",
			Data: data,
		}, nil
	}
}

// CreateExportToken signs a short-lived download token so the browser can
// fetch the file in a follow-up GET without resubmitting the form.
func (s *snapshotService) CreateExportToken(snapshot *model.Snapshot, format string) (string, error) {
	format, err := ValidateExportFormat(format)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"account_id": snapshot.AccountID.String(),
		"snapshot_id": snapshot.ID,
		"snapshot_type": snapshot.SnapshotType,
		"format": format,
		"exp": time.Now().Add(EXPORT_TOKEN_TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(exportSecret())
}

func (s *snapshotService) ExportByToken(ctx context.Context, owner model.Owner, account *model.TrackedAccount, tokenString string) (*ExportFile, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidExportToken
		}
		return exportSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidExportToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidExportToken
	}

	accountIDString, ok := claims["account_id"].(string)
	if !ok || accountIDString != account.ID.String() {
		return nil, ErrInvalidExportToken
	}
	snapshotID, ok := claims["snapshot_id"].(float64)
	if !ok {
		return nil, ErrInvalidExportToken
	}
	format, ok := claims["format"].(string)
	if !ok {
		return nil, ErrInvalidExportToken
	}

	snapshot, err := s.repo.Postgres.Snapshot.FindByID(ctx, int64(snapshotID))
	if err == pgx.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find snapshot(%d): %s", int64(snapshotID), err.Error())
		return nil, ErrInternal
	}
	if snapshot.AccountID != account.ID {
		return nil, ErrInvalidExportToken
	}

	return s.exportSnapshot(ctx, owner, account, snapshot, format)
}

// StartProcessingSyncResults consumes follower/following lists fetched by the
// external sync collaborator and ingests them like uploads.
func (s *snapshotService) StartProcessingSyncResults(ctx context.Context) {
	msgs, err := s.rabbitmq.Consume(rabbitmq.SNAPSHOT_SYNC_QUEUE)
	if err != nil {
		panic(err)
	}

	for msg := range msgs {
		var syncDto dto.MQSyncCompleted
		if err := json.Unmarshal(msg.Body, &syncDto); err != nil {
			msg.Ack(false)
			continue
		}

		snapshotType, err := ValidateSnapshotType(syncDto.SnapshotType)
		if err != nil {
			msg.Ack(false)
			continue
		}

		account, err := s.repo.Postgres.Account.FindByID(ctx, syncDto.AccountID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find account(%s) for sync result: %s", syncDto.AccountID.String(), err.Error())
			msg.Ack(false)
			continue
		}

		raw := make([]parser.RawRow, 0, len(syncDto.Rows))
		for _, row := range syncDto.Rows {
			raw = append(raw, parser.RawRow{Username: row.Username, FullName: row.FullName, AvatarURL: row.AvatarURL})
		}

		rows := parser.Rows(raw)
		if len(rows) == 0 {
			msg.Ack(false)
			continue
		}

		if _, _, err := s.ingestRows(ctx, model.Owner{ID: account.OwnerID}, account, snapshotType, rows); err != nil {
			s.logger.Sugar().Errorf("failed to ingest synced %s snapshot for account(%s): %s", snapshotType, account.ID.String(), err.Error())
		}

		msg.Ack(false)
	}
}

func (s *snapshotService) newDeleteOldSnapshotsJob() {
	s.scheduler.NewJob(gocron.DurationJob(time.Hour * 12), gocron.NewTask(func(ctx context.Context) {
		retentionDays := viper.GetInt("app.snapshot_retention_days")
		if retentionDays <= 0 {
			retentionDays = DEFAULT_SNAPSHOT_RETENTION_DAYS
		}

		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if err := s.repo.Postgres.Snapshot.DeleteOlderThan(ctx, cutoff, RETENTION_KEEP_LATEST); err != nil {
			s.logger.Sugar().Errorf("failed to delete old snapshots: %s", err.Error())
		}
	}))
}

func (s *snapshotService) StartJobs() {
	s.newDeleteOldSnapshotsJob()

	s.scheduler.Start()
}

// publishDiffSummary hands a changed diff to the mailer queue. Skipped when
// the owner's email is unknown (MQ-driven ingests) or nothing changed.
func (s *snapshotService) publishDiffSummary(owner model.Owner, account *model.TrackedAccount, snapshotType string, d *diff.Diff) {
	if owner.Email == "" || (len(d.Added) == 0 && len(d.Removed) == 0) {
		return
	}

	body, err := json.Marshal(dto.MQDiffSummary{
		Email: owner.Email,
		InstagramUsername: account.InstagramUsername,
		SnapshotType: snapshotType,
		Added: len(d.Added),
		Removed: len(d.Removed),
	})
	if err != nil {
		return
	}

	if err := s.rabbitmq.Publish(rabbitmq.DIFF_SUMMARY_MAIL_QUEUE, body); err != nil {
		s.logger.Sugar().Errorf("failed to publish diff summary for account(%s): %s", account.ID.String(), err.Error())
	}
}

func maxFreeExport() int {
	if limit := viper.GetInt("app.max_free_export"); limit > 0 {
		return limit
	}
	return DEFAULT_MAX_FREE_EXPORT
}

func exportSecret() []byte {
	return []byte(os.Getenv("EXPORT_SECRET"))
}

func usernames(rows []model.SnapshotRow) []string {
	result := make([]string, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.Username)
	}
	return result
}
