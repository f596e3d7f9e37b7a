package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ENTRIES_INSERT_BATCH_SIZE = 1000

type snapshotRepo struct {
	db *pgxpool.Pool
}

func newSnapshotRepo(db *pgxpool.Pool) Snapshot {
	return &snapshotRepo{
		db: db,
	}
}

// Create persists a snapshot and all of its rows in a single transaction.
// A transaction-scoped advisory lock on (account, type) serializes concurrent
// ingests for the same key, and created_at is stamped strictly greater than
// any prior snapshot of that key, so the per-key order never ties.
func (r *snapshotRepo) Create(ctx context.Context, accountID uuid.UUID, snapshotType string, rows []model.SnapshotRow) (*model.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))", accountID.String(), snapshotType); err != nil {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM tracked_accounts WHERE id = $1)", accountID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}

	snapshot := model.Snapshot{AccountID: accountID, SnapshotType: snapshotType}
	if err := tx.QueryRow(
		ctx,
		`
		INSERT INTO snapshots(account_id, snapshot_type, created_at)
		VALUES($1, $2, GREATEST(
			NOW(),
			COALESCE((
				SELECT MAX(s.created_at) + INTERVAL '1 microsecond'
				FROM snapshots s
				WHERE s.account_id = $1 AND s.snapshot_type = $2
			), NOW())
		))
		RETURNING id, created_at
		`,
		accountID, snapshotType,
	).Scan(&snapshot.ID, &snapshot.CreatedAt); err != nil {
		return nil, err
	}

	for i := 0; i < len(rows); i += ENTRIES_INSERT_BATCH_SIZE {
		end := i + ENTRIES_INSERT_BATCH_SIZE
		if end > len(rows) {
			end = len(rows)
		}

		if err := insertEntries(ctx, tx, snapshot.ID, rows[i:end]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func insertEntries(ctx context.Context, tx pgx.Tx, snapshotID int64, rows []model.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO snapshot_entries(snapshot_id, username, full_name, avatar_url) VALUES "
	values := []interface{}{}
	counter := 1

	for _, row := range rows {
		query += fmt.Sprintf("($%d, $%d, $%d, $%d),", counter, counter+1, counter+2, counter+3)
		values = append(values, snapshotID, row.Username, row.FullName, row.AvatarURL)
		counter += 4
	}

	query = query[:len(query)-1]
	_, err := tx.Exec(ctx, query, values...)
	return err
}

func (r *snapshotRepo) FindByID(ctx context.Context, id int64) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	if err := r.db.QueryRow(
		ctx,
		"SELECT s.id, s.account_id, s.snapshot_type, s.created_at FROM snapshots s WHERE s.id = $1",
		id,
	).Scan(&snapshot.ID, &snapshot.AccountID, &snapshot.SnapshotType, &snapshot.CreatedAt); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (r *snapshotRepo) Latest(ctx context.Context, accountID uuid.UUID, snapshotType string) (*model.Snapshot, error) {
	var snapshot model.Snapshot
	if err := r.db.QueryRow(
		ctx,
		`
		SELECT s.id, s.account_id, s.snapshot_type, s.created_at
		FROM snapshots s
		WHERE s.account_id = $1 AND s.snapshot_type = $2
		ORDER BY s.created_at DESC
		LIMIT 1
		`,
		accountID, snapshotType,
	).Scan(&snapshot.ID, &snapshot.AccountID, &snapshot.SnapshotType, &snapshot.CreatedAt); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (r *snapshotRepo) PreviousTo(ctx context.Context, snapshot model.Snapshot) (*model.Snapshot, error) {
	var previous model.Snapshot
	if err := r.db.QueryRow(
		ctx,
		`
		SELECT s.id, s.account_id, s.snapshot_type, s.created_at
		FROM snapshots s
		WHERE s.account_id = $1 AND s.snapshot_type = $2 AND s.created_at < $3
		ORDER BY s.created_at DESC
		LIMIT 1
		`,
		snapshot.AccountID, snapshot.SnapshotType, snapshot.CreatedAt,
	).Scan(&previous.ID, &previous.AccountID, &previous.SnapshotType, &previous.CreatedAt); err != nil {
		return nil, err
	}

	return &previous, nil
}

func (r *snapshotRepo) Entries(ctx context.Context, snapshotID int64) ([]model.SnapshotRow, error) {
	rows, err := r.db.Query(
		ctx,
		`
		SELECT e.username, e.full_name, e.avatar_url
		FROM snapshot_entries e
		WHERE e.snapshot_id = $1
		ORDER BY e.id
		`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.SnapshotRow
	for rows.Next() {
		var entry model.SnapshotRow
		if err := rows.Scan(&entry.Username, &entry.FullName, &entry.AvatarURL); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteOlderThan prunes snapshots created before cutoff while always keeping
// the keepLatest most recent per (account, type), so a diff baseline survives
// retention.
func (r *snapshotRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time, keepLatest int) error {
	_, err := r.db.Exec(
		ctx,
		`
		DELETE FROM snapshots
		WHERE created_at < $1
		AND id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY account_id, snapshot_type
					ORDER BY created_at DESC
				) AS rank
				FROM snapshots
			) ranked
			WHERE ranked.rank <= $2
		)
		`,
		cutoff, keepLatest,
	)
	return err
}
