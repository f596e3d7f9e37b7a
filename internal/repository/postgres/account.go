package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type accountRepo struct {
	db *pgxpool.Pool
}

func newAccountRepo(db *pgxpool.Pool) Account {
	return &accountRepo{
		db: db,
	}
}

func (r *accountRepo) Create(ctx context.Context, account model.TrackedAccount) (*model.TrackedAccount, error) {
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO tracked_accounts(id, owner_id, instagram_username, notes) VALUES($1, $2, $3, $4) RETURNING created_at",
		account.ID, account.OwnerID, account.InstagramUsername, account.Notes,
	).Scan(&account.CreatedAt); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TrackedAccount, error) {
	var account model.TrackedAccount
	if err := r.db.QueryRow(ctx, "SELECT a.id, a.owner_id, a.instagram_username, a.notes, a.created_at FROM tracked_accounts a WHERE a.id = $1", id).Scan(
		&account.ID,
		&account.OwnerID,
		&account.InstagramUsername,
		&account.Notes,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TrackedAccount, error) {
	rows, err := r.db.Query(
		ctx,
		`
		SELECT a.id, a.owner_id, a.instagram_username, a.notes, a.created_at
		FROM tracked_accounts a
		WHERE a.owner_id = $1
		ORDER BY a.created_at DESC
		`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.TrackedAccount
	for rows.Next() {
		var account model.TrackedAccount
		if err := rows.Scan(&account.ID, &account.OwnerID, &account.InstagramUsername, &account.Notes, &account.CreatedAt); err != nil {
			return nil, err
		}

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *accountRepo) FindByOwnerAndUsername(ctx context.Context, ownerID uuid.UUID, username string) (*model.TrackedAccount, error) {
	var account model.TrackedAccount
	if err := r.db.QueryRow(
		ctx,
		"SELECT a.id, a.owner_id, a.instagram_username, a.notes, a.created_at FROM tracked_accounts a WHERE a.owner_id = $1 AND a.instagram_username = $2",
		ownerID, username,
	).Scan(
		&account.ID,
		&account.OwnerID,
		&account.InstagramUsername,
		&account.Notes,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &account, nil
}

// DeleteByID removes the account; snapshots and their entries go with it
// through ON DELETE CASCADE.
func (r *accountRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM tracked_accounts WHERE id = $1", id)
	return err
}
