package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/igfollow/snapshot-service/internal/repository"
	"github.com/igfollow/snapshot-service/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]model.TrackedAccount
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]model.TrackedAccount)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account model.TrackedAccount) (*model.TrackedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.ID] = account
	return &account, nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TrackedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		return &account, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TrackedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.TrackedAccount
	for id := range f.accounts {
		if account := f.accounts[id]; account.OwnerID == ownerID {
			result = append(result, &account)
		}
	}
	return result, nil
}

func (f *fakeAccountRepo) FindByOwnerAndUsername(ctx context.Context, ownerID uuid.UUID, username string) (*model.TrackedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.OwnerID == ownerID && account.InstagramUsername == username {
			found := account
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, id)
	return nil
}

func newTestAccountService(repo postgres.Account) Account {
	return newAccountService(zap.NewNop(), &repository.Repository{Postgres: &postgres.PGRepo{Account: repo}})
}

func TestAccountCreateNormalizesUsername(t *testing.T) {
	s := newTestAccountService(newFakeAccountRepo())

	account, err := s.Create(context.Background(), uuid.New(), "  @Some_User ", "")
	require.NoError(t, err)

	assert.Equal(t, "some_user", account.InstagramUsername)
	assert.Nil(t, account.Notes)
}

func TestAccountCreateRejectsBlankUsername(t *testing.T) {
	s := newTestAccountService(newFakeAccountRepo())

	_, err := s.Create(context.Background(), uuid.New(), "  @@ ", "")
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestAccountCreateRejectsDuplicatePerOwner(t *testing.T) {
	s := newTestAccountService(newFakeAccountRepo())
	ownerID := uuid.New()
	ctx := context.Background()

	_, err := s.Create(ctx, ownerID, "alice", "")
	require.NoError(t, err)

	// Same username differing only in case and @-prefix.
	_, err = s.Create(ctx, ownerID, "@Alice", "")
	assert.ErrorIs(t, err, ErrAccountAlreadyTracked)

	// Another owner may track the same username.
	_, err = s.Create(ctx, uuid.New(), "alice", "")
	assert.NoError(t, err)
}

func TestAccountFindByIDChecksOwnership(t *testing.T) {
	s := newTestAccountService(newFakeAccountRepo())
	ownerID := uuid.New()
	ctx := context.Background()

	created, err := s.Create(ctx, ownerID, "alice", "my main account")
	require.NoError(t, err)
	require.NotNil(t, created.Notes)
	assert.Equal(t, "my main account", *created.Notes)

	found, err := s.FindByID(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = s.FindByID(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = s.FindByID(ctx, ownerID, uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountDeleteByID(t *testing.T) {
	repo := newFakeAccountRepo()
	s := newTestAccountService(repo)
	ownerID := uuid.New()
	ctx := context.Background()

	created, err := s.Create(ctx, ownerID, "alice", "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(ctx, ownerID, created.ID))

	_, err = s.FindByID(ctx, ownerID, created.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	err = s.DeleteByID(ctx, ownerID, created.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestValidateSnapshotType(t *testing.T) {
	for _, value := range []string{"followers", " Followers ", "FOLLOWING"} {
		normalized, err := ValidateSnapshotType(value)
		require.NoError(t, err)
		assert.Contains(t, []string{model.SnapshotTypeFollowers, model.SnapshotTypeFollowing}, normalized)
	}

	for _, value := range []string{"", "friends", "follower"} {
		_, err := ValidateSnapshotType(value)
		assert.ErrorIs(t, err, ErrInvalidSnapshotType)
	}
}

func TestValidateExportFormat(t *testing.T) {
	normalized, err := ValidateExportFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, EXPORT_FORMAT_CSV, normalized)

	normalized, err = ValidateExportFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, EXPORT_FORMAT_XLSX, normalized)

	_, err = ValidateExportFormat("pdf")
	assert.ErrorIs(t, err, ErrInvalidExportFormat)
}
