package user

import (
	"context"
	"database/sql"
	"testing"

	usererrors "ecovale-hr/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn      func(ctx context.Context, u *User) error
	findAllFn     func(ctx context.Context) ([]User, error)
	findByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
	findByEmailFn func(ctx context.Context, email string) (*User, error)
	updateFn      func(ctx context.Context, u *User) error
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Update(ctx context.Context, u *User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestUserService_Create(t *testing.T) {
	var created *User
	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error {
			created = u
			return nil
		},
	}
	svc := NewService(repo)

	resp, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Meera Pillai",
		Email:    "meera@ecovale.in",
		Password: "s3cret-pass",
		Role:     "HR",
	})
	require.NoError(t, err)

	assert.Equal(t, "Meera Pillai", resp.Name)
	assert.Equal(t, "HR", resp.Role)
	assert.True(t, resp.IsActive)
	assert.Nil(t, resp.EmployeeID)

	require.NotNil(t, created)
	assert.NotEqual(t, "s3cret-pass", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
}

func TestUserService_Create_LinksEmployee(t *testing.T) {
	employeeID := uuid.New().String()
	svc := NewService(&fakeRepo{})

	resp, err := svc.Create(context.Background(), CreateUserRequest{
		Name:       "Ravi Iyer",
		Email:      "ravi@ecovale.in",
		Password:   "s3cret-pass",
		Role:       "STAFF",
		EmployeeID: &employeeID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.EmployeeID)
	assert.Equal(t, employeeID, *resp.EmployeeID)
}

func TestUserService_Create_BadEmployeeID(t *testing.T) {
	bad := "not-a-uuid"
	svc := NewService(&fakeRepo{})

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:       "Ravi Iyer",
		Email:      "ravi@ecovale.in",
		Password:   "s3cret-pass",
		Role:       "STAFF",
		EmployeeID: &bad,
	})
	assert.ErrorIs(t, err, usererrors.ErrInvalidEmployeeID)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Meera Pillai",
		Email:    "meera@ecovale.in",
		Password: "s3cret-pass",
		Role:     "HR",
	})
	assert.ErrorIs(t, err, usererrors.ErrEmailTaken)
}

func TestUserService_Update(t *testing.T) {
	id := uuid.New()
	existing := &User{
		ID:       id,
		Name:     "Meera Pillai",
		Email:    "meera@ecovale.in",
		Password: "old-hash",
		Role:     "STAFF",
		IsActive: true,
	}
	var saved *User
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, got uuid.UUID) (*User, error) {
			assert.Equal(t, id, got)
			return existing, nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			saved = u
			return nil
		},
	}
	svc := NewService(repo)

	inactive := false
	resp, err := svc.Update(context.Background(), id.String(), UpdateUserRequest{
		Role:     "HR",
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "HR", resp.Role)
	assert.False(t, resp.IsActive)
	// untouched fields survive a partial update
	assert.Equal(t, "Meera Pillai", resp.Name)
	require.NotNil(t, saved)
	assert.Equal(t, "old-hash", saved.Password)
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, got uuid.UUID) (*User, error) {
			return &User{ID: id, Name: "Meera Pillai", Password: "old-hash", Role: "HR", IsActive: true}, nil
		},
	}
	svc := NewService(repo)

	newPassword := "fresh-pass-99"
	_, err := svc.Update(context.Background(), id.String(), UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, usererrors.ErrUserNotFound)

	_, err = svc.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
}

func TestUserService_Delete_InvalidID(t *testing.T) {
	deleted := false
	repo := &fakeRepo{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(context.Background(), uuid.New().String()))
	assert.True(t, deleted)
}
