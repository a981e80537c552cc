package auth

import (
	"context"
	"testing"

	autherrors "go-welfare/internal/auth/errors"
	"go-welfare/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, user *User) error
	getByEmailFn func(ctx context.Context, email string) (*User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
}

func (f *fakeRepo) Create(ctx context.Context, user *User) error { return f.createFn(ctx, user) }
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeRBAC struct {
	loaded []string
}

func (f *fakeRBAC) LoadCompanyPolicy(companyID string) error {
	f.loaded = append(f.loaded, companyID)
	return nil
}
func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) { return true, nil }

func activeUser(t *testing.T, password string) *User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	eid := uuid.New()
	return &User{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: &eid,
		Name:       "Somchai",
		Email:      "somchai@example.com",
		Password:   string(hashed),
		Role:       "EMPLOYEE",
		IsActive:   true,
	}
}

func TestService_Login(t *testing.T) {
	user := activeUser(t, "s3cret")
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			assert.Equal(t, user.Email, email)
			return user, nil
		},
	}
	rbacSvc := &fakeRBAC{}

	svc := NewService(repo, rbacSvc, nil, []byte("test-secret"))
	resp, err := svc.Login(context.Background(), user.Email, "s3cret")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.Email, resp.User.Email)
	assert.Equal(t, []string{user.CompanyID.String()}, rbacSvc.loaded)
}

func TestService_Login_WrongPassword(t *testing.T) {
	user := activeUser(t, "s3cret")
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return user, nil },
	}

	svc := NewService(repo, &fakeRBAC{}, nil, []byte("test-secret"))
	_, err := svc.Login(context.Background(), user.Email, "wrong")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_InactiveUser(t *testing.T) {
	user := activeUser(t, "s3cret")
	user.IsActive = false
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return user, nil },
	}

	svc := NewService(repo, &fakeRBAC{}, nil, []byte("test-secret"))
	_, err := svc.Login(context.Background(), user.Email, "s3cret")
	assert.ErrorIs(t, err, autherrors.ErrUserInactive)
}

func TestService_RefreshToken_RoundTrip(t *testing.T) {
	user := activeUser(t, "s3cret")
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return user, nil },
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		},
	}

	svc := NewService(repo, &fakeRBAC{}, nil, []byte("test-secret"))
	login, err := svc.Login(context.Background(), user.Email, "s3cret")
	assert.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, user.ID.String(), refreshed.User.ID)
}

func TestService_RefreshToken_Garbage(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeRBAC{}, nil, []byte("test-secret"))
	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestService_GetMe_BadID(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeRBAC{}, nil, []byte("test-secret"))
	_, err := svc.GetMe(context.Background(), "nope")
	assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
}
