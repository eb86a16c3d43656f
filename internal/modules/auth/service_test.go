package auth

import (
	"context"
	"testing"

	"eventhall/internal/domain"
	"eventhall/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, name, phone string) (*domain.User, error) {
	args := m.Called(ctx, id, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Mock JWT service
type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func newTestService() (*Service, *mockUserRepo, *mockJWTService) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	svc := NewService(users, jwtSvc)
	svc.cost = bcrypt.MinCost
	return svc, users, jwtSvc
}

func TestService_Register_Success(t *testing.T) {
	svc, users, jwtSvc := newTestService()

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "test@example.com" && u.Role == domain.RoleCustomer &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)
	jwtSvc.On("GenerateToken", int64(1), "customer").Return("fake-jwt-token", nil)

	user, token, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test",
		Email:    " Test@Example.com ",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "fake-jwt-token", token)
	assert.Empty(t, user.PasswordHash)
	users.AssertExpectations(t)
}

func TestService_Register_Owner(t *testing.T) {
	svc, users, jwtSvc := newTestService()

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == domain.RoleOwner
	})).Return(nil)
	jwtSvc.On("GenerateToken", int64(1), "owner").Return("owner-token", nil)

	user, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Owner", Email: "owner@example.com", Password: "secret1", Role: "Owner",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, user.Role)
}

func TestService_Register_RejectsAdminRole(t *testing.T) {
	svc, users, _ := newTestService()

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: "admin",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_EmailExists(t *testing.T) {
	svc, users, _ := newTestService()

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Test", Email: "test@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Login(t *testing.T) {
	svc, users, jwtSvc := newTestService()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "test@example.com").Return(&domain.User{
		ID: 4, Email: "test@example.com", PasswordHash: string(hash), Role: domain.RoleOwner,
	}, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)
	jwtSvc.On("GenerateToken", int64(4), "owner").Return("token", nil)

	t.Run("valid password", func(t *testing.T) {
		user, token, err := svc.Login(context.Background(), LoginRequest{Email: "test@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "token", token)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), LoginRequest{Email: "test@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	svc, users, _ := newTestService()

	users.On("UpdateProfile", mock.Anything, int64(4), "New Name", "").
		Return(&domain.User{ID: 4, Name: "New Name", PasswordHash: "x"}, nil)
	users.On("UpdateProfile", mock.Anything, int64(5), "Ghost", "").
		Return(nil, repository.ErrNotFound)

	user, err := svc.UpdateProfile(context.Background(), 4, UpdateProfileRequest{Name: " New Name "})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.UpdateProfile(context.Background(), 5, UpdateProfileRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
