package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop-microservices/internal/domain"
	"shop-microservices/internal/dto"
	"shop-microservices/pkg/utils"
)

func init() { utils.PasswordCost = bcrypt.MinCost }

func newAccountSvc() (*AccountService, *accountRepoMock, *issuerMock) {
	repo := &accountRepoMock{}
	iss := &issuerMock{}
	return NewAccountService(repo, iss, time.Hour, zap.NewNop()), repo, iss
}

func TestRegister_HashesAndAssignsRole(t *testing.T) {
	svc, repo, _ := newAccountSvc()
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "ana@shop.com").Return(false, nil)
	repo.On("CreateWithRole", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Email == "ana@shop.com" && a.Password != "secret1" && utils.CheckPassword("secret1", a.Password)
	}), domain.RoleAdmin).Return(nil)

	out, err := svc.Register(ctx, dto.RegisterRequest{Email: " ana@shop.com ", Password: "secret1", Address: "Rua A", Admin: true})
	require.NoError(t, err)
	assert.Equal(t, "user registered successfully", out.Message)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newAccountSvc()
	ctx := context.Background()
	repo.On("ExistsByEmail", ctx, "ana@shop.com").Return(true, nil)

	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "ana@shop.com", Password: "secret1", Address: "Rua A"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	repo.AssertNotCalled(t, "CreateWithRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_RaceOnUniqueIndex(t *testing.T) {
	svc, repo, _ := newAccountSvc()
	ctx := context.Background()
	repo.On("ExistsByEmail", ctx, "ana@shop.com").Return(false, nil)
	repo.On("CreateWithRole", ctx, mock.Anything, domain.RoleUser).Return(domain.ErrEmailTaken)

	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "ana@shop.com", Password: "secret1", Address: "Rua A"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := utils.HashPassword(pw)
	require.NoError(t, err)
	return h
}

func TestLogin_Success(t *testing.T) {
	svc, repo, iss := newAccountSvc()
	ctx := context.Background()
	acc := &domain.Account{ID: 4, Email: "ana@shop.com", Password: hashed(t, "secret1")}
	repo.On("FindByEmail", ctx, "ana@shop.com").Return(acc, nil)
	repo.On("FindRole", ctx, int64(4)).Return(&domain.UserRole{AccountID: 4, Role: domain.RoleUser}, nil)
	iss.On("Issue", int64(4), "ana@shop.com", "ROLE_USER").Return("tok", nil)

	out, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@shop.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, dto.TokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600}, out)
}

func TestLogin_WrongPasswordAndUnknownEmail(t *testing.T) {
	svc, repo, iss := newAccountSvc()
	ctx := context.Background()
	acc := &domain.Account{ID: 4, Email: "ana@shop.com", Password: hashed(t, "secret1")}
	repo.On("FindByEmail", ctx, "ana@shop.com").Return(acc, nil)
	repo.On("FindByEmail", ctx, "bob@shop.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@shop.com", Password: "nope12"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "bob@shop.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	iss.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_MissingRole(t *testing.T) {
	svc, repo, _ := newAccountSvc()
	ctx := context.Background()
	acc := &domain.Account{ID: 4, Email: "ana@shop.com", Password: hashed(t, "secret1")}
	repo.On("FindByEmail", ctx, "ana@shop.com").Return(acc, nil)
	repo.On("FindRole", ctx, int64(4)).Return(nil, domain.ErrNotFound)

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@shop.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrMissingRole)
}

func TestLogin_RepoError(t *testing.T) {
	svc, repo, _ := newAccountSvc()
	ctx := context.Background()
	boom := errors.New("db down")
	repo.On("FindByEmail", ctx, "ana@shop.com").Return(nil, boom)

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@shop.com", Password: "secret1"})
	require.ErrorIs(t, err, boom)
}

func TestProfile(t *testing.T) {
	svc, repo, _ := newAccountSvc()
	ctx := context.Background()
	repo.On("FindByID", ctx, int64(4)).Return(&domain.Account{ID: 4, Email: "ana@shop.com", Address: "Rua A"}, nil)
	repo.On("FindRole", ctx, int64(4)).Return(&domain.UserRole{Role: domain.RoleAdmin}, nil)

	p, err := svc.Profile(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, dto.AccountProfile{ID: 4, Email: "ana@shop.com", Address: "Rua A", Role: "ROLE_ADMIN"}, p)
}
