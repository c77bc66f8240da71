package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"shop-microservices/internal/domain"
	"shop-microservices/internal/dto"
	"shop-microservices/pkg/utils"
)

const msgRegistered = "user registered successfully"

// TokenIssuer *auth.JWTer 满足
type TokenIssuer interface {
	Issue(accountID int64, email, role string) (string, error)
}

type AccountService struct {
	repo   domain.AccountRepository
	tokens TokenIssuer
	ttl    time.Duration
	log    *zap.Logger
}

func NewAccountService(repo domain.AccountRepository, tokens TokenIssuer, ttl time.Duration, l *zap.Logger) *AccountService {
	return &AccountService{repo: repo, tokens: tokens, ttl: ttl, log: l}
}

func (s *AccountService) Register(ctx context.Context, in dto.RegisterRequest) (dto.RegisterResponse, error) {
	in.Email = strings.TrimSpace(in.Email)

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return dto.RegisterResponse{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return dto.RegisterResponse{}, domain.ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return dto.RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}
	a := dto.ToAccount(in, hash)
	role := dto.RoleFor(in)
	// 并发注册时唯一索引兜底，仓储层同样返回 ErrEmailTaken
	if err := s.repo.CreateWithRole(ctx, a, role); err != nil {
		return dto.RegisterResponse{}, err
	}
	s.log.Info("account registered", zap.Int64("id", a.ID), zap.String("role", string(role)))
	return dto.RegisterResponse{Message: msgRegistered}, nil
}

// Login 未知邮箱和错误密码返回同一个错误
func (s *AccountService) Login(ctx context.Context, in dto.LoginRequest) (dto.TokenResponse, error) {
	a, err := s.repo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	case err != nil:
		return dto.TokenResponse{}, err
	}
	if !utils.CheckPassword(in.Password, a.Password) {
		return dto.TokenResponse{}, domain.ErrInvalidCredentials
	}

	role, err := s.role(ctx, a.ID)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	tok, err := s.tokens.Issue(a.ID, a.Email, string(role))
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return dto.TokenResponse{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.ttl / time.Second),
	}, nil
}

func (s *AccountService) Profile(ctx context.Context, accountID int64) (dto.AccountProfile, error) {
	a, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return dto.AccountProfile{}, err
	}
	role, err := s.role(ctx, a.ID)
	if err != nil {
		return dto.AccountProfile{}, err
	}
	return dto.ToProfile(a, role), nil
}

func (s *AccountService) role(ctx context.Context, accountID int64) (domain.Role, error) {
	ur, err := s.repo.FindRole(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Error("account without role", zap.Int64("account_id", accountID))
		return "", fmt.Errorf("account %d: %w", accountID, domain.ErrMissingRole)
	}
	if err != nil {
		return "", err
	}
	return ur.Role, nil
}
