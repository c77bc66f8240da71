package dto

import "shop-microservices/internal/domain"

type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=50"`
	Address  string `json:"address"  binding:"required,notblank,max=300"`
	Admin    bool   `json:"admin"`
}

type RegisterResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AccountProfile struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

// ToAccount 密码必须已是哈希
func ToAccount(r RegisterRequest, passwordHash string) *domain.Account {
	return &domain.Account{
		Email:    r.Email,
		Password: passwordHash,
		Address:  r.Address,
	}
}

func RoleFor(r RegisterRequest) domain.Role {
	if r.Admin {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func ToProfile(a *domain.Account, role domain.Role) AccountProfile {
	return AccountProfile{ID: a.ID, Email: a.Email, Address: a.Address, Role: string(role)}
}
