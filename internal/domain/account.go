package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

type Account struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"size:100;not null;uniqueIndex"`
	Password  string    `gorm:"size:255;not null"` // bcrypt hash
	Address   string    `gorm:"size:300;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Account) TableName() string { return "accounts" }

// UserRole 每个账户一行；account_id 不建外键
type UserRole struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	AccountID int64 `gorm:"not null;index"`
	Role      Role  `gorm:"size:20;not null"`
}

func (UserRole) TableName() string { return "user_roles" }

type AccountRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	// CreateWithRole 在同一事务中写入账户和角色；邮箱冲突返回 ErrEmailTaken
	CreateWithRole(ctx context.Context, a *Account, role Role) error
	FindRole(ctx context.Context, accountID int64) (*UserRole, error)
}
