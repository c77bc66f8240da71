package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shop-microservices/internal/domain"
)

type AccountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

var _ domain.AccountRepository = (*AccountRepo)(nil)

func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Account{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.WithContext(ctx).First(&a, "email = ?", email).Error
	if notFound(err) {
		return nil, fmt.Errorf("account %q: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	var a domain.Account
	err := r.db.WithContext(ctx).First(&a, id).Error
	if notFound(err) {
		return nil, domain.NotFound("Account", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) CreateWithRole(ctx context.Context, a *domain.Account, role domain.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			if isDupKey(err) {
				return domain.ErrEmailTaken
			}
			return err
		}
		return tx.Create(&domain.UserRole{AccountID: a.ID, Role: role}).Error
	})
}

func (r *AccountRepo) FindRole(ctx context.Context, accountID int64) (*domain.UserRole, error) {
	var ur domain.UserRole
	err := r.db.WithContext(ctx).First(&ur, "account_id = ?", accountID).Error
	if notFound(err) {
		return nil, fmt.Errorf("role of account %d: %w", accountID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ur, nil
}
