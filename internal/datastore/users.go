package datastore

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/weathercloset/weathercloset/internal/errors"
)

// UserRepository persists accounts.
type UserRepository interface {
	// Create inserts a user. A taken email is a Conflict.
	Create(ctx context.Context, email, hashedPassword string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context) ([]User, error)
	// Delete removes a user. Users who still own items are a Conflict.
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, email, hashedPassword string) (*User, error) {
	user := &User{Email: email, HashedPassword: hashedPassword}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, conflictError(fmt.Errorf("email %s already registered: %w", email, err), "create_user", "duplicate_email")
		}
		return nil, dbError(err, "create_user")
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFoundError("user not found", "user", email)
		}
		return nil, dbError(err, "get_user_by_email")
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFoundError("user not found", "user", strconv.FormatUint(uint64(id), 10))
		}
		return nil, dbError(err, "get_user")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, dbError(err, "list_users")
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&Item{}).Where("owner_id = ?", id).Count(&owned).Error; err != nil {
			return dbError(err, "count_user_items")
		}
		if owned > 0 {
			return conflictError(fmt.Errorf("user %d still owns %d items", id, owned), "delete_user", "owned_items")
		}

		result := tx.Delete(&User{}, id)
		if result.Error != nil {
			if isForeignKeyViolation(result.Error) {
				return conflictError(result.Error, "delete_user", "owned_items")
			}
			return dbError(result.Error, "delete_user")
		}
		if result.RowsAffected == 0 {
			return notFoundError("user not found", "user", strconv.FormatUint(uint64(id), 10))
		}
		return nil
	})
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
