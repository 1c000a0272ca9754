package repository

import (
	"context"
	"errors"
	"fmt"

	"alujo/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateCountry(ctx context.Context, userID string, country *string) error
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a GORM-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// CreateUser adds a new user to the database.
func (r *gormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user with their artist profile, if any. Returns
// (nil, nil) when the user does not exist.
func (r *gormUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.WithContext(ctx).Preload("Artist").First(user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (r *gormUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.WithContext(ctx).Preload("Artist").First(user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *gormUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
	if err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", userID, err)
	}
	return nil
}

// UpdateCountry sets or clears the user's country.
func (r *gormUserRepository) UpdateCountry(ctx context.Context, userID string, country *string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("country", country).Error
	if err != nil {
		return fmt.Errorf("failed to update country for user %s: %w", userID, err)
	}
	return nil
}

// isDuplicateErr reports whether the driver rejected an insert on a unique
// index. MySQL error 1062.
func isDuplicateErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
