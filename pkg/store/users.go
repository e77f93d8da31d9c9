package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/riverai/models"
)

type UserRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserRepository(db *gorm.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create returns ErrDuplicate when the email is taken.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		err = translate(err)
		if err != ErrDuplicate && strings.Contains(err.Error(), "duplicate key") {
			err = ErrDuplicate
		}
		return fmt.Errorf("create user %q: %w", u.Email, err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// List returns users ordered by email. An empty role matches every role.
func (r *UserRepository) List(ctx context.Context, role string) ([]models.User, error) {
	q := r.db.WithContext(ctx).Order("email")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetVerification flips the verification flag and returns the updated user.
func (r *UserRepository) SetVerification(ctx context.Context, id uuid.UUID, verified bool) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("verification", verified)
	if res.Error != nil {
		return nil, fmt.Errorf("set verification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	r.logger.Info("User verification changed",
		zap.String("user_id", id.String()),
		zap.Bool("verification", verified),
	)
	return r.Get(ctx, id)
}
