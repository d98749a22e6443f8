package coupon

import (
	"context"

	"github.com/merabestie/sellerhub/internal/domain"
	"gorm.io/gorm"
)

// Repository is the coupon persistence port
type Repository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]domain.Coupon, error)

	// DeleteExact removes the coupon only when both code and discount match.
	// It reports whether a row was removed.
	DeleteExact(ctx context.Context, code string, discount float64) (bool, error)

	// CustomerEmails returns every customer address in registration order
	CustomerEmails(ctx context.Context) ([]string, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, c *domain.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Coupon{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	var list []domain.Coupon
	err := r.db.WithContext(ctx).Order("created_at asc").Find(&list).Error
	return list, err
}

func (r *GormRepository) DeleteExact(ctx context.Context, code string, discount float64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("code = ? AND discount_percentage = ?", code, discount).
		Delete(&domain.Coupon{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepository) CustomerEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Order("created_at asc, id asc").
		Pluck("email", &emails).Error
	return emails, err
}
