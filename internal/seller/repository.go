package seller

import (
	"context"

	"github.com/merabestie/sellerhub/internal/domain"
	"gorm.io/gorm"
)

// Repository is the seller persistence port. Lookups that find nothing
// return gorm.ErrRecordNotFound.
type Repository interface {
	// Create inserts a new seller
	Create(ctx context.Context, s *domain.Seller) error

	// GetBySellerId retrieves a seller by its public seller ID
	GetBySellerId(ctx context.Context, sellerId string) (*domain.Seller, error)

	// GetByCredentials retrieves the seller whose ID matches and whose email
	// or phone number equals emailOrPhone
	GetByCredentials(ctx context.Context, sellerId, emailOrPhone string) (*domain.Seller, error)

	// SellerIdExists reports whether the seller ID is taken
	SellerIdExists(ctx context.Context, sellerId string) (bool, error)

	// EmailExists reports whether the email is registered
	EmailExists(ctx context.Context, email string) (bool, error)

	// Update writes the given columns of one seller in a single statement
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, s *domain.Seller) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *GormRepository) GetBySellerId(ctx context.Context, sellerId string) (*domain.Seller, error) {
	var s domain.Seller
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerId).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) GetByCredentials(ctx context.Context, sellerId, emailOrPhone string) (*domain.Seller, error) {
	var s domain.Seller
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerId).
		Where(r.db.Where("email = ?", emailOrPhone).Or("phone_number = ?", emailOrPhone)).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) SellerIdExists(ctx context.Context, sellerId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Seller{}).Where("seller_id = ?", sellerId).Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Seller{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Seller{}).Where("id = ?", id).Updates(fields).Error
}
