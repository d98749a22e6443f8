// Package coupon manages discount codes and announces them to customers.
package coupon

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/errx"
	"github.com/merabestie/sellerhub/internal/mailer"
	"github.com/merabestie/sellerhub/pkg/common"
)

var errNotFound = errx.NotFound("COUPON_NOT_FOUND", "Coupon not found")

var errMissingFields = errx.Validation("MISSING_FIELDS", "Missing required fields").
	WithDetails("Coupon code and discount percentage are required")

var errInvalidDiscount = errx.Validation("INVALID_DISCOUNT", "Invalid discount percentage").
	WithDetails("Discount percentage must be greater than 0 and at most 100")

// Service stores coupons and broadcasts creation and expiry notices.
type Service struct {
	repo      Repository
	broadcast *mailer.Broadcaster
	tpl       mailer.Templates
}

func NewService(repo Repository, b *mailer.Broadcaster, brand string) *Service {
	return &Service{repo: repo, broadcast: b, tpl: mailer.Templates{Brand: brand}}
}

// Result is a stored coupon together with the outcome of its broadcast.
type Result struct {
	Coupon *domain.Coupon
	Report mailer.Report
}

func validate(code string, discount float64) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || discount == 0 {
		return "", errMissingFields
	}
	if math.IsNaN(discount) || math.IsInf(discount, 0) || discount < 0 || discount > 100 {
		return "", errInvalidDiscount
	}
	return code, nil
}

// Save persists the coupon and then mails it to every customer. A failed
// recipient is reported, never fatal; the coupon stays stored even when the
// recipient list cannot be loaded.
func (s *Service) Save(ctx context.Context, code string, discount float64) (*Result, error) {
	code, err := validate(code, discount)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.CodeExists(ctx, code)
	if err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error saving coupon", err)
	}
	if exists {
		return nil, errx.Conflict("COUPON_EXISTS", "Coupon code already exists")
	}

	c := &domain.Coupon{
		ID:                 common.UUIDint64(),
		Code:               code,
		DiscountPercentage: discount,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error saving coupon", err)
	}

	emails, err := s.repo.CustomerEmails(ctx)
	if err != nil {
		return nil, errx.Internal("BROADCAST_FAILED", "Coupon saved but notification failed",
			errors.Wrap(err, "load customers"))
	}

	report := s.broadcast.Broadcast(ctx, emails, func(to string) mailer.Message {
		return s.tpl.Coupon(to, c.Code, c.DiscountPercentage)
	})
	zap.L().Info("coupon broadcast",
		zap.String("namespace", "coupon"),
		zap.String("code", c.Code),
		zap.Int("total", report.TotalUsers),
		zap.Int("failed", report.FailedEmails))
	return &Result{Coupon: c, Report: report}, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error fetching coupons", err)
	}
	return list, nil
}

// Verify returns the coupon for code.
func (s *Service) Verify(ctx context.Context, code string) (*domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errx.Validation("MISSING_FIELDS", "Missing required fields").
			WithDetails("Coupon code is required")
	}
	c, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotFound.WithDetails("Invalid coupon code")
	}
	if err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error verifying coupon", err)
	}
	return c, nil
}

// Delete removes the coupon matching both code and discount, then tells
// every customer it has expired.
func (s *Service) Delete(ctx context.Context, code string, discount float64) (*Result, error) {
	code, err := validate(code, discount)
	if err != nil {
		return nil, err
	}

	removed, err := s.repo.DeleteExact(ctx, code, discount)
	if err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error deleting coupon", err)
	}
	if !removed {
		return nil, errNotFound.WithDetails("No coupon matches the given code and discount")
	}

	emails, err := s.repo.CustomerEmails(ctx)
	if err != nil {
		return nil, errx.Internal("BROADCAST_FAILED", "Coupon deleted but notification failed",
			errors.Wrap(err, "load customers"))
	}

	report := s.broadcast.Broadcast(ctx, emails, func(to string) mailer.Message {
		return s.tpl.CouponExpired(to, code, discount)
	})
	zap.L().Info("coupon expiry broadcast",
		zap.String("namespace", "coupon"),
		zap.String("code", code),
		zap.Int("total", report.TotalUsers),
		zap.Int("failed", report.FailedEmails))
	return &Result{Coupon: &domain.Coupon{Code: code, DiscountPercentage: discount}, Report: report}, nil
}
