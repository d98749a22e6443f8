package seller

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/errx"
	"github.com/merabestie/sellerhub/internal/mailer"
	"github.com/merabestie/sellerhub/internal/sms"
	"github.com/merabestie/sellerhub/pkg/common"
)

const (
	defaultIdPrefix    = "MBSLR"
	defaultMaxAttempts = 1000
)

var (
	errMissingFields = errx.Validation("MISSING_FIELDS", "Missing required fields")
	errNotFound      = errx.NotFound("SELLER_NOT_FOUND", "Seller not found")
	errNoOTP         = errx.Validation("NO_OTP", "No OTP found").WithDetails("Please request a new OTP")
	errInvalidOTP    = errx.Validation("INVALID_OTP", "Invalid OTP")
)

// Channel names a contact channel confirmed by OTP.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

type Options struct {
	// IdPrefix is prepended to the five random digits of a seller ID.
	IdPrefix string
	// MaxIdAttempts bounds the rejection sampling of seller IDs.
	MaxIdAttempts int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// Brand signs outgoing mail.
	Brand string
}

// Service implements seller signup, login, OTP verification and logout.
type Service struct {
	repo   Repository
	mail   mailer.Sender
	sms    sms.Sender
	tpl    mailer.Templates
	opts   Options
	nextId func() (int, error)
}

// NewService creates the identity service. smsSender may be nil.
func NewService(repo Repository, mail mailer.Sender, smsSender sms.Sender, opts Options) *Service {
	if opts.IdPrefix == "" {
		opts.IdPrefix = defaultIdPrefix
	}
	if opts.MaxIdAttempts <= 0 {
		opts.MaxIdAttempts = defaultMaxAttempts
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:   repo,
		mail:   mail,
		sms:    smsSender,
		tpl:    mailer.Templates{Brand: opts.Brand},
		opts:   opts,
		nextId: randomFiveDigits,
	}
}

func randomFiveDigits() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return 0, err
	}
	return 10000 + int(n.Int64()), nil
}

// GenerateOTP returns a six digit numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}

func (s *Service) lookup(ctx context.Context, sellerId string) (*domain.Seller, error) {
	sel, err := s.repo.GetBySellerId(ctx, sellerId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Failed to query seller", err)
	}
	return sel, nil
}

// newSellerId draws prefix+5 digits until no existing seller holds the value.
func (s *Service) newSellerId(ctx context.Context) (string, error) {
	for i := 0; i < s.opts.MaxIdAttempts; i++ {
		n, err := s.nextId()
		if err != nil {
			return "", errors.Wrap(err, "random seller id")
		}
		candidate := fmt.Sprintf("%s%05d", s.opts.IdPrefix, n)
		taken, err := s.repo.SellerIdExists(ctx, candidate)
		if err != nil {
			return "", errors.Wrap(err, "check seller id")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.Errorf("no free seller id after %d attempts", s.opts.MaxIdAttempts)
}

type SignupRequest struct {
	PhoneNumber string
	Email       string
	Password    string
}

// Signup registers a seller with both channels unverified.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.Seller, error) {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Email = strings.TrimSpace(req.Email)
	if req.PhoneNumber == "" || req.Email == "" || req.Password == "" {
		return nil, errMissingFields.WithDetails("Phone number, email and password are required")
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error registering seller", err)
	}
	if exists {
		return nil, errx.Conflict("SELLER_EXISTS", "Seller already exists")
	}

	sellerId, err := s.newSellerId(ctx)
	if err != nil {
		return nil, errx.Internal("SELLER_ID_FAILED", "Error registering seller", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, errx.Internal("HASH_FAILED", "Error registering seller", err)
	}

	sel := &domain.Seller{
		ID:              common.UUIDint64(),
		SellerId:        sellerId,
		Name:            domain.NotAvailable,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        string(hash),
		BusinessName:    domain.NotAvailable,
		BusinessAddress: domain.NotAvailable,
		BusinessType:    domain.NotAvailable,
		LoggedIn:        domain.LoggedOut,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.repo.Create(ctx, sel); err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error registering seller", err)
	}

	zap.L().Info("seller registered", zap.String("namespace", "seller"), zap.String("seller_id", sellerId))
	return sel, nil
}

// Login checks the credentials and marks the seller logged in. A seller must
// have confirmed at least one channel before the password is even checked.
func (s *Service) Login(ctx context.Context, sellerId, emailOrPhone, password string) (*domain.Seller, error) {
	sellerId = strings.TrimSpace(sellerId)
	emailOrPhone = strings.TrimSpace(emailOrPhone)
	if sellerId == "" || emailOrPhone == "" || password == "" {
		return nil, errMissingFields.WithDetails("Seller ID, email/phone, and password are required")
	}

	sel, err := s.repo.GetByCredentials(ctx, sellerId, emailOrPhone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errx.InvalidCredentials("No seller found with provided ID and email/phone")
	}
	if err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error logging in", err)
	}

	if !sel.Verified() {
		return nil, errx.Unverified("Please verify your email or phone number before logging in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(sel.Password), []byte(password)); err != nil {
		return nil, errx.InvalidCredentials("Incorrect password provided")
	}

	if err := s.repo.Update(ctx, sel.ID, map[string]interface{}{"logged_in": domain.LoggedIn}); err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error logging in", err)
	}
	sel.LoggedIn = domain.LoggedIn
	return sel, nil
}

// SendOTP stores a fresh code on the seller and mails it. A mail failure
// fails the call; the SMS copy is best effort.
func (s *Service) SendOTP(ctx context.Context, sellerId string) error {
	sellerId = strings.TrimSpace(sellerId)
	if sellerId == "" {
		return errMissingFields.WithDetails("Seller ID is required")
	}
	sel, err := s.lookup(ctx, sellerId)
	if err != nil {
		return err
	}

	otp, err := GenerateOTP()
	if err != nil {
		return errx.Internal("OTP_FAILED", "Error sending OTP", err)
	}
	if err := s.repo.Update(ctx, sel.ID, map[string]interface{}{"otp": otp}); err != nil {
		return errx.Internal("DATABASE_ERROR", "Error sending OTP", err)
	}

	if err := s.mail.Send(ctx, s.tpl.OTP(sel.Email, otp)); err != nil {
		zap.L().Error("otp mail failed", zap.String("namespace", "seller"),
			zap.String("seller_id", sellerId), zap.Error(err))
		return errx.Transport("EMAIL_FAILED", "Error sending OTP",
			errors.Wrap(err, "Email sending failed"))
	}

	if s.sms != nil && sel.PhoneNumber != "" {
		body := fmt.Sprintf("Your OTP for account verification is: %s", otp)
		if err := s.sms.Send(ctx, sel.PhoneNumber, body); err != nil {
			zap.L().Warn("otp sms failed", zap.String("namespace", "seller"),
				zap.String("seller_id", sellerId), zap.Error(err))
		}
	}
	return nil
}

// Verify confirms one channel with the pending OTP. Both channels accept the
// same code; the code is cleared once both are confirmed.
func (s *Service) Verify(ctx context.Context, sellerId, otp string, ch Channel) (*domain.Seller, error) {
	sellerId = strings.TrimSpace(sellerId)
	if sellerId == "" || strings.TrimSpace(otp) == "" {
		return nil, errMissingFields.WithDetails("Seller ID and OTP are required")
	}
	sel, err := s.lookup(ctx, sellerId)
	if err != nil {
		return nil, err
	}
	if sel.Otp == "" {
		return nil, errNoOTP
	}
	if sel.Otp != otp {
		return nil, errInvalidOTP
	}

	fields := map[string]interface{}{}
	switch ch {
	case ChannelEmail:
		sel.EmailVerified = true
		fields["email_verified"] = true
	case ChannelPhone:
		sel.PhoneVerified = true
		fields["phone_verified"] = true
	default:
		return nil, errx.Validation("INVALID_CHANNEL", "Unknown verification channel")
	}
	if sel.EmailVerified && sel.PhoneVerified {
		sel.Otp = ""
		fields["otp"] = ""
	}

	if err := s.repo.Update(ctx, sel.ID, fields); err != nil {
		return nil, errx.Internal("DATABASE_ERROR", fmt.Sprintf("Error verifying %s", ch), err)
	}
	return sel, nil
}

func (s *Service) VerifyEmail(ctx context.Context, sellerId, otp string) (*domain.Seller, error) {
	return s.Verify(ctx, sellerId, otp, ChannelEmail)
}

func (s *Service) VerifyPhone(ctx context.Context, sellerId, otp string) (*domain.Seller, error) {
	return s.Verify(ctx, sellerId, otp, ChannelPhone)
}

// Status returns the seller for a read-only verification/login check.
func (s *Service) Status(ctx context.Context, sellerId string) (*domain.Seller, error) {
	sellerId = strings.TrimSpace(sellerId)
	if sellerId == "" {
		return nil, errMissingFields.WithDetails("Seller ID is required")
	}
	sel, err := s.lookup(ctx, sellerId)
	if errx.IsKind(err, errx.KindNotFound) {
		return nil, errx.NotFound("INVALID_SELLER_ID", "Invalid seller ID")
	}
	return sel, err
}

// Logout marks the seller logged out. Session teardown is the caller's job.
func (s *Service) Logout(ctx context.Context, sellerId string) (*domain.Seller, error) {
	sellerId = strings.TrimSpace(sellerId)
	if sellerId == "" {
		return nil, errMissingFields.WithDetails("Seller ID is required")
	}
	sel, err := s.lookup(ctx, sellerId)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sel.ID, map[string]interface{}{"logged_in": domain.LoggedOut}); err != nil {
		return nil, errx.Internal("DATABASE_ERROR", "Error logging out", err)
	}
	sel.LoggedIn = domain.LoggedOut
	return sel, nil
}

// IsLoggedIn reports whether sellerId names a seller currently logged in.
func (s *Service) IsLoggedIn(ctx context.Context, sellerId string) (bool, error) {
	sel, err := s.repo.GetBySellerId(ctx, sellerId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sel.LoggedIn == domain.LoggedIn, nil
}
