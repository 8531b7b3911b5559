package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/HazimBhatt/sharefolio/internal/dbx"
	"github.com/HazimBhatt/sharefolio/internal/logging"
	"github.com/HazimBhatt/sharefolio/internal/metrics"
	"github.com/HazimBhatt/sharefolio/internal/server/mail"
	"github.com/HazimBhatt/sharefolio/internal/server/models"
	"github.com/HazimBhatt/sharefolio/internal/server/repositories/repomanager"
	"github.com/HazimBhatt/sharefolio/internal/validation"
)

// SignUpInput is the registration form.
type SignUpInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ResetPasswordInput completes a password reset.
type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.Profile
}

// UserService handles accounts, sessions and password recovery.
type UserService struct {
	tx          dbx.TxManager
	repomanager repomanager.RepositoryManager
	issuer      SessionIssuer
	hasher      PasswordHasher
	mailer      mail.Mailer
	resetTTL    time.Duration
	logger      logging.Logger

	now     func() time.Time
	newCode func() (string, error)
}

func NewUserService(tx dbx.TxManager, rm repomanager.RepositoryManager, issuer SessionIssuer, hasher PasswordHasher,
	mailer mail.Mailer, resetTTL time.Duration, logger logging.Logger) *UserService {
	if resetTTL <= 0 {
		resetTTL = common.DefaultResetCodeTTL
	}
	return &UserService{
		tx:          tx,
		repomanager: rm,
		issuer:      issuer,
		hasher:      hasher,
		mailer:      mailer,
		resetTTL:    resetTTL,
		logger:      logger.With("module", "user_service"),
		now:         time.Now,
		newCode: func() (string, error) {
			return common.GenerateNumericCode(common.ResetCodeDigits)
		},
	}
}

// SignUp registers a new account with one starter token on the free plan.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = common.NormalizeEmail(in.Email)

	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.tx.Conn())

	_, err := repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.internal(ctx, "lookup user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.internal(ctx, "hash password", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   hash,
		TokenBalance:   common.InitialTokenBalance,
		PaymentHistory: []models.Payment{},
		Subscription:   models.Subscription{Plan: models.PlanFree, Active: true},
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		return nil, s.internal(ctx, "create user", err)
	}

	metrics.RecordAuthEvent(metrics.EventSignup)
	s.logger.Info(ctx, "user signed up", "user_id", user.ID)

	return user.Profile(), nil
}

// Login checks credentials and issues a session. Unknown email, wrong
// password and empty input all fail with common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.RecordAuthEvent(metrics.EventLoginFailure)
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repomanager.Users(s.tx.Conn()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			metrics.RecordAuthEvent(metrics.EventLoginFailure)
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.internal(ctx, "lookup user", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, s.internal(ctx, "compare password", err)
	}
	if !ok {
		metrics.RecordAuthEvent(metrics.EventLoginFailure)
		return nil, common.ErrInvalidCredentials
	}

	token, expires, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, s.internal(ctx, "issue token", err)
	}

	metrics.RecordAuthEvent(metrics.EventLoginSuccess)

	return &LoginResult{Token: token, ExpiresAt: expires, User: user.Profile()}, nil
}

// VerifySession decodes token and returns the current profile of its user.
// Every failure, including a deleted account, is common.ErrorUnauthorized.
func (s *UserService) VerifySession(ctx context.Context, token string) (*models.Profile, error) {
	id, err := s.issuer.Verify(token)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.tx.Conn()).GetByID(ctx, id.UserID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "session user lookup failed", "error", err)
		}
		return nil, common.ErrorUnauthorized
	}

	return user.Profile(), nil
}

// RequestPasswordReset mails a fresh code to the account, replacing any code
// issued earlier. Unknown emails succeed silently so the response does not
// reveal which addresses are registered.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = common.NormalizeEmail(email)
	if email == "" {
		return common.NewValidationError("email is required")
	}

	repo := s.repomanager.Users(s.tx.Conn())

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return s.internal(ctx, "lookup user", err)
	}

	code, err := s.newCode()
	if err != nil {
		return s.internal(ctx, "generate reset code", err)
	}

	if err := repo.SetResetCode(ctx, user.ID, code, s.now().Add(s.resetTTL)); err != nil {
		return s.internal(ctx, "store reset code", err)
	}

	msg, err := mail.PasswordResetMessage(user.Email, code, s.resetTTL)
	if err != nil {
		return s.internal(ctx, "render reset email", err)
	}

	// The stored code stays valid if delivery fails; a later request
	// overwrites it.
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.MailFailures.Inc()
		s.logger.Error(ctx, "reset email failed", "user_id", user.ID, "error", err)
		return common.ErrMailDelivery
	}

	metrics.RecordAuthEvent(metrics.EventResetRequested)
	s.logger.Info(ctx, "password reset requested", "user_id", user.ID)

	return nil
}

// VerifyResetCode checks a code without consuming it.
func (s *UserService) VerifyResetCode(ctx context.Context, email, code string) error {
	email = common.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return common.NewValidationError("email and otp are required")
	}

	user, err := s.repomanager.Users(s.tx.Conn()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidOrExpiredCode
		}
		return s.internal(ctx, "lookup user", err)
	}

	if !user.ResetCodeValid(code, s.now()) {
		return common.ErrInvalidOrExpiredCode
	}
	return nil
}

// ResetPassword sets a new password if the code is still valid. The code is
// consumed by the same write, so it works at most once.
func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = common.NormalizeEmail(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)

	if err := validation.ValidateStruct(in); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.tx.Conn())

	user, err := repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidOrExpiredCode
		}
		return s.internal(ctx, "lookup user", err)
	}

	now := s.now()
	if !user.ResetCodeValid(in.OTP, now) {
		return common.ErrInvalidOrExpiredCode
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return s.internal(ctx, "hash password", err)
	}

	if err := repo.ConsumeResetCode(ctx, user.ID, in.OTP, hash, now); err != nil {
		if errors.Is(err, common.ErrInvalidOrExpiredCode) {
			return common.ErrInvalidOrExpiredCode
		}
		return s.internal(ctx, "consume reset code", err)
	}

	metrics.RecordAuthEvent(metrics.EventResetCompleted)
	s.logger.Info(ctx, "password reset completed", "user_id", user.ID)

	return nil
}

// internal logs err with its detail and returns an error that only carries
// the taxonomy sentinel outward.
func (s *UserService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, op+" failed", "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorInternal)
}
