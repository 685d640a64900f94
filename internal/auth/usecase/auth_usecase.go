package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"corpsuite/internal/auth/config"
	"corpsuite/internal/auth/domain/model"
	"corpsuite/internal/auth/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrOAuthStateInvalid  = errors.New("oauth state is invalid or expired")
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128

	defaultRole = "user"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, patch model.ProfileUpdate) (*model.User, error)
	IssueOAuthState(ctx context.Context, provider string) (string, error)
	OAuthCallback(ctx context.Context, provider, code, state string) (*model.User, string, error)
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	SubscriptionPlan string `json:"subscription_plan"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	CompanyName      string `json:"company_name,omitempty"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo       repository.AuthRepository
	tokenSvc   repository.TokenService
	stateStore repository.OAuthStateStore
	exchanger  repository.ProviderExchanger
	config     *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.AuthRepository,
	tokenSvc repository.TokenService,
	stateStore repository.OAuthStateStore,
	exchanger repository.ProviderExchanger,
	cfg *config.Config,
) *AuthUsecase {
	return &AuthUsecase{
		repo:       repo,
		tokenSvc:   tokenSvc,
		stateStore: stateStore,
		exchanger:  exchanger,
		config:     cfg,
	}
}

func (uc *AuthUsecase) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// Register creates a new account with a starter subscription.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}
	if err := uc.validatePassword(req.Password); err != nil {
		return nil, "", err
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return nil, "", ErrPasswordMismatch
	}

	existing, err := uc.repo.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	plan := req.SubscriptionPlan
	if plan == "" {
		plan = uc.config.DefaultPlan
	}
	planEnd := time.Now().AddDate(0, 0, uc.config.DefaultPlanDuration)

	user := &model.User{
		ID:                  uuid.New().String(),
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:        string(hashedPassword),
		Role:                defaultRole,
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		CompanyName:         strings.TrimSpace(req.CompanyName),
		SubscriptionPlan:    plan,
		SubscriptionEndDate: planEnd.Format(time.RFC3339),
		IsActive:            true,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := user.ValidateFields(); err != nil {
		return nil, "", err
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login authenticates an account by email and password.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if err := uc.validateEmail(req.Email); err != nil {
		return nil, "", err
	}

	user, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, "", ErrAccountInactive
	}

	if user.PasswordHash == "" {
		// OAuth-only account, no password to compare
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// ValidateToken validates a JWT string
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetUserFromToken validates a token and fetches the associated user
func (uc *AuthUsecase) GetUserFromToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := uc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the stored user.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID string, patch model.ProfileUpdate) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	patch.Apply(user)
	user.UpdatedAt = time.Now()

	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// IssueOAuthState creates and stores a CSRF state token for the provider.
func (uc *AuthUsecase) IssueOAuthState(ctx context.Context, provider string) (string, error) {
	state := uuid.New().String()
	if err := uc.stateStore.Save(ctx, state, provider); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return state, nil
}

// OAuthCallback completes the provider flow: the state must match the
// provider it was issued for, the code is exchanged for a profile, and
// the profile is linked to an account (created on first sign-in).
func (uc *AuthUsecase) OAuthCallback(ctx context.Context, provider, code, state string) (*model.User, string, error) {
	issuedFor, err := uc.stateStore.Consume(ctx, state)
	if err != nil || issuedFor != provider {
		return nil, "", ErrOAuthStateInvalid
	}

	profile, err := uc.exchanger.Exchange(ctx, provider, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	user, err := uc.resolveOAuthUser(ctx, profile)
	if err != nil {
		return nil, "", err
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// resolveOAuthUser finds the account for a provider profile: by linked
// identity first, then by email (linking the identity), creating a new
// verified account when neither exists.
func (uc *AuthUsecase) resolveOAuthUser(ctx context.Context, profile *model.OAuthProfile) (*model.User, error) {
	user, err := uc.repo.GetUserByOAuth(ctx, profile.Provider, profile.SubjectID)
	if err == nil {
		if profile.PictureURL != "" {
			user.ProfilePictureURL = profile.PictureURL
		}
		if err := uc.repo.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to refresh oauth user: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	user, err = uc.repo.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		user.OAuthProvider = profile.Provider
		user.OAuthID = profile.SubjectID
		user.IsVerified = true
		if profile.PictureURL != "" {
			user.ProfilePictureURL = profile.PictureURL
		}
		if err := uc.repo.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to link oauth identity: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	first, last := splitName(profile.Name)
	planEnd := time.Now().AddDate(0, 0, uc.config.DefaultPlanDuration)
	user = &model.User{
		ID:                  uuid.New().String(),
		Email:               strings.ToLower(profile.Email),
		Role:                defaultRole,
		FirstName:           first,
		LastName:            last,
		ProfilePictureURL:   profile.PictureURL,
		SubscriptionPlan:    uc.config.DefaultPlan,
		SubscriptionEndDate: planEnd.Format(time.RFC3339),
		OAuthProvider:       profile.Provider,
		OAuthID:             profile.SubjectID,
		IsActive:            true,
		IsVerified:          true,
	}
	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}
	return user, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
