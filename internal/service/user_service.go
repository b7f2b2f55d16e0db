package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"myblog/internal/account"
	"myblog/internal/auth"
	"myblog/internal/errors"
	"myblog/internal/mailer"
	"myblog/internal/model"
	"myblog/internal/repository"
	"myblog/internal/storage"
)

const bcryptCost = 10

// ResetURLBuilder builds the absolute reset-password link mailed to the
// author, embedding the user id and reset token.
type ResetURLBuilder func(userID uuid.UUID, token string) string

// LoginResult carries the session issued on a successful login. The caller
// must redirect to the forced password-change flow when
// DefaultPasswordChanged is still false.
type LoginResult struct {
	AccessToken            string      `json:"access_token"`
	RefreshToken           string      `json:"refresh_token"`
	User                   *model.User `json:"user"`
	DefaultPasswordChanged bool        `json:"default_password_changed"`
}

// ProfileUpdate is the editable slice of the author profile. Photo is
// optional; when present the stored photo is replaced under a name derived
// from the user id.
type ProfileUpdate struct {
	UserID          uuid.UUID
	FirstName       string
	LastName        string
	Email           string
	AboutAuthor     string
	GithubProfile   string
	LinkedinProfile string
	Photo           io.Reader
	PhotoFilename   string
}

// UserService wraps the identity operations of the blog: every mutating
// workflow terminates in exactly one OperationStatus, chosen by its first
// matching precondition.
type UserService interface {
	Login(ctx context.Context, email, password string, remember bool) (*LoginResult, account.OperationStatus)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, callerID uuid.UUID, currentPassword, newPassword, rePassword string) account.OperationStatus
	ResetPassword(ctx context.Context, userID uuid.UUID, token, newPassword, rePassword string) account.OperationStatus
	ForgotPassword(ctx context.Context, email string) account.OperationStatus
	UpdateProfile(ctx context.Context, update ProfileUpdate) account.OperationStatus
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetAuthor returns the administrator profile shown to unauthenticated
	// visitors. It reads the user record directly; there is no separate
	// configuration mirror.
	GetAuthor(ctx context.Context) (*model.User, error)
	IsDefaultPasswordChanged(ctx context.Context, email string) (bool, error)
}

type userService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	resetStore auth.ResetTokenStoreInterface
	mail       mailer.Mailer
	resources  storage.ResourceStorage
	resetURL   ResetURLBuilder
}

// NewUserService wires the account workflows with their collaborators.
func NewUserService(
	users repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	resetStore auth.ResetTokenStoreInterface,
	mail mailer.Mailer,
	resources storage.ResourceStorage,
	resetURL ResetURLBuilder,
) UserService {
	return &userService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		resetStore: resetStore,
		mail:       mail,
		resources:  resources,
		resetURL:   resetURL,
	}
}

// Login authenticates the author and issues an access/refresh token pair.
// There is no lockout on failed attempts.
func (s *userService) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, account.OperationStatus) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, account.OperationStatus{Result: account.ResultInvalidUserName, Message: "Invalid user name."}
	}

	if !user.EmailConfirmed {
		return nil, account.OperationStatus{Result: account.ResultEmailNotConfirmed, Message: "Email not confirmed."}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, account.OperationStatus{Result: account.ResultInvalidUserNamePassword, Message: "Invalid user name or password."}
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, account.OperationStatus{Result: account.ResultFailure, Message: "Login failure."}
	}

	refreshTTL := auth.RefreshTokenExpiry
	if remember {
		refreshTTL = auth.RememberMeExpiry
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, refreshTTL)
	if err != nil {
		return nil, account.OperationStatus{Result: account.ResultFailure, Message: "Login failure."}
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, refreshTTL); err != nil {
		return nil, account.OperationStatus{Result: account.ResultFailure, Message: "Login failure."}
	}

	result := &LoginResult{
		AccessToken:            accessToken,
		RefreshToken:           refreshToken,
		User:                   user,
		DefaultPasswordChanged: user.DefaultPasswordChanged,
	}
	return result, account.OperationStatus{Result: account.ResultSuccess, Message: "Login success."}
}

// Logout invalidates the refresh session.
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return fmt.Errorf("extract token id: %w", err)
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// RefreshToken validates a refresh token against the session store and
// issues a new access token.
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("validate refresh token: %w", err)
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", fmt.Errorf("extract token id: %w", err)
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", fmt.Errorf("lookup refresh session: %w", err)
	}
	if storedUserID.String() != claims.UserID || storedEmail != claims.Email {
		return "", fmt.Errorf("refresh session mismatch")
	}

	return s.jwtService.GenerateAccessToken(storedUserID, storedEmail)
}

// ChangePassword verifies the current password and replaces it. A successful
// change flips the DefaultPasswordChanged latch; it never goes back to false.
func (s *userService) ChangePassword(ctx context.Context, callerID uuid.UUID, currentPassword, newPassword, rePassword string) account.OperationStatus {
	user, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return account.OperationStatus{Result: account.ResultInvalidUserID, Message: "Invalid user id."}
	}

	if newPassword != rePassword {
		return account.OperationStatus{Result: account.ResultPasswordsDontMatch, Message: "Passwords do not match."}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Change password failure."}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Change password failure."}
	}

	user.PasswordHash = string(hashed)
	user.DefaultPasswordChanged = true
	if err := s.users.Update(ctx, user); err != nil {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Change password failure."}
	}

	return account.OperationStatus{Result: account.ResultSuccess, Message: "Password has been changed successfully."}
}

// ResetPassword completes the mailed reset flow. The token is pre-sanitized
// by restoring '+' characters that mail or URL transport turned into spaces.
func (s *userService) ResetPassword(ctx context.Context, userID uuid.UUID, token, newPassword, rePassword string) account.OperationStatus {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return account.OperationStatus{Result: account.ResultInvalidUserID, Message: "Invalid user id."}
	}

	if newPassword != rePassword {
		return account.OperationStatus{Result: account.ResultPasswordsDontMatch, Message: "Passwords do not match"}
	}

	token = strings.ReplaceAll(token, " ", "+")

	if !s.resetStore.Consume(ctx, user.ID, token) {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Password reset failure."}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Password reset failure."}
	}

	user.PasswordHash = string(hashed)
	user.DefaultPasswordChanged = true
	if err := s.users.Update(ctx, user); err != nil {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Password reset failure."}
	}

	return account.OperationStatus{Result: account.ResultSuccess, Message: "Password reset success."}
}

// ForgotPassword mails a reset link. Dispatch failures are logged, not
// surfaced: once the message is handed to the mailer the workflow reports
// success.
func (s *userService) ForgotPassword(ctx context.Context, email string) account.OperationStatus {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return account.OperationStatus{Result: account.ResultInvalidUserID, Message: "Invalid user id."}
	}

	if !user.EmailConfirmed {
		return account.OperationStatus{Result: account.ResultEmailNotConfirmed, Message: "Email address was not yet confirmed."}
	}

	token, err := s.resetStore.Generate(ctx, user.ID)
	if err != nil {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Password reset failure."}
	}

	resetURL := s.resetURL(user.ID, token)
	body := fmt.Sprintf("Click <a href=%q>here</a> to reset your password", resetURL)
	if err := s.mail.Send(ctx, user.Email, "Password reset request", body); err != nil {
		log.Printf("forgot password: mail dispatch to %s failed: %v", user.Email, err)
	}

	return account.OperationStatus{
		Result:  account.ResultSuccess,
		Message: "Password reset link has been sent to your e-mail address : " + user.Email,
	}
}

// UpdateProfile copies the editable fields onto the stored account and
// optionally replaces the profile photo. The home view reads this same
// record, so no further propagation is needed.
func (s *userService) UpdateProfile(ctx context.Context, update ProfileUpdate) account.OperationStatus {
	user, err := s.users.FindByID(ctx, update.UserID)
	if err != nil {
		return account.OperationStatus{Result: account.ResultInvalidUserID, Message: "Invalid user id."}
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Email = update.Email
	user.AboutAuthor = update.AboutAuthor
	user.GithubProfile = update.GithubProfile
	user.LinkedinProfile = update.LinkedinProfile

	if update.Photo != nil {
		targetName := user.ID.String() + filepath.Ext(update.PhotoFilename)
		if _, err := s.resources.UploadProfilePhoto(update.Photo, targetName); err != nil {
			return account.OperationStatus{Result: account.ResultFailure, Message: "Profile photo upload failure."}
		}
		user.ProfilePhoto = targetName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return account.OperationStatus{Result: account.ResultFailure, Message: "Profile update failure."}
	}

	return account.OperationStatus{Result: account.ResultSuccess, Message: "Profile has been updated successfully."}
}

// GetProfile returns the account behind the authenticated caller.
func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAuthor(ctx context.Context) (*model.User, error) {
	user, err := s.users.FindAdmin(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// IsDefaultPasswordChanged reports the state of the one-way latch for the
// given account.
func (s *userService) IsDefaultPasswordChanged(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, errors.ErrUserNotFound
		}
		return false, err
	}
	return user.DefaultPasswordChanged, nil
}

// HashPassword hashes a plain password at the service's cost. Used by the
// seeder so the cost stays in one place.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// SeedDefaultAuthor creates the administrator account from configuration if
// no account exists yet. The account starts with the default password and
// DefaultPasswordChanged=false so the first login forces a change.
func SeedDefaultAuthor(ctx context.Context, users repository.UserRepository, author model.User, password string) (*model.User, bool, error) {
	existing, err := users.FindByEmail(ctx, author.Email)
	if err == nil && existing != nil {
		return existing, false, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("check author existence: %w", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	author.PasswordHash = hashed
	author.EmailConfirmed = true
	author.DefaultPasswordChanged = false
	if author.ProfilePhoto == "" {
		author.ProfilePhoto = "default_author_photo.png"
	}
	author.CreatedAt = time.Now()

	if err := users.Create(ctx, &author); err != nil {
		return nil, false, fmt.Errorf("create author: %w", err)
	}
	return &author, true, nil
}
