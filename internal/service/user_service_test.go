package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"myblog/internal/account"
	"myblog/internal/auth"
	"myblog/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindAdmin(ctx context.Context) (*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockResetTokenStore is a mock implementation of auth.ResetTokenStoreInterface.
type MockResetTokenStore struct {
	mock.Mock
}

func (m *MockResetTokenStore) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockResetTokenStore) Consume(ctx context.Context, userID uuid.UUID, token string) bool {
	args := m.Called(ctx, userID, token)
	return args.Bool(0)
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, bodyHTML string) error {
	args := m.Called(ctx, to, subject, bodyHTML)
	return args.Error(0)
}

// MockResourceStorage is a mock implementation of storage.ResourceStorage.
type MockResourceStorage struct {
	mock.Mock
}

func (m *MockResourceStorage) UploadProfilePhoto(file io.Reader, targetName string) (string, error) {
	args := m.Called(file, targetName)
	return args.String(0), args.Error(1)
}

type userServiceMocks struct {
	repo       *MockUserRepository
	tokenStore *MockTokenStore
	resetStore *MockResetTokenStore
	mail       *MockMailer
	resources  *MockResourceStorage
}

func newUserService(t *testing.T) (UserService, *userServiceMocks) {
	t.Helper()
	mocks := &userServiceMocks{
		repo:       new(MockUserRepository),
		tokenStore: new(MockTokenStore),
		resetStore: new(MockResetTokenStore),
		mail:       new(MockMailer),
		resources:  new(MockResourceStorage),
	}
	resetURL := func(userID uuid.UUID, token string) string {
		return "http://localhost:8080/reset-password?id=" + userID.String() + "&token=" + token
	}
	svc := NewUserService(mocks.repo, auth.NewJWTService("test-secret"), mocks.tokenStore, mocks.resetStore, mocks.mail, mocks.resources, resetURL)
	return svc, mocks
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestUserService_Login(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		email          string
		password       string
		setupMock      func(t *testing.T, m *userServiceMocks)
		expectedResult account.OperationResult
	}{
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "whatever",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedResult: account.ResultInvalidUserName,
		},
		{
			name:     "email not confirmed wins even with a correct password",
			email:    "author@example.com",
			password: "correct-password",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
					ID:             userID,
					Email:          "author@example.com",
					PasswordHash:   hashFor(t, "correct-password"),
					EmailConfirmed: false,
				}, nil)
			},
			expectedResult: account.ResultEmailNotConfirmed,
		},
		{
			name:     "wrong password",
			email:    "author@example.com",
			password: "wrong-password",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
					ID:             userID,
					Email:          "author@example.com",
					PasswordHash:   hashFor(t, "correct-password"),
					EmailConfirmed: true,
				}, nil)
			},
			expectedResult: account.ResultInvalidUserNamePassword,
		},
		{
			name:     "successful login",
			email:    "author@example.com",
			password: "correct-password",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
					ID:             userID,
					Email:          "author@example.com",
					PasswordHash:   hashFor(t, "correct-password"),
					EmailConfirmed: true,
				}, nil)
				m.tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, userID, "author@example.com", auth.RefreshTokenExpiry).Return(nil)
			},
			expectedResult: account.ResultSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newUserService(t)
			tt.setupMock(t, mocks)

			session, status := svc.Login(context.Background(), tt.email, tt.password, false)

			assert.Equal(t, tt.expectedResult, status.Result)
			assert.NotEmpty(t, status.Message)
			if tt.expectedResult == account.ResultSuccess {
				assert.NotNil(t, session)
				assert.NotEmpty(t, session.AccessToken)
				assert.NotEmpty(t, session.RefreshToken)
			} else {
				assert.Nil(t, session)
			}

			mocks.repo.AssertExpectations(t)
			mocks.tokenStore.AssertExpectations(t)
		})
	}
}

func TestUserService_Login_RememberExtendsSession(t *testing.T) {
	svc, mocks := newUserService(t)
	userID := uuid.New()

	mocks.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
		ID:             userID,
		Email:          "author@example.com",
		PasswordHash:   hashFor(t, "pw"),
		EmailConfirmed: true,
	}, nil)
	mocks.tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, userID, "author@example.com", auth.RememberMeExpiry).Return(nil)

	_, status := svc.Login(context.Background(), "author@example.com", "pw", true)

	assert.True(t, status.Succeeded())
	mocks.tokenStore.AssertExpectations(t)
}

func TestUserService_ChangePassword(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		current        string
		newPassword    string
		rePassword     string
		setupMock      func(t *testing.T, m *userServiceMocks)
		expectedResult account.OperationResult
	}{
		{
			name:        "unresolved caller",
			current:     "old",
			newPassword: "new",
			rePassword:  "new",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedResult: account.ResultInvalidUserID,
		},
		{
			name:        "password mismatch never reaches the update",
			current:     "old",
			newPassword: "new-one",
			rePassword:  "new-two",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(&model.User{
					ID:           userID,
					PasswordHash: hashFor(t, "old"),
				}, nil)
				// No Update expectation: a mismatch must stop before any write.
			},
			expectedResult: account.ResultPasswordsDontMatch,
		},
		{
			name:        "wrong current password",
			current:     "not-the-old-one",
			newPassword: "new",
			rePassword:  "new",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(&model.User{
					ID:           userID,
					PasswordHash: hashFor(t, "old"),
				}, nil)
			},
			expectedResult: account.ResultFailure,
		},
		{
			name:        "successful change flips the latch",
			current:     "old",
			newPassword: "brand-new",
			rePassword:  "brand-new",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(&model.User{
					ID:                     userID,
					PasswordHash:           hashFor(t, "old"),
					DefaultPasswordChanged: false,
				}, nil)
				m.repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.DefaultPasswordChanged &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("brand-new")) == nil
				})).Return(nil)
			},
			expectedResult: account.ResultSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newUserService(t)
			tt.setupMock(t, mocks)

			status := svc.ChangePassword(context.Background(), userID, tt.current, tt.newPassword, tt.rePassword)

			assert.Equal(t, tt.expectedResult, status.Result)
			mocks.repo.AssertExpectations(t)
		})
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		token          string
		newPassword    string
		rePassword     string
		setupMock      func(t *testing.T, m *userServiceMocks)
		expectedResult account.OperationResult
	}{
		{
			name:        "unresolved user id",
			token:       "tok",
			newPassword: "new",
			rePassword:  "new",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedResult: account.ResultInvalidUserID,
		},
		{
			name:        "password mismatch",
			token:       "tok",
			newPassword: "one",
			rePassword:  "two",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
			},
			expectedResult: account.ResultPasswordsDontMatch,
		},
		{
			name:        "mangled token is repaired before the check",
			token:       "abc def",
			newPassword: "new",
			rePassword:  "new",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				m.resetStore.On("Consume", mock.Anything, userID, "abc+def").Return(true)
				m.repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.DefaultPasswordChanged
				})).Return(nil)
			},
			expectedResult: account.ResultSuccess,
		},
		{
			name:        "rejected token",
			token:       "expired",
			newPassword: "new",
			rePassword:  "new",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				m.resetStore.On("Consume", mock.Anything, userID, "expired").Return(false)
			},
			expectedResult: account.ResultFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newUserService(t)
			tt.setupMock(t, mocks)

			status := svc.ResetPassword(context.Background(), userID, tt.token, tt.newPassword, tt.rePassword)

			assert.Equal(t, tt.expectedResult, status.Result)
			mocks.repo.AssertExpectations(t)
			mocks.resetStore.AssertExpectations(t)
		})
	}
}

func TestUserService_ForgotPassword(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		email          string
		setupMock      func(t *testing.T, m *userServiceMocks)
		expectedResult account.OperationResult
	}{
		{
			name:  "unresolved email",
			email: "nobody@example.com",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedResult: account.ResultInvalidUserID,
		},
		{
			name:  "unconfirmed email",
			email: "author@example.com",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
					ID:             userID,
					Email:          "author@example.com",
					EmailConfirmed: false,
				}, nil)
			},
			expectedResult: account.ResultEmailNotConfirmed,
		},
		{
			name:  "link is mailed",
			email: "author@example.com",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
					ID:             userID,
					Email:          "author@example.com",
					EmailConfirmed: true,
				}, nil)
				m.resetStore.On("Generate", mock.Anything, userID).Return("tok-123", nil)
				m.mail.On("Send", mock.Anything, "author@example.com", "Password reset request", mock.MatchedBy(func(body string) bool {
					return strings.Contains(body, userID.String()) && strings.Contains(body, "tok-123")
				})).Return(nil)
			},
			expectedResult: account.ResultSuccess,
		},
		{
			name:  "dispatch failure still reports success",
			email: "author@example.com",
			setupMock: func(t *testing.T, m *userServiceMocks) {
				m.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
					ID:             userID,
					Email:          "author@example.com",
					EmailConfirmed: true,
				}, nil)
				m.resetStore.On("Generate", mock.Anything, userID).Return("tok-123", nil)
				m.mail.On("Send", mock.Anything, "author@example.com", mock.Anything, mock.Anything).Return(assert.AnError)
			},
			expectedResult: account.ResultSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newUserService(t)
			tt.setupMock(t, mocks)

			status := svc.ForgotPassword(context.Background(), tt.email)

			assert.Equal(t, tt.expectedResult, status.Result)
			mocks.repo.AssertExpectations(t)
			mocks.resetStore.AssertExpectations(t)
			mocks.mail.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("fields are copied onto the stored account", func(t *testing.T) {
		svc, mocks := newUserService(t)

		mocks.repo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:        userID,
			Email:     "old@example.com",
			FirstName: "Old",
		}, nil)
		mocks.repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.FirstName == "New" && u.LastName == "Name" &&
				u.Email == "new@example.com" && u.AboutAuthor == "bio" &&
				u.GithubProfile == "gh" && u.LinkedinProfile == "li"
		})).Return(nil)

		status := svc.UpdateProfile(context.Background(), ProfileUpdate{
			UserID:          userID,
			FirstName:       "New",
			LastName:        "Name",
			Email:           "new@example.com",
			AboutAuthor:     "bio",
			GithubProfile:   "gh",
			LinkedinProfile: "li",
		})

		assert.True(t, status.Succeeded())
		mocks.repo.AssertExpectations(t)
		mocks.resources.AssertNotCalled(t, "UploadProfilePhoto", mock.Anything, mock.Anything)
	})

	t.Run("photo replacement derives the name from the user id", func(t *testing.T) {
		svc, mocks := newUserService(t)

		mocks.repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		mocks.resources.On("UploadProfilePhoto", mock.Anything, userID.String()+".png").Return("uploads/"+userID.String()+".png", nil)
		mocks.repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ProfilePhoto == userID.String()+".png"
		})).Return(nil)

		status := svc.UpdateProfile(context.Background(), ProfileUpdate{
			UserID:        userID,
			FirstName:     "A",
			LastName:      "B",
			Email:         "a@example.com",
			Photo:         new(fakeReader),
			PhotoFilename: "me.png",
		})

		assert.True(t, status.Succeeded())
		mocks.repo.AssertExpectations(t)
		mocks.resources.AssertExpectations(t)
	})

	t.Run("unresolved user id", func(t *testing.T) {
		svc, mocks := newUserService(t)
		mocks.repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		status := svc.UpdateProfile(context.Background(), ProfileUpdate{UserID: userID})

		assert.Equal(t, account.ResultInvalidUserID, status.Result)
	})
}

type fakeReader struct{}

func (*fakeReader) Read(p []byte) (int, error) { return 0, io.EOF }

func TestUserService_IsDefaultPasswordChanged(t *testing.T) {
	svc, mocks := newUserService(t)

	mocks.repo.On("FindByEmail", mock.Anything, "author@example.com").Return(&model.User{
		Email:                  "author@example.com",
		DefaultPasswordChanged: true,
	}, nil)

	changed, err := svc.IsDefaultPasswordChanged(context.Background(), "author@example.com")

	assert.NoError(t, err)
	assert.True(t, changed)
	mocks.repo.AssertExpectations(t)
}
