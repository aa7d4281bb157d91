package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/queue"
)

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	// ARRANGE: Set up test data and mocks
	mockRepo := &mockUserRepository{
		existsFn: func(ctx context.Context, username, email string) (bool, error) {
			return false, nil // Account doesn't exist
		},
		createFn: func(ctx context.Context, user *model.User) error {
			// Simulate database setting ID and timestamps
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, &mockPublisher{})

	req := &model.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		FullName: "Test User",
		Password: "securepassword123",
	}

	// ACT: Call the method we're testing
	user, err := svc.Register(context.Background(), req)

	// ASSERT: Check the results
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	if user.Username != req.Username {
		t.Errorf("username = %q, want %q", user.Username, req.Username)
	}
	if user.Email != req.Email {
		t.Errorf("email = %q, want %q", user.Email, req.Email)
	}

	// Verify password was hashed (not stored in plain text!)
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("password hash should be valid bcrypt hash")
	}

	if len(mockRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(mockRepo.createCalls))
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *model.RegisterRequest
	}{
		{"missing username", &model.RegisterRequest{Email: "a@b.com", FullName: "A", Password: "p"}},
		{"missing password", &model.RegisterRequest{Username: "a", Email: "a@b.com", FullName: "A"}},
		{"missing full name", &model.RegisterRequest{Username: "a", Email: "a@b.com", Password: "p"}},
		{"invalid email", &model.RegisterRequest{Username: "a", Email: "not-an-email", FullName: "A", Password: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{}
			svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, &mockPublisher{})

			if _, err := svc.Register(context.Background(), tt.req); err == nil {
				t.Error("expected validation error, got nil")
			}
			if len(mockRepo.createCalls) != 0 {
				t.Error("Create should not be called on validation failure")
			}
		})
	}
}

func TestUserService_Register_AlreadyExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsFn: func(ctx context.Context, username, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, &mockPublisher{})

	req := &model.RegisterRequest{
		Username: "existinguser",
		Email:    "existing@example.com",
		FullName: "Existing User",
		Password: "password123",
	}

	user, err := svc.Register(context.Background(), req)

	if !errors.Is(err, model.ErrUserExists) {
		t.Errorf("error = %v, want %v", err, model.ErrUserExists)
	}
	if user != nil {
		t.Error("user should be nil when registration fails")
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when the account exists")
	}
}

func TestUserService_Register_RacedDuplicate(t *testing.T) {
	// The exists check passes but the insert hits the unique index: the
	// repository maps that to ErrUserExists and the service passes it through.
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrUserExists
		},
	}
	svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, &mockPublisher{})

	req := &model.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		FullName: "Test User",
		Password: "password123",
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, model.ErrUserExists) {
		t.Errorf("error = %v, want %v", err, model.ErrUserExists)
	}
}

// =============================================================================
// LOGIN TESTS - Table-Driven
// =============================================================================

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	testUser := &model.User{
		ID:             1,
		Username:       "testuser",
		Email:          "test@example.com",
		PasswordHashed: string(validHash),
	}

	tests := []struct {
		name     string
		req      *model.LoginRequest
		mockGet  func(ctx context.Context, username, email string) (*model.User, error)
		wantErr  error
		wantUser bool
	}{
		{
			name: "login by username",
			req:  &model.LoginRequest{Username: "testuser", Password: validPassword},
			mockGet: func(ctx context.Context, username, email string) (*model.User, error) {
				return testUser, nil
			},
			wantUser: true,
		},
		{
			name: "login by email",
			req:  &model.LoginRequest{Email: "test@example.com", Password: validPassword},
			mockGet: func(ctx context.Context, username, email string) (*model.User, error) {
				return testUser, nil
			},
			wantUser: true,
		},
		{
			name: "user not found",
			req:  &model.LoginRequest{Username: "nonexistent", Password: "anypassword"},
			mockGet: func(ctx context.Context, username, email string) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr: model.ErrInvalidCredentials, // Don't reveal the account doesn't exist
		},
		{
			name: "wrong password",
			req:  &model.LoginRequest{Username: "testuser", Password: "wrongpassword"},
			mockGet: func(ctx context.Context, username, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name: "database error",
			req:  &model.LoginRequest{Username: "testuser", Password: validPassword},
			mockGet: func(ctx context.Context, username, email string) (*model.User, error) {
				return nil, errors.New("database error")
			},
			wantErr: model.ErrInvalidCredentials, // Don't reveal internal errors
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{getByUsernameOrEmail: tt.mockGet}
			svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, &mockPublisher{})

			user, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantUser && user == nil {
				t.Error("expected user, got nil")
			}
			if !tt.wantUser && user != nil {
				t.Error("expected nil user")
			}
		})
	}
}

func TestUserService_Login_MissingIdentifier(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, &mockWatchHistoryRepository{}, &mockPublisher{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{Password: "password"})
	if err == nil {
		t.Error("expected error when neither username nor email is given")
	}
}

// =============================================================================
// CHANGE PASSWORD TESTS
// =============================================================================

func TestUserService_ChangePassword(t *testing.T) {
	oldPassword := "oldpassword"
	oldHash, _ := bcrypt.GenerateFromPassword([]byte(oldPassword), bcrypt.MinCost)

	var storedHash string
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 1, PasswordHashed: string(oldHash)}, nil
		},
		updatePasswordFn: func(ctx context.Context, id int64, passwordHashed string) error {
			storedHash = passwordHashed
			return nil
		},
	}
	svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, &mockPublisher{})

	// Wrong old password is rejected
	err := svc.ChangePassword(context.Background(), 1, &model.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword",
	})
	if !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidCredentials)
	}
	if storedHash != "" {
		t.Fatal("password should not be updated on a failed old-password check")
	}

	// Correct old password stores a new bcrypt hash
	err = svc.ChangePassword(context.Background(), 1, &model.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: "newpassword",
	})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newpassword")); err != nil {
		t.Error("stored hash should match the new password")
	}
}

// =============================================================================
// UPDATE AVATAR TESTS
// =============================================================================

func TestUserService_UpdateAvatar_ReturnsOldKey(t *testing.T) {
	oldKey := "avatars/old.jpg"
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 1, AvatarKey: &oldKey}, nil
		},
		updateAvatarFn: func(ctx context.Context, id int64, url, key string) (*model.User, error) {
			return &model.User{ID: 1, AvatarURL: &url, AvatarKey: &key}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, &mockPublisher{})

	updated, prevKey, err := svc.UpdateAvatar(context.Background(), 1, "https://cdn/avatars/new.jpg", "avatars/new.jpg")
	if err != nil {
		t.Fatalf("UpdateAvatar failed: %v", err)
	}
	if prevKey != oldKey {
		t.Errorf("previous key = %q, want %q", prevKey, oldKey)
	}
	if updated.AvatarKey == nil || *updated.AvatarKey != "avatars/new.jpg" {
		t.Error("avatar key should be updated")
	}
}

// =============================================================================
// DELETE ACCOUNT TESTS
// =============================================================================

func TestUserService_DeleteAccount(t *testing.T) {
	avatarKey := "avatars/9.jpg"
	var deletedID int64
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, AvatarKey: &avatarKey}, nil
		},
		deleteAccountFn: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	publisher := &mockPublisher{}
	svc := NewUserService(mockRepo, &mockWatchHistoryRepository{}, publisher)

	keys, err := svc.DeleteAccount(context.Background(), 9)
	if err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if deletedID != 9 {
		t.Errorf("deleted user = %d, want 9", deletedID)
	}
	if len(keys) != 1 || keys[0] != avatarKey {
		t.Errorf("orphaned keys = %v, want [%s]", keys, avatarKey)
	}

	// The row delete must be followed by a cleanup event for the worker.
	if len(publisher.published) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.published))
	}
	event := publisher.published[0]
	if event.Type != queue.EventUserDeleted || event.EntityID != 9 {
		t.Errorf("event = %+v, want user_deleted for user 9", event)
	}
}

func TestUserService_DeleteAccount_UnknownUser(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewUserService(&mockUserRepository{}, &mockWatchHistoryRepository{}, publisher)

	_, err := svc.DeleteAccount(context.Background(), 404)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
	if len(publisher.published) != 0 {
		t.Error("no cleanup event should be published when the user does not exist")
	}
}
