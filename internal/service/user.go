package service

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/model"
	"github.com/vidtube/backend/internal/pagination"
	"github.com/vidtube/backend/internal/queue"
	"github.com/vidtube/backend/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo        repository.UserRepository
	historyRepo repository.WatchHistoryRepository
	publisher   queue.Publisher
}

func NewUserService(repo repository.UserRepository, historyRepo repository.WatchHistoryRepository, publisher queue.Publisher) *UserService {
	return &UserService{
		repo:        repo,
		historyRepo: historyRepo,
		publisher:   publisher,
	}
}

// Register creates a new user account with optional avatar and cover metadata.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("username is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("fullName is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("password is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("a valid email is required")
	}

	// Check before insert for a friendly error; the unique indexes still
	// catch the race and Create maps the violation to ErrUserExists.
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, model.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		PasswordHashed: string(hashedPassword),
		AvatarURL:      req.AvatarURL,
		AvatarKey:      req.AvatarKey,
		CoverImageURL:  req.CoverImageURL,
		CoverImageKey:  req.CoverImageKey,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user by username or email.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	if req.Username == "" && req.Email == "" {
		return nil, fmt.Errorf("username or email is required")
	}

	user, err := s.repo.GetByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		// Don't reveal whether the account exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangePassword verifies the old password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *model.ChangePasswordRequest) error {
	if strings.TrimSpace(req.NewPassword) == "" {
		return fmt.Errorf("new password is required")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.OldPassword)); err != nil {
		return model.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, userID, string(hashedPassword))
}

// UpdateAccount updates full name and/or email. Blank fields keep their
// current value.
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *model.UpdateAccountRequest) (*model.User, error) {
	if strings.TrimSpace(req.FullName) == "" && strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("fullName or email is required")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return nil, fmt.Errorf("a valid email is required")
		}
	}

	return s.repo.UpdateAccount(ctx, userID, req.FullName, req.Email)
}

// UpdateAvatar swaps the stored avatar reference. Returns the updated user
// and the previous object key so the handler can delete the old asset.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, url, key string) (*model.User, string, error) {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	oldKey := ""
	if current.AvatarKey != nil {
		oldKey = *current.AvatarKey
	}

	updated, err := s.repo.UpdateAvatar(ctx, userID, url, key)
	if err != nil {
		return nil, "", err
	}
	return updated, oldKey, nil
}

// UpdateCoverImage swaps the stored cover image reference. Returns the
// updated user and the previous object key.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID int64, url, key string) (*model.User, string, error) {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	oldKey := ""
	if current.CoverImageKey != nil {
		oldKey = *current.CoverImageKey
	}

	updated, err := s.repo.UpdateCoverImage(ctx, userID, url, key)
	if err != nil {
		return nil, "", err
	}
	return updated, oldKey, nil
}

// DeleteAccount removes the user row and emits a cleanup event for
// everything the account owned or touched. Returns the profile image
// object keys so the caller can delete the stored assets.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) ([]string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.publisher.Publish(ctx, queue.StreamCleanup, queue.NewUserDeletedEvent(userID)); err != nil {
		log.Printf("[User] cleanup event publish failed: user=%d err=%v", userID, err)
	}

	var keys []string
	if user.AvatarKey != nil && *user.AvatarKey != "" {
		keys = append(keys, *user.AvatarKey)
	}
	if user.CoverImageKey != nil && *user.CoverImageKey != "" {
		keys = append(keys, *user.CoverImageKey)
	}
	return keys, nil
}

// GetChannelProfile assembles a channel page by username. viewerID is nil
// for anonymous requests, which leaves isSubscribed false.
func (s *UserService) GetChannelProfile(ctx context.Context, username string, viewerID *int64) (*model.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("username is required")
	}
	return s.repo.GetChannelProfile(ctx, username, viewerID)
}

// GetWatchHistory returns one page of the user's watch history, most
// recent first.
func (s *UserService) GetWatchHistory(ctx context.Context, userID int64, p pagination.Params) ([]model.WatchHistoryEntry, *pagination.Meta, error) {
	entries, total, err := s.historyRepo.List(ctx, userID, p)
	if err != nil {
		return nil, nil, err
	}
	meta := pagination.NewMeta(total, p.Page, p.Limit)
	return entries, &meta, nil
}
