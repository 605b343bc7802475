package storage

import (
	"context"
	"errors"

	"github.com/nordvig/healthapp-backend/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrThreadNotFound = errors.New("thread not found")
	ErrThreadExists   = errors.New("thread id already registered")
	ErrEmailTaken     = errors.New("email already registered")
)

type Storage interface {
	UserStorage
	ThreadStorage
	Close() error
}

type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetLocale returns the user's locale, or the fallback when the user
	// record is missing.
	GetLocale(ctx context.Context, userID int64, fallback string) (string, error)
	UpdateLocale(ctx context.Context, userID int64, locale string) error
	UpdateSettings(ctx context.Context, user *models.User) error
	UpdateUserVersion(ctx context.Context, userID int64, version int) error
}

type ThreadStorage interface {
	// CreatePrimary inserts a primary thread for (user, category) unless one
	// already exists. It returns the row that holds the mapping after the
	// call and whether this call created it. Safe under concurrent callers:
	// exactly one caller observes created == true.
	CreatePrimary(ctx context.Context, thread *models.Thread) (*models.Thread, bool, error)
	Insert(ctx context.Context, thread *models.Thread) error
	FindPrimaryByUser(ctx context.Context, userID int64, category int) (*models.Thread, error)
	FindByRemoteID(ctx context.Context, remoteID string) (*models.Thread, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Thread, error)
	UpdateTitle(ctx context.Context, remoteID, title string) error
	Delete(ctx context.Context, remoteID string) error
	// DeleteUntitled removes the user's provisional threads and reports how
	// many were deleted.
	DeleteUntitled(ctx context.Context, userID int64) (int64, error)
}
