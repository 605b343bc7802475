package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nordvig/healthapp-backend/internal/models"
)

// MemoryStorage is a mutex-guarded in-memory implementation used for
// development and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*models.User
	threads map[string]*models.Thread
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:   make(map[int64]*models.User),
		threads: make(map[string]*models.Thread),
	}
}

func (s *MemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailTaken
		}
	}

	s.nextID++
	user.ID = s.nextID
	if user.Locale == "" {
		user.Locale = "en"
	}
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, exists := s.users[id]; exists {
		copied := *user
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStorage) GetLocale(ctx context.Context, userID int64, fallback string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, exists := s.users[userID]; exists {
		return user.Locale, nil
	}
	return fallback, nil
}

func (s *MemoryStorage) UpdateLocale(ctx context.Context, userID int64, locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}
	user.Locale = locale
	return nil
}

func (s *MemoryStorage) UpdateSettings(ctx context.Context, updated *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[updated.ID]
	if !exists {
		return ErrUserNotFound
	}
	user.Locale = updated.Locale
	user.DisplaySetting = updated.DisplaySetting
	user.VoiceSetting = updated.VoiceSetting
	user.VoiceSpeedSetting = updated.VoiceSpeedSetting
	user.AutoplayAudio = updated.AutoplayAudio
	return nil
}

func (s *MemoryStorage) UpdateUserVersion(ctx context.Context, userID int64, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}
	user.UserVersion = version
	return nil
}

func (s *MemoryStorage) CreatePrimary(ctx context.Context, thread *models.Thread) (*models.Thread, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check-then-insert is atomic here because the write lock is held for
	// the whole call.
	for _, t := range s.threads {
		if t.UserID == thread.UserID && t.Category == thread.Category && t.IsPrimary {
			copied := *t
			return &copied, false, nil
		}
	}
	if _, exists := s.threads[thread.RemoteID]; exists {
		return nil, false, ErrThreadExists
	}

	s.nextID++
	thread.ID = s.nextID
	thread.IsPrimary = true
	thread.CreatedAt = time.Now()
	copied := *thread
	s.threads[thread.RemoteID] = &copied
	return thread, true, nil
}

func (s *MemoryStorage) Insert(ctx context.Context, thread *models.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.threads[thread.RemoteID]; exists {
		return ErrThreadExists
	}

	s.nextID++
	thread.ID = s.nextID
	thread.IsPrimary = false
	thread.CreatedAt = time.Now()
	copied := *thread
	s.threads[thread.RemoteID] = &copied
	return nil
}

func (s *MemoryStorage) FindPrimaryByUser(ctx context.Context, userID int64, category int) (*models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.threads {
		if t.UserID == userID && t.Category == category && t.IsPrimary {
			copied := *t
			return &copied, nil
		}
	}
	return nil, ErrThreadNotFound
}

func (s *MemoryStorage) FindByRemoteID(ctx context.Context, remoteID string) (*models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if thread, exists := s.threads[remoteID]; exists {
		copied := *thread
		return &copied, nil
	}
	return nil, ErrThreadNotFound
}

func (s *MemoryStorage) ListByUser(ctx context.Context, userID int64) ([]*models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var threads []*models.Thread
	for _, t := range s.threads {
		if t.UserID == userID {
			copied := *t
			threads = append(threads, &copied)
		}
	}

	sort.Slice(threads, func(i, j int) bool {
		return threads[i].CreatedAt.After(threads[j].CreatedAt)
	})
	return threads, nil
}

func (s *MemoryStorage) UpdateTitle(ctx context.Context, remoteID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, exists := s.threads[remoteID]
	if !exists {
		return ErrThreadNotFound
	}
	thread.Title = title
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.threads[remoteID]; !exists {
		return ErrThreadNotFound
	}
	delete(s.threads, remoteID)
	return nil
}

func (s *MemoryStorage) DeleteUntitled(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, t := range s.threads {
		if t.UserID == userID && t.Title == "" {
			delete(s.threads, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
