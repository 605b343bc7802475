package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/nordvig/healthapp-backend/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	// Initialize database schema
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, surname, email, password_hash, language)
		VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'en'))
		RETURNING id, language, created_at`

	err := s.db.QueryRowContext(ctx, query,
		user.Name,
		user.Surname,
		user.Email,
		user.PasswordHash,
		user.Locale,
	).Scan(&user.ID, &user.Locale, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrEmailTaken
		}
		return fmt.Errorf("error creating user: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `WHERE email = $1`, email)
}

func (s *PostgresStorage) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, name, surname, email, password_hash, language,
		       display_setting, voice_setting, voice_speed_setting,
		       autoplaybackaudio_setting, user_version, created_at
		FROM users ` + where

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Surname,
		&user.Email,
		&user.PasswordHash,
		&user.Locale,
		&user.DisplaySetting,
		&user.VoiceSetting,
		&user.VoiceSpeedSetting,
		&user.AutoplayAudio,
		&user.UserVersion,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user: %v", err)
	}

	return user, nil
}

func (s *PostgresStorage) GetLocale(ctx context.Context, userID int64, fallback string) (string, error) {
	var locale string
	err := s.db.QueryRowContext(ctx, `SELECT language FROM users WHERE id = $1`, userID).Scan(&locale)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("error querying user locale: %v", err)
	}
	return locale, nil
}

func (s *PostgresStorage) UpdateLocale(ctx context.Context, userID int64, locale string) error {
	return s.updateUser(ctx, `UPDATE users SET language = $1 WHERE id = $2`, locale, userID)
}

func (s *PostgresStorage) UpdateSettings(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET language = $1,
		    display_setting = $2,
		    voice_setting = $3,
		    voice_speed_setting = $4,
		    autoplaybackaudio_setting = $5
		WHERE id = $6`

	return s.updateUser(ctx, query,
		user.Locale,
		user.DisplaySetting,
		user.VoiceSetting,
		user.VoiceSpeedSetting,
		user.AutoplayAudio,
		user.ID,
	)
}

func (s *PostgresStorage) UpdateUserVersion(ctx context.Context, userID int64, version int) error {
	return s.updateUser(ctx, `UPDATE users SET user_version = $1 WHERE id = $2`, version, userID)
}

func (s *PostgresStorage) updateUser(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating user: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *PostgresStorage) CreatePrimary(ctx context.Context, thread *models.Thread) (*models.Thread, bool, error) {
	query := `
		INSERT INTO user_threads (user_id, thread_id, category, is_primary)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (user_id, category) WHERE is_primary DO NOTHING
		RETURNING id, date_created`

	err := s.db.QueryRowContext(ctx, query,
		thread.UserID,
		thread.RemoteID,
		thread.Category,
	).Scan(&thread.ID, &thread.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		// A concurrent caller won the insert; hand back its row.
		existing, ferr := s.FindPrimaryByUser(ctx, thread.UserID, thread.Category)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, nil
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, false, ErrThreadExists
		}
		return nil, false, fmt.Errorf("error creating primary thread: %v", err)
	}

	thread.IsPrimary = true
	return thread, true, nil
}

func (s *PostgresStorage) Insert(ctx context.Context, thread *models.Thread) error {
	query := `
		INSERT INTO user_threads (user_id, thread_id, category, is_primary)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, date_created`

	err := s.db.QueryRowContext(ctx, query,
		thread.UserID,
		thread.RemoteID,
		thread.Category,
	).Scan(&thread.ID, &thread.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrThreadExists
		}
		return fmt.Errorf("error creating thread: %v", err)
	}

	return nil
}

const threadColumns = `id, user_id, thread_id, category, title, is_primary, date_created`

func (s *PostgresStorage) scanThread(row interface{ Scan(...any) error }) (*models.Thread, error) {
	thread := &models.Thread{}
	var title sql.NullString
	err := row.Scan(
		&thread.ID,
		&thread.UserID,
		&thread.RemoteID,
		&thread.Category,
		&title,
		&thread.IsPrimary,
		&thread.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	thread.Title = title.String
	return thread, nil
}

func (s *PostgresStorage) FindPrimaryByUser(ctx context.Context, userID int64, category int) (*models.Thread, error) {
	query := `
		SELECT ` + threadColumns + `
		FROM user_threads
		WHERE user_id = $1 AND category = $2 AND is_primary`

	thread, err := s.scanThread(s.db.QueryRowContext(ctx, query, userID, category))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying primary thread: %v", err)
	}
	return thread, nil
}

func (s *PostgresStorage) FindByRemoteID(ctx context.Context, remoteID string) (*models.Thread, error) {
	query := `
		SELECT ` + threadColumns + `
		FROM user_threads
		WHERE thread_id = $1`

	thread, err := s.scanThread(s.db.QueryRowContext(ctx, query, remoteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying thread: %v", err)
	}
	return thread, nil
}

func (s *PostgresStorage) ListByUser(ctx context.Context, userID int64) ([]*models.Thread, error) {
	query := `
		SELECT ` + threadColumns + `
		FROM user_threads
		WHERE user_id = $1
		ORDER BY date_created DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying threads: %v", err)
	}
	defer rows.Close()

	var threads []*models.Thread
	for rows.Next() {
		thread, err := s.scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning thread: %v", err)
		}
		threads = append(threads, thread)
	}

	return threads, rows.Err()
}

func (s *PostgresStorage) UpdateTitle(ctx context.Context, remoteID, title string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE user_threads SET title = $1 WHERE thread_id = $2`, title, remoteID)
	if err != nil {
		return fmt.Errorf("error updating thread title: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return ErrThreadNotFound
	}

	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, remoteID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_threads WHERE thread_id = $1`, remoteID)
	if err != nil {
		return fmt.Errorf("error deleting thread: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return ErrThreadNotFound
	}

	return nil
}

func (s *PostgresStorage) DeleteUntitled(ctx context.Context, userID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_threads WHERE user_id = $1 AND title IS NULL`, userID)
	if err != nil {
		return 0, fmt.Errorf("error deleting untitled threads: %v", err)
	}

	return result.RowsAffected()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
