package models

import "time"

// User represents an account with its conversation preferences.
type User struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Surname           string    `json:"surname"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Locale            string    `json:"language"`
	DisplaySetting    int       `json:"display_setting"`
	VoiceSetting      int       `json:"voice_setting"`
	VoiceSpeedSetting float64   `json:"voice_speed_setting"`
	AutoplayAudio     bool      `json:"autoplaybackaudio_setting"`
	UserVersion       int       `json:"user_version"`
	CreatedAt         time.Time `json:"created_at"`
}

// Thread maps a local conversation record to its remote thread identifier.
// A thread without a title is provisional and eligible for cleanup.
type Thread struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RemoteID  string    `json:"thread_id"`
	Category  int       `json:"category"`
	Title     string    `json:"title,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"date_created"`
}

// ThreadMessage is one entry in a thread's remote history, newest first.
type ThreadMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
