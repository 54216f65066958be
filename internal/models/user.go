package models

import (
	"time"
)

const DefaultRole = "Task Manager"

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	Password  string    `json:"-"`
	IsActive  bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	FullName *string `json:"fullName,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type Preferences struct {
	UserID               string    `json:"user_id"`
	DefaultView          string    `json:"default_view"`
	TaskColorTheme       string    `json:"task_color_theme"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	AutoSave             bool      `json:"auto_save"`
	UpdatedAt            time.Time `json:"updated_at,omitempty"`
}

func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:               userID,
		DefaultView:          "grid",
		TaskColorTheme:       "default",
		NotificationsEnabled: true,
		AutoSave:             true,
	}
}

// PreferencesRequest is the body of a preferences upsert. Absent fields fall
// back to the defaults.
type PreferencesRequest struct {
	DefaultView          string `json:"default_view"`
	TaskColorTheme       string `json:"task_color_theme"`
	NotificationsEnabled *bool  `json:"notifications_enabled"`
	AutoSave             *bool  `json:"auto_save"`
}

func (r PreferencesRequest) Resolve(userID string) Preferences {
	p := DefaultPreferences(userID)
	if r.DefaultView != "" {
		p.DefaultView = r.DefaultView
	}
	if r.TaskColorTheme != "" {
		p.TaskColorTheme = r.TaskColorTheme
	}
	if r.NotificationsEnabled != nil {
		p.NotificationsEnabled = *r.NotificationsEnabled
	}
	if r.AutoSave != nil {
		p.AutoSave = *r.AutoSave
	}
	return p
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

// AuthUser is the identity the auth middleware attaches to a request.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
