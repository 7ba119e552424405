package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Role values stored on UserProfile.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can sign in. Role and jurisdiction live on the profile.
type User struct {
	ID           string       `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string       `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string       `gorm:"uniqueIndex;size:254" json:"email"`
	FirstName    string       `gorm:"size:150" json:"first_name"`
	LastName     string       `gorm:"size:150" json:"last_name"`
	PasswordHash string       `gorm:"not null" json:"-"`
	IsStaff      bool         `json:"is_staff"`
	IsActive     bool         `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Profile      *UserProfile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is still empty.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// FullName joins first and last name, falling back to the email.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UserProfile is one-to-one with User. The assigned location is only consulted
// for admins; all three empty means the admin is not scoped.
type UserProfile struct {
	ID               uint    `gorm:"primaryKey" json:"-"`
	UserID           string  `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Phone            *string `gorm:"size:20;uniqueIndex" json:"phone"`
	Role             string  `gorm:"size:20;not null;default:user" json:"role"`
	AssignedProvince string  `gorm:"size:100" json:"assigned_province"`
	AssignedDistrict string  `gorm:"size:100" json:"assigned_district"`
	AssignedOffice   string  `gorm:"size:100" json:"assigned_office"`
	// TelegramChatID is set once the user links a chat with the bot.
	TelegramChatID int64 `gorm:"index" json:"-"`
	// NotifyChannels are the delivery channels for status updates, e.g. {"email","telegram"}.
	NotifyChannels pq.StringArray `gorm:"type:text[]" json:"notify_channels"`
}

// HasChannel reports whether ch is among the profile's notification channels.
func (p *UserProfile) HasChannel(ch string) bool {
	for _, c := range p.NotifyChannels {
		if c == ch {
			return true
		}
	}
	return false
}
