package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the blog author account.
type User struct {
	ID                     uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email                  string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash           string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	EmailConfirmed         bool      `json:"email_confirmed" gorm:"default:false"`
	DefaultPasswordChanged bool      `json:"default_password_changed" gorm:"default:false"`
	FirstName              string    `json:"first_name" gorm:"size:255"`
	LastName               string    `json:"last_name" gorm:"size:255"`
	AboutAuthor            string    `json:"about_author" gorm:"type:text"`
	GithubProfile          string    `json:"github_profile" gorm:"size:255"`
	LinkedinProfile        string    `json:"linkedin_profile" gorm:"size:255"`
	ProfilePhoto           string    `json:"profile_photo" gorm:"size:255"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins the author's first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
