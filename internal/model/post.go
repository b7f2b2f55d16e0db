package model

import "time"

// Post represents a single blog post. Tags is a comma-delimited string, matching
// the form field it is bound from. Slug is always derived from Title at
// create/update time and is the public lookup key.
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	Content       string    `json:"content" gorm:"type:longtext"`
	Abstract      string    `json:"abstract" gorm:"type:text"`
	Author        string    `json:"author" gorm:"size:255"`
	DatePublished time.Time `json:"date_published" gorm:"index"`
	Tags          string    `json:"tags" gorm:"size:512"`
	Slug          string    `json:"slug" gorm:"size:64;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
