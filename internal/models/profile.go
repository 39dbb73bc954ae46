package models

import (
	"strings"
	"time"
)

// Profile is the public card a user shows to others.
type Profile struct {
	ID           uint      `gorm:"primaryKey" json:"id" bson:"_id"`
	UserID       uint      `gorm:"not null;uniqueIndex" json:"user_id" bson:"user_id"`
	DisplayName  string    `gorm:"size:80;not null" json:"display_name" bson:"display_name"`
	ProfileImage string    `gorm:"size:512" json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty" bson:"bio,omitempty"`
	Location     string    `gorm:"size:120" json:"location,omitempty" bson:"location,omitempty"`
	Interests    string    `gorm:"type:text" json:"interests,omitempty" bson:"interests,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// InterestList splits the comma separated interests column.
func (p *Profile) InterestList() []string {
	if p.Interests == "" {
		return nil
	}
	parts := strings.Split(p.Interests, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
