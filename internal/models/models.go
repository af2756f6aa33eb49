package models

import (
	"time"
)

type User struct {
	ID           uint          `gorm:"primaryKey;autoIncrement"                 json:"id"`
	Name         string        `gorm:"size:255;not null;default:''"             json:"name"`
	Email        string        `gorm:"size:255;uniqueIndex;not null"            json:"email"`
	PasswordHash string        `gorm:"not null"                                 json:"-"`
	Tokens       []AccessToken `gorm:"constraint:OnDelete:CASCADE;"             json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// AccessToken is a personal access token. Only the sha256 of the plaintext is stored.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID     uint       `gorm:"index;not null"            json:"user_id"`
	Name       string     `gorm:"size:255;not null"         json:"name"`
	JTI        string     `gorm:"size:36;uniqueIndex;not null" json:"-"`
	TokenHash  string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (t *AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name      string    `gorm:"size:255;not null"         json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"size:255;not null"         json:"name"`
	Description string    `gorm:"size:255;not null"         json:"description"`
	Price       int64     `gorm:"not null"                  json:"price"`
	CategoryID  uint      `gorm:"index;not null"            json:"category_id"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &AccessToken{}, &Category{}, &Product{}}
}
