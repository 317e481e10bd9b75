package models

import (
	"time"
)

// Token types stored in user_tokens.token_type.
const (
	TokenTypePasswordReset = "password_reset"
)

type UserToken struct {
	TokenID   int       `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int       `gorm:"column:user_id;index" json:"user_id"`
	TokenType string    `gorm:"column:token_type" json:"token_type"`
	TokenHash string    `gorm:"column:token_hash" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked bool      `gorm:"column:is_revoked" json:"is_revoked"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}
