package model

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	ChatID   uint   `json:"-" gorm:"index"`
	SenderID uint   `json:"sender_id"`
	Message  string `json:"message"`
}
