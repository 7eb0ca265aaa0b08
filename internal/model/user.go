package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Name      string `json:"name" gorm:"uniqueIndex"`
	Password  string `json:"-"`
	AvatarKey string `json:"-"`

	Chats []Chat `json:"-" gorm:"many2many:chat_users;"`
}
