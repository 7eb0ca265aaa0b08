package model

import (
	"time"

	"gorm.io/gorm"
)

type Chat struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Users    []User    `json:"users" gorm:"many2many:chat_users;"`
	Messages []Message `json:"messages"`
}

// HasUser проверяет участие по уже загруженному списку Users
func (c *Chat) HasUser(userID uint) bool {
	for _, u := range c.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}
