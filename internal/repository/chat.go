package repository

import (
	"errors"

	"quickchat/internal/model"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(chat *model.Chat) error
	GetByID(chatID uint) (*model.Chat, error)
	GetForUser(userID uint) ([]model.Chat, error)
	GetForUsers(user1ID, user2ID uint) (*model.Chat, error)
	AddUser(chatID, userID uint) error
	IsParticipant(chatID, userID uint) (bool, error)
	CreateMessage(message *model.Message) error
	GetMessages(chatID uint) ([]model.Message, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(chat *model.Chat) error {
	return r.db.Create(chat).Error
}

func (r *chatRepository) GetByID(chatID uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.First(&chat, chatID).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetForUser возвращает чаты пользователя (новые сверху) вместе с
// участниками и полной историей сообщений (старые сверху)
func (r *chatRepository) GetForUser(userID uint) ([]model.Chat, error) {
	var chats []model.Chat

	err := r.db.
		Joins("JOIN chat_users ON chat_users.chat_id = chats.id").
		Where("chat_users.user_id = ?", userID).
		Preload("Users").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		Order("chats.created_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}

	return chats, nil
}

func (r *chatRepository) GetForUsers(user1ID, user2ID uint) (*model.Chat, error) {
	var chatID uint

	// Ищем чат, где оба пользователя состоят в одном чате
	err := r.db.Table("chat_users").
		Joins("JOIN chat_users as cu2 on chat_users.chat_id = cu2.chat_id").
		Where("chat_users.user_id = ? AND cu2.user_id = ?", user1ID, user2ID).
		Select("chat_users.chat_id").
		Limit(1).
		Scan(&chatID).Error
	if err != nil {
		return nil, err
	}

	if chatID == 0 {
		return nil, nil
	}

	return r.GetByID(chatID)
}

func (r *chatRepository) AddUser(chatID, userID uint) error {
	return r.db.Exec(`
        INSERT INTO chat_users (chat_id, user_id)
        VALUES (?, ?)
    `, chatID, userID).Error
}

func (r *chatRepository) IsParticipant(chatID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("chat_users").
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *chatRepository) CreateMessage(message *model.Message) error {
	return r.db.Create(message).Error
}

func (r *chatRepository) GetMessages(chatID uint) ([]model.Message, error) {
	var messages []model.Message

	err := r.db.Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// IsNotFound скрывает gorm.ErrRecordNotFound от вызывающих слоёв
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
