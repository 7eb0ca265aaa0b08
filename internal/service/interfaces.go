package service

import (
	"context"
	"errors"

	"quickchat/internal/model"
)

var (
	ErrChatNotFound   = errors.New("chat not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotParticipant = errors.New("user is not a participant of the chat")
	ErrEmptyMessage   = errors.New("message text cannot be empty")
)

type UserService interface {
	CreateUser(user *model.User) error
	GetUserByID(id uint) (*model.User, error)
	GetUserByName(name string) (*model.User, error)
	NameExists(name string) (bool, error)
	SearchUsers(prompt string, excludeID uint) ([]*model.User, error)
	SetAvatarKey(userID uint, key string) error
}

type ChatService interface {
	ListChats(ctx context.Context, userID uint) ([]model.Chat, error)
	GetMessages(ctx context.Context, chatID, userID uint) ([]model.Message, error)
	SendMessage(ctx context.Context, chatID, senderID uint, text string) (*model.Message, error)
	StartDirectChat(ctx context.Context, userID, otherID uint) (*model.Chat, error)
}
