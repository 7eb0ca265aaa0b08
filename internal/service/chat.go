package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"quickchat/internal/model"
	"quickchat/internal/repository"
)

// chatService реализация ChatService
type chatService struct {
	chatRepo repository.ChatRepository
	cache    repository.ChatCacheRepository // может быть nil, если Redis не настроен
}

func NewChatService(chatRepo repository.ChatRepository, cache repository.ChatCacheRepository) ChatService {
	return &chatService{chatRepo: chatRepo, cache: cache}
}

// ListChats возвращает чаты пользователя с участниками и историей
func (s *chatService) ListChats(ctx context.Context, userID uint) ([]model.Chat, error) {
	if userID == 0 {
		return nil, errors.New("userID cannot be zero")
	}

	return s.chatRepo.GetForUser(userID)
}

// GetMessages отдаёт историю чата; читать могут только участники
func (s *chatService) GetMessages(ctx context.Context, chatID, userID uint) ([]model.Message, error) {
	if chatID == 0 || userID == 0 {
		return nil, errors.New("chatID and userID cannot be zero")
	}

	if _, err := s.chatRepo.GetByID(chatID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	ok, err := s.chatRepo.IsParticipant(chatID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	if s.cache != nil {
		messages, hit, err := s.cache.GetMessages(ctx, chatID)
		if err == nil && hit {
			return messages, nil
		}
		if err != nil {
			log.Printf("failed to get messages from cache: %v", err)
		}
	}

	messages, err := s.chatRepo.GetMessages(chatID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(messages) > 0 {
		if err := s.cache.SetMessages(ctx, chatID, messages); err != nil {
			log.Printf("failed to cache messages: %v", err)
		}
	}

	return messages, nil
}

// SendMessage сохраняет сообщение и возвращает его с присвоенным ID
func (s *chatService) SendMessage(ctx context.Context, chatID, senderID uint, text string) (*model.Message, error) {
	if chatID == 0 || senderID == 0 {
		return nil, errors.New("chatID and senderID cannot be zero")
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := s.chatRepo.GetByID(chatID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	ok, err := s.chatRepo.IsParticipant(chatID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	// Сбрасываем кеш до вставки: если Redis недоступен, сообщение не
	// сохраняем, иначе читатели видели бы историю без него до конца TTL
	if s.cache != nil {
		if err := s.cache.ClearMessages(ctx, chatID); err != nil {
			return nil, fmt.Errorf("failed to invalidate message cache: %w", err)
		}
	}

	message := &model.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Message:  text,
	}

	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	return message, nil
}

// StartDirectChat возвращает существующий диалог двух пользователей
// или создаёт новый
func (s *chatService) StartDirectChat(ctx context.Context, userID, otherID uint) (*model.Chat, error) {
	if userID == 0 || otherID == 0 {
		return nil, errors.New("userIDs cannot be zero")
	}

	if userID == otherID {
		return nil, errors.New("userIDs must be different")
	}

	chat, err := s.chatRepo.GetForUsers(userID, otherID)
	if err != nil {
		return nil, err
	}

	if chat != nil {
		return chat, nil
	}

	chat = &model.Chat{}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, err
	}

	for _, id := range []uint{userID, otherID} {
		if err := s.chatRepo.AddUser(chat.ID, id); err != nil {
			return nil, err
		}
	}

	return chat, nil
}
