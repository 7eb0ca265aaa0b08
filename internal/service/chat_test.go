package service

import (
	"context"
	"fmt"
	"testing"

	"quickchat/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChatRepo struct {
	chats        map[uint]*model.Chat
	participants map[uint][]uint
	messages     map[uint][]model.Message
	nextChatID   uint
	nextMsgID    uint

	getMessagesCalls int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:        make(map[uint]*model.Chat),
		participants: make(map[uint][]uint),
		messages:     make(map[uint][]model.Message),
	}
}

func (f *fakeChatRepo) addChat(userIDs ...uint) uint {
	f.nextChatID++
	f.chats[f.nextChatID] = &model.Chat{ID: f.nextChatID}
	f.participants[f.nextChatID] = userIDs
	return f.nextChatID
}

func (f *fakeChatRepo) Create(chat *model.Chat) error {
	f.nextChatID++
	chat.ID = f.nextChatID
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) GetByID(chatID uint) (*model.Chat, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return chat, nil
}

func (f *fakeChatRepo) GetForUser(userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	for id, chat := range f.chats {
		for _, uid := range f.participants[id] {
			if uid == userID {
				chats = append(chats, *chat)
				break
			}
		}
	}
	return chats, nil
}

func (f *fakeChatRepo) GetForUsers(user1ID, user2ID uint) (*model.Chat, error) {
	for id, users := range f.participants {
		var has1, has2 bool
		for _, uid := range users {
			has1 = has1 || uid == user1ID
			has2 = has2 || uid == user2ID
		}
		if has1 && has2 {
			return f.chats[id], nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) AddUser(chatID, userID uint) error {
	f.participants[chatID] = append(f.participants[chatID], userID)
	return nil
}

func (f *fakeChatRepo) IsParticipant(chatID, userID uint) (bool, error) {
	for _, uid := range f.participants[chatID] {
		if uid == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChatRepo) CreateMessage(message *model.Message) error {
	f.nextMsgID++
	message.ID = f.nextMsgID
	f.messages[message.ChatID] = append(f.messages[message.ChatID], *message)
	return nil
}

func (f *fakeChatRepo) GetMessages(chatID uint) ([]model.Message, error) {
	f.getMessagesCalls++
	return append([]model.Message(nil), f.messages[chatID]...), nil
}

type fakeCache struct {
	store    map[uint][]model.Message
	clearErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[uint][]model.Message)}
}

func (f *fakeCache) GetMessages(ctx context.Context, chatID uint) ([]model.Message, bool, error) {
	messages, ok := f.store[chatID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.Message(nil), messages...), true, nil
}

func (f *fakeCache) SetMessages(ctx context.Context, chatID uint, messages []model.Message) error {
	f.store[chatID] = append([]model.Message(nil), messages...)
	return nil
}

func (f *fakeCache) ClearMessages(ctx context.Context, chatID uint) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.store, chatID)
	return nil
}

func TestGetMessagesRequiresParticipant(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)

	svc := NewChatService(repo, nil)

	_, err := svc.GetMessages(context.Background(), chatID, 3)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestGetMessagesUnknownChat(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, nil)

	_, err := svc.GetMessages(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestSendThenGetOrdered(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2) // Alice и Bob
	repo.messages[chatID] = []model.Message{{ID: 1, ChatID: chatID, SenderID: 1, Message: "hi"}}
	repo.nextMsgID = 1

	svc := NewChatService(repo, nil)
	ctx := context.Background()

	sent, err := svc.SendMessage(ctx, chatID, 2, "hey")
	require.NoError(t, err)
	assert.Equal(t, uint(2), sent.ID)
	assert.Equal(t, uint(2), sent.SenderID)
	assert.Equal(t, "hey", sent.Message)

	messages, err := svc.GetMessages(ctx, chatID, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, uint(1), messages[0].ID)
	assert.Equal(t, uint(2), messages[1].ID)
	for _, m := range messages {
		assert.Equal(t, chatID, m.ChatID)
	}
}

func TestSendRejectsEmptyText(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)

	svc := NewChatService(repo, nil)

	_, err := svc.SendMessage(context.Background(), chatID, 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendRequiresParticipant(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)

	svc := NewChatService(repo, nil)

	_, err := svc.SendMessage(context.Background(), chatID, 3, "hello")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestGetMessagesIdempotent(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)
	repo.messages[chatID] = []model.Message{
		{ID: 1, ChatID: chatID, SenderID: 1, Message: "a"},
		{ID: 2, ChatID: chatID, SenderID: 2, Message: "b"},
	}

	svc := NewChatService(repo, nil)
	ctx := context.Background()

	first, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)
	second, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGetMessagesReadThroughCache(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)
	repo.messages[chatID] = []model.Message{{ID: 1, ChatID: chatID, SenderID: 1, Message: "hi"}}

	cache := newFakeCache()
	svc := NewChatService(repo, cache)
	ctx := context.Background()

	_, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getMessagesCalls)

	// Второе чтение обслуживается кешем
	messages, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getMessagesCalls)
	assert.Len(t, messages, 1)
}

func TestSendInvalidatesCachedHistory(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)
	repo.messages[chatID] = []model.Message{{ID: 1, ChatID: chatID, SenderID: 1, Message: "hi"}}
	repo.nextMsgID = 1

	cache := newFakeCache()
	svc := NewChatService(repo, cache)
	ctx := context.Background()

	// Прогреваем кеш
	_, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getMessagesCalls)

	_, err = svc.SendMessage(ctx, chatID, 2, "hey")
	require.NoError(t, err)

	// Кеш сброшен: чтение идёт в базу и видит новое сообщение
	messages, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hey", messages[1].Message)
	assert.Equal(t, 2, repo.getMessagesCalls)
}

func TestSendKeepsLongHistoryIntact(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)
	for i := 0; i < 1200; i++ {
		repo.messages[chatID] = append(repo.messages[chatID], model.Message{
			ID:       uint(i + 1),
			ChatID:   chatID,
			SenderID: 1,
			Message:  fmt.Sprintf("msg %d", i+1),
		})
	}
	repo.nextMsgID = 1200

	cache := newFakeCache()
	svc := NewChatService(repo, cache)
	ctx := context.Background()

	_, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, chatID, 2, "latest")
	require.NoError(t, err)

	// Вся история целиком, включая самые старые сообщения
	messages, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1201)
	assert.Equal(t, "msg 1", messages[0].Message)
	assert.Equal(t, "latest", messages[1200].Message)
}

func TestSendFailsWhenCacheUnavailable(t *testing.T) {
	repo := newFakeChatRepo()
	chatID := repo.addChat(1, 2)
	repo.messages[chatID] = []model.Message{{ID: 1, ChatID: chatID, SenderID: 1, Message: "hi"}}
	repo.nextMsgID = 1

	cache := newFakeCache()
	svc := NewChatService(repo, cache)
	ctx := context.Background()

	_, err := svc.GetMessages(ctx, chatID, 1)
	require.NoError(t, err)

	cache.clearErr = fmt.Errorf("redis: connection refused")

	_, err = svc.SendMessage(ctx, chatID, 2, "hey")
	require.Error(t, err)
	// Сообщение не записано, закешированная история осталась корректной
	require.Len(t, repo.messages[chatID], 1)
}

func TestStartDirectChatReusesExisting(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, nil)
	ctx := context.Background()

	first, err := svc.StartDirectChat(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, first)

	ok, err := repo.IsParticipant(first.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.IsParticipant(first.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	second, err := svc.StartDirectChat(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartDirectChatRejectsSelf(t *testing.T) {
	svc := NewChatService(newFakeChatRepo(), nil)

	_, err := svc.StartDirectChat(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestListChatsOnlyForParticipant(t *testing.T) {
	repo := newFakeChatRepo()
	c1 := repo.addChat(1, 2)
	repo.addChat(2, 3) // чужой чат

	svc := NewChatService(repo, nil)

	chats, err := svc.ListChats(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, c1, chats[0].ID)
}
