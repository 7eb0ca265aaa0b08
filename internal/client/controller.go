package client

import (
	"context"
	"strings"
	"sync"

	"quickchat/internal/model"

	"go.uber.org/atomic"
)

// Запрос к поиску уходит только начиная с трёх символов
const searchMinLen = 3

// Controller состояние страницы сообщений: выбранный чат, его история,
// черновик, результаты поиска и видимость меню. Асинхронные ответы
// применяются только если их поколение совпадает с текущим — устаревший
// ответ не перетирает более поздний выбор.
type Controller struct {
	mu  sync.Mutex
	api API

	user  model.User
	chats []model.Chat

	activeChatID  uint
	messages      []model.Message
	draftText     string
	searchResults []model.User

	menuOpen     bool
	settingsOpen bool

	fetchGen  atomic.Uint64
	searchGen atomic.Uint64

	lastErr error
}

func NewController(api API) *Controller {
	return &Controller{api: api}
}

// Load загружает начальное состояние и выбирает первый чат из списка
func (c *Controller) Load(ctx context.Context) error {
	payload, err := c.api.Bootstrap(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.user = payload.User
	c.chats = payload.Chats
	c.mu.Unlock()

	if len(payload.Chats) > 0 {
		c.SelectChat(ctx, payload.Chats[0].ID)
	}

	return nil
}

// SelectChat переключает активный чат и асинхронно тянет его историю
func (c *Controller) SelectChat(ctx context.Context, chatID uint) {
	// Поколение берётся под тем же мьютексом, что и запись activeChatID:
	// максимальное поколение всегда принадлежит последнему выбранному чату
	c.mu.Lock()
	c.activeChatID = chatID
	gen := c.fetchGen.Inc()
	c.mu.Unlock()

	go func() {
		messages, err := c.api.Messages(ctx, chatID)

		c.mu.Lock()
		defer c.mu.Unlock()

		// Пока запрос летал, пользователь мог выбрать другой чат
		if gen != c.fetchGen.Load() {
			return
		}

		if err != nil {
			c.lastErr = err
			return
		}

		c.messages = messages
	}()
}

func (c *Controller) ComposeDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draftText = text
}

// SubmitMessage отправляет черновик в активный чат; возвращённое сервером
// сообщение дописывается в конец истории без повторной загрузки
func (c *Controller) SubmitMessage(ctx context.Context) error {
	c.mu.Lock()
	chatID := c.activeChatID
	text := c.draftText
	c.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil
	}

	message, err := c.api.Send(ctx, chatID, text)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Пока сообщение отправлялось, активный чат мог смениться
	if c.activeChatID == chatID {
		c.messages = append(c.messages, *message)
	}
	c.draftText = ""

	return nil
}

// SearchInput реагирует на живой ввод в поле поиска: пустой запрос
// сбрасывает результаты синхронно, короткий (1–2 символа) игнорируется
func (c *Controller) SearchInput(ctx context.Context, query string) {
	runes := len([]rune(query))

	if runes == 0 {
		c.mu.Lock()
		c.searchResults = nil
		c.mu.Unlock()
		return
	}

	if runes < searchMinLen {
		return
	}

	c.mu.Lock()
	gen := c.searchGen.Inc()
	c.mu.Unlock()

	go func() {
		users, err := c.api.SearchUsers(ctx, query)

		c.mu.Lock()
		defer c.mu.Unlock()

		if gen != c.searchGen.Load() {
			return
		}

		if err != nil {
			c.lastErr = err
			return
		}

		c.searchResults = users
	}()
}

func (c *Controller) ToggleMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuOpen = !c.menuOpen
}

func (c *Controller) OpenSettings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settingsOpen = true
}

func (c *Controller) CloseSettings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settingsOpen = false
}

// PointerDown закрывает меню и настройки при клике вне кнопки и панели.
// Состояние читается в момент события, а не из замыкания
func (c *Controller) PointerDown(insideTrigger, insidePanel bool) {
	if insideTrigger || insidePanel {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuOpen = false
	c.settingsOpen = false
}

// ChatTitle имя собеседника; для групповых чатов — имена всех
// участников кроме текущего пользователя
func (c *Controller) ChatTitle(chat model.Chat) string {
	c.mu.Lock()
	selfID := c.user.ID
	c.mu.Unlock()

	names := make([]string, 0, len(chat.Users))
	for _, u := range chat.Users {
		if u.ID != selfID {
			names = append(names, u.Name)
		}
	}

	return strings.Join(names, ", ")
}

func (c *Controller) User() model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Controller) Chats() []model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Chat(nil), c.chats...)
}

func (c *Controller) ActiveChatID() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeChatID
}

func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Message(nil), c.messages...)
}

func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftText
}

func (c *Controller) SearchResults() []model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.User(nil), c.searchResults...)
}

func (c *Controller) MenuOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuOpen
}

func (c *Controller) SettingsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settingsOpen
}

// LastErr последняя ошибка асинхронных операций; сбрасывается при чтении
func (c *Controller) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.lastErr
	c.lastErr = nil
	return err
}
