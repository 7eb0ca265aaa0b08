package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"quickchat/api/response"
	"quickchat/internal/model"
)

// API операции страницы сообщений
type API interface {
	Bootstrap(ctx context.Context) (*BootstrapPayload, error)
	Messages(ctx context.Context, chatID uint) ([]model.Message, error)
	Send(ctx context.Context, chatID uint, text string) (*model.Message, error)
	SearchUsers(ctx context.Context, query string) ([]model.User, error)
}

// BootstrapPayload начальная отдача страницы: чаты и текущий пользователь
type BootstrapPayload struct {
	Chats []model.Chat `json:"chats"`
	User  model.User   `json:"user"`
}

type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Bootstrap(ctx context.Context) (*BootstrapPayload, error) {
	var payload BootstrapPayload
	if err := c.do(ctx, http.MethodGet, "/", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *HTTPClient) Messages(ctx context.Context, chatID uint) ([]model.Message, error) {
	var messages []model.Message
	path := fmt.Sprintf("/messages/%d", chatID)
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *HTTPClient) Send(ctx context.Context, chatID uint, text string) (*model.Message, error) {
	var message model.Message
	path := fmt.Sprintf("/messages/%d", chatID)
	body := map[string]string{"message": text}
	if err := c.do(ctx, http.MethodPost, path, body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *HTTPClient) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	var users []model.User
	path := "/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer = &bytes.Buffer{}
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp response.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, errResp.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
