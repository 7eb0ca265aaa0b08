package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"quickchat/internal/model"
	"quickchat/internal/pkg/httputils"
	"quickchat/internal/service"

	"github.com/gorilla/mux"
)

type ChatHandler struct {
	chatService service.ChatService
	userService service.UserService
}

func NewChatHandler(chatService service.ChatService, userService service.UserService) *ChatHandler {
	return &ChatHandler{chatService: chatService, userService: userService}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.home).Methods("GET", "OPTIONS")
	router.HandleFunc("/messages/{id}", h.getMessages).Methods("GET", "OPTIONS")
	router.HandleFunc("/messages/{id}", h.sendMessage).Methods("POST", "OPTIONS")
	router.HandleFunc("/chats", h.startChat).Methods("POST", "OPTIONS")
}

type homeResponse struct {
	Chats []model.Chat `json:"chats"`
	User  *model.User  `json:"user"`
}

// @Summary Home payload
// @Description Chats of the current user with participants and history, newest chat first
// @ID home
// @Produce json
// @Success 200 {object} homeResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router / [get]
func (h *ChatHandler) home(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r)
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	chats, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "failed to get chats")
		return
	}

	if chats == nil {
		chats = []model.Chat{}
	}

	httputils.ResponseJSON(w, http.StatusOK, homeResponse{
		Chats: chats,
		User:  user,
	})
}

// @Summary Get messages
// @Description Messages of a chat, oldest first
// @ID get-messages
// @Produce json
// @Param id path int true "Chat ID"
// @Success 200 {object} []model.Message
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /messages/{id} [get]
func (h *ChatHandler) getMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r)
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	vars := mux.Vars(r)
	chatID, err := strconv.Atoi(vars["id"])
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "failed to parse chat ID")
		return
	}

	messages, err := h.chatService.GetMessages(r.Context(), uint(chatID), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatNotFound):
			httputils.ResponseError(w, http.StatusNotFound, "no such chat")
		case errors.Is(err, service.ErrNotParticipant):
			httputils.ResponseError(w, http.StatusForbidden, "not a participant of the chat")
		default:
			httputils.ResponseError(w, http.StatusInternalServerError, "failed to get messages for chat")
		}
		return
	}

	if messages == nil {
		messages = []model.Message{}
	}

	httputils.ResponseJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// @Summary Send message
// @Description Append a message to the chat and return it
// @ID send-message
// @Accept json
// @Produce json
// @Param id path int true "Chat ID"
// @Param MessageData body sendMessageRequest true "Message Data"
// @Success 200 {object} model.Message
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /messages/{id} [post]
func (h *ChatHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r)
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	vars := mux.Vars(r)
	chatID, err := strconv.Atoi(vars["id"])
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "failed to parse chat ID")
		return
	}

	var request sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	r.Body.Close()

	message, err := h.chatService.SendMessage(r.Context(), uint(chatID), userID, request.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			httputils.ResponseError(w, http.StatusBadRequest, "message text is required")
		case errors.Is(err, service.ErrChatNotFound):
			httputils.ResponseError(w, http.StatusNotFound, "no such chat")
		case errors.Is(err, service.ErrNotParticipant):
			httputils.ResponseError(w, http.StatusForbidden, "not a participant of the chat")
		default:
			httputils.ResponseError(w, http.StatusInternalServerError, "failed to send message to chat")
		}
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, message)
}

type startChatRequest struct {
	UserID uint `json:"user_id"`
}

// @Summary Start chat
// @Description Return the existing direct chat with the user or create a new one
// @ID start-chat
// @Accept json
// @Produce json
// @Param ChatData body startChatRequest true "Chat Data"
// @Success 201 {object} model.Chat
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) startChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r)
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	var request startChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	r.Body.Close()

	if _, err := h.userService.GetUserByID(request.UserID); err != nil {
		httputils.ResponseError(w, http.StatusNotFound, "no such user")
		return
	}

	chat, err := h.chatService.StartDirectChat(r.Context(), userID, request.UserID)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "failed to start chat")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, chat)
}
