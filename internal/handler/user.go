package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"quickchat/internal/model"
	"quickchat/internal/pkg/auth"
	"quickchat/internal/pkg/httputils"
	"quickchat/internal/service"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userService   service.UserService
	avatarService *service.AvatarService
}

func NewUserHandler(userService service.UserService, avatarService *service.AvatarService) *UserHandler {
	return &UserHandler{userService: userService, avatarService: avatarService}
}

// RegisterPublicRoutes регистрирует маршруты, не требующие токена
func (h *UserHandler) RegisterPublicRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.registerUser).Methods("POST", "OPTIONS")
	router.HandleFunc("/login", h.loginUser).Methods("POST", "OPTIONS")
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/search", h.searchUsers).Methods("GET", "OPTIONS")
	router.HandleFunc("/user/{id}", h.getUser).Methods("GET", "OPTIONS")
	router.HandleFunc("/avatar", h.uploadAvatar).Methods("POST", "OPTIONS")
}

type TokenResponse struct {
	Token string `json:"token"`
}

// @Summary Register
// @Description Register an account
// @ID register
// @Accept json
// @Produce json
// @Success 201 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param registerData body RegisterRequest true "Register data"
// @Router /register [post]
func (h *UserHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	if request.Name == "" || request.Password == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "Name and password are required")
		return
	}

	if request.Password != request.ConfirmPassword {
		httputils.ResponseError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	exists, err := h.userService.NameExists(request.Name)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to check name availability")
		return
	}
	if exists {
		httputils.ResponseError(w, http.StatusConflict, fmt.Sprintf("User with name %s exists", request.Name))
		return
	}

	hash, err := auth.HashPassword(request.Password)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to generate password hash")
		return
	}
	user := &model.User{Name: request.Name, Password: hash}
	if err = h.userService.CreateUser(user); err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, TokenResponse{
		Token: token,
	})
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// @Summary Login
// @Description Login into account
// @ID login
// @Accept json
// @Produce json
// @Success 201 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param loginData body LoginRequest true "Login data"
// @Router /login [post]
func (h *UserHandler) loginUser(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	if request.Name == "" || request.Password == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "Name and password are required")
		return
	}

	user, err := h.userService.GetUserByName(request.Name)
	if err != nil {
		httputils.ResponseError(w, http.StatusConflict, fmt.Sprintf("User %s does not exist", request.Name))
		return
	}

	if !auth.CheckPasswordHash(request.Password, user.Password) {
		httputils.ResponseError(w, http.StatusConflict, "Wrong password")
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, TokenResponse{
		Token: token,
	})
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// @Summary Get user
// @Description Get user by id
// @ID get-user
// @Produce json
// @Success 200 {object} model.User
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param id path int true "User ID"
// @Router /user/{id} [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["id"])
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Failed to parse user ID")
		return
	}

	user, err := h.userService.GetUserByID(uint(userID))
	if err != nil {
		httputils.ResponseError(w, http.StatusNotFound, "No such user")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, user)
}

// @Summary Search users
// @Description Search users by name substring, excluding the requesting user
// @ID search-users
// @Produce json
// @Success 200 {object} []model.User
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Param query query string false "Search query"
// @Router /search [get]
func (h *UserHandler) searchUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r)
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	query := r.URL.Query().Get("query")

	users, err := h.userService.SearchUsers(query, userID)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "failed to search for users")
		return
	}

	if users == nil {
		users = []*model.User{}
	}

	httputils.ResponseJSON(w, http.StatusOK, users)
}

type avatarResponse struct {
	Metadata *model.AvatarMetadata `json:"metadata"`
	URL      string                `json:"url"`
}

// @Summary Upload avatar
// @Description Upload a profile picture for the current user
// @ID upload-avatar
// @Accept mpfd
// @Produce json
// @Success 201 {object} avatarResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Param avatar formData file true "Avatar image"
// @Router /avatar [post]
func (h *UserHandler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r)
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "no authenticated user")
		return
	}

	if h.avatarService == nil {
		httputils.ResponseError(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	metadata, err := h.avatarService.UploadAvatar(r.Context(), file, header.Filename, contentType, userID)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "failed to upload avatar")
		return
	}
	metadata.Size = header.Size

	if err := h.userService.SetAvatarKey(userID, metadata.S3Key); err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "failed to save avatar key")
		return
	}

	url, err := h.avatarService.AvatarURL(r.Context(), metadata.S3Key, time.Hour)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "failed to generate avatar URL")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, avatarResponse{
		Metadata: metadata,
		URL:      url,
	})
}
