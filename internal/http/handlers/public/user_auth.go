package public

import (
	"time"

	"github.com/homeclean-next/internal/http/response"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UserProfile 用户资料响应
type UserProfile struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Phone       string     `json:"phone"`
	Locale      string     `json:"locale"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// AuthResponse 注册与登录响应
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserProfile `json:"user"`
}

func toUserProfile(user *models.User) UserProfile {
	return UserProfile{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Phone:       user.Phone,
		Locale:      user.Locale,
		Status:      user.Status,
		LastLoginAt: user.LastLoginAt,
	}
}

func toAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toUserProfile(result.User),
	}
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.KindBadRequest, "error.bad_request", nil)
		return
	}

	result, err := h.UserAuthService.Register(service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Locale:      i18n.ResolveLocale(c),
	})
	if err != nil {
		respondAuthError(c, err, "error.register_failed")
		return
	}
	response.Created(c, toAuthResponse(result))
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.KindBadRequest, "error.bad_request", nil)
		return
	}

	result, err := h.UserAuthService.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		respondAuthError(c, err, "error.login_failed")
		return
	}
	response.Success(c, toAuthResponse(result))
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondAuthError(c, err, "error.user_fetch_failed")
		return
	}
	response.Success(c, toUserProfile(user))
}
