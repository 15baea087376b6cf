// Package session 客户端登录态：token 持久化在本地缓存，变更时通知订阅方
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/homeclean-next/internal/client/alert"
	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/logger"
)

// TokenKey 本地缓存中的 token key
const TokenKey = "auth_token"

// ErrInvalidCredentials 邮箱或密码为空
var ErrInvalidCredentials = errors.New("session: email and password required")

// Event 登录态变更
type Event int

const (
	SignedIn Event = iota + 1
	SignedOut
)

func (e Event) String() string {
	switch e {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Listener 登录态变更回调，同步执行
type Listener func(ctx context.Context, event Event)

// Authenticator 登录与注册接口
type Authenticator interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResult, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResult, error)
}

type storedToken struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expires_at"`
	User      apiclient.UserProfile `json:"user"`
}

// Session 当前登录态
type Session struct {
	store   localstore.Store
	auth    Authenticator
	alerter alert.Alerter
	locale  string
	now     func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	user      *apiclient.UserProfile

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

// Options 登录态参数
type Options struct {
	Store   localstore.Store
	Auth    Authenticator
	Alerter alert.Alerter
	Locale  string
}

// New 创建登录态
func New(opts Options) *Session {
	store := opts.Store
	if store == nil {
		store = localstore.NewMemoryStore()
	}
	alerter := opts.Alerter
	if alerter == nil {
		alerter = alert.Nop
	}
	return &Session{
		store:     store,
		auth:      opts.Auth,
		alerter:   alerter,
		locale:    i18n.NormalizeLocale(opts.Locale),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// Token 实现 apiclient.TokenSource，未登录时为空
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expiredLocked() {
		return ""
	}
	return s.token
}

// IsAuthenticated 是否已登录
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// User 当前用户，未登录时为 nil
func (s *Session) User() *apiclient.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// UserID 当前用户 ID，未登录或 token 过期时为 0
func (s *Session) UserID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.token == "" || s.expiredLocked() {
		return 0
	}
	return s.user.ID
}

func (s *Session) expiredLocked() bool {
	return !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt)
}

// OnChange 订阅登录态变更，返回取消订阅函数
func (s *Session) OnChange(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.listenerMu.Unlock()
	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *Session) notify(ctx context.Context, event Event) {
	s.listenerMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.listenerMu.Unlock()
	for _, l := range listeners {
		l(ctx, event)
	}
}

// SignIn 登录并持久化 token
func (s *Session) SignIn(ctx context.Context, email, password string, remember bool) (*apiclient.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.alerter.Alert(i18n.T(s.locale, "alert.title.error"), i18n.T(s.locale, "alert.sign_in_failed"))
		return nil, ErrInvalidCredentials
	}
	result, err := s.auth.Login(ctx, apiclient.LoginRequest{Email: email, Password: password, RememberMe: remember})
	if err != nil {
		logger.Warnw("session_sign_in_failed", "email", email, "error", err)
		s.alerter.Alert(i18n.T(s.locale, "alert.title.error"), apiclient.UserMessage(err, i18n.T(s.locale, "alert.sign_in_failed")))
		return nil, err
	}
	return s.establish(ctx, result)
}

// Register 注册并直接登录
func (s *Session) Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.UserProfile, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		s.alerter.Alert(i18n.T(s.locale, "alert.title.error"), i18n.T(s.locale, "alert.sign_in_failed"))
		return nil, ErrInvalidCredentials
	}
	result, err := s.auth.Register(ctx, req)
	if err != nil {
		logger.Warnw("session_register_failed", "email", req.Email, "error", err)
		s.alerter.Alert(i18n.T(s.locale, "alert.title.error"), apiclient.UserMessage(err, i18n.T(s.locale, "alert.sign_in_failed")))
		return nil, err
	}
	return s.establish(ctx, result)
}

func (s *Session) establish(ctx context.Context, result *apiclient.AuthResult) (*apiclient.UserProfile, error) {
	stored := storedToken{Token: result.Token, ExpiresAt: result.ExpiresAt, User: result.User}
	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, TokenKey, payload); err != nil {
		logger.Warnw("session_token_persist_failed", "error", err)
	}
	s.apply(stored)
	logger.Infow("session_signed_in", "user_id", result.User.ID)
	s.notify(ctx, SignedIn)
	return s.User(), nil
}

func (s *Session) apply(stored storedToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = stored.Token
	s.expiresAt = stored.ExpiresAt
	user := stored.User
	s.user = &user
}

// SignOut 退出登录，删除本地 token
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.expiresAt = time.Time{}
	s.user = nil
	s.mu.Unlock()

	err := s.store.Invalidate(ctx, TokenKey)
	if err != nil {
		logger.Warnw("session_token_purge_failed", "error", err)
	}
	if wasAuthenticated {
		logger.Infow("session_signed_out")
	}
	s.notify(ctx, SignedOut)
	return err
}

// Restore 从本地缓存恢复登录态
// token 过期或损坏时清除并按退出登录通知，订阅方借此删除上一位用户的缓存
func (s *Session) Restore(ctx context.Context) (bool, error) {
	payload, _, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	var stored storedToken
	if err := json.Unmarshal(payload, &stored); err != nil || strings.TrimSpace(stored.Token) == "" {
		logger.Warnw("session_token_corrupt", "error", err)
		s.discard(ctx)
		return false, nil
	}
	if !stored.ExpiresAt.IsZero() && !s.now().Before(stored.ExpiresAt) {
		logger.Infow("session_token_expired", "user_id", stored.User.ID)
		s.discard(ctx)
		return false, nil
	}
	s.apply(stored)
	s.notify(ctx, SignedIn)
	return true, nil
}

func (s *Session) discard(ctx context.Context) {
	if err := s.store.Invalidate(ctx, TokenKey); err != nil {
		logger.Warnw("session_token_purge_failed", "error", err)
	}
	s.notify(ctx, SignedOut)
}
