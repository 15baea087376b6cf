// Package cart 客户端购物车编排：内存状态、本地缓存与服务端同步
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/homeclean-next/internal/client/alert"
	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/client/catalog"
	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/client/session"
	"github.com/homeclean-next/internal/i18n"
	"github.com/homeclean-next/internal/logger"
	"github.com/homeclean-next/internal/models"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// CacheKey 购物车快照缓存 key
const CacheKey = "cart_snapshot"

var (
	ErrNotAuthenticated = errors.New("cart: not authenticated")
	ErrAlreadyInCart    = errors.New("cart: service already in cart")
	ErrItemNotFound     = errors.New("cart: item not found")
)

// Remote 购物车远端接口
type Remote interface {
	ListCartItems(ctx context.Context) ([]models.CartItem, error)
	GetCartSummary(ctx context.Context) (*apiclient.CartSummary, error)
	AddCartItem(ctx context.Context, req apiclient.AddCartItemRequest) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, id uint, req apiclient.UpdateCartItemRequest) (*models.CartItem, error)
	RemoveCartItem(ctx context.Context, id uint) error
	ClearCart(ctx context.Context) error
}

// AuthChecker 登录态查询
type AuthChecker interface {
	IsAuthenticated() bool
}

// userIdentifier 可选：提供当前用户 ID 时缓存按用户隔离
type userIdentifier interface {
	UserID() uint
}

// Options 编排器参数
type Options struct {
	Remote  Remote
	Auth    AuthChecker
	Store   localstore.Store
	TTL     time.Duration
	Alerter alert.Alerter
	Locale  string
}

// Orchestrator 购物车状态的唯一修改入口
// 锁只保护内存状态，变更之间不串行；重复加购由 pending 行拦截，服务端唯一索引兜底
type Orchestrator struct {
	remote  Remote
	auth    AuthChecker
	store   localstore.Store
	ttl     time.Duration
	alerter alert.Alerter
	locale  string
	group   singleflight.Group

	mu       sync.RWMutex
	lines    []Line
	summary  apiclient.CartSummary
	state    State
	inflight int
}

// New 创建编排器
func New(opts Options) *Orchestrator {
	store := opts.Store
	if store == nil {
		store = localstore.NewMemoryStore()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = localstore.DefaultTTL
	}
	alerter := opts.Alerter
	if alerter == nil {
		alerter = alert.Nop
	}
	return &Orchestrator{
		remote:  opts.Remote,
		auth:    opts.Auth,
		store:   store,
		ttl:     ttl,
		alerter: alerter,
		locale:  i18n.NormalizeLocale(opts.Locale),
		lines:   []Line{},
		summary: emptySummary(),
		state:   StateUninitialized,
	}
}

// Items 当前购物车行副本
func (o *Orchestrator) Items() []Line {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Summary 当前汇总
func (o *Orchestrator) Summary() apiclient.CartSummary {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.summary
}

// State 当前生命周期状态，有请求进行中时为 loading
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.inflight > 0 {
		return StateLoading
	}
	return o.state
}

// Loading 是否有请求进行中，仅供界面禁用按钮
func (o *Orchestrator) Loading() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.inflight > 0
}

// IsServiceInCart 只查内存中的行，包括等待确认的行
func (o *Orchestrator) IsServiceInCart(serviceID uint) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.hasServiceLocked(serviceID)
}

func (o *Orchestrator) hasServiceLocked(serviceID uint) bool {
	for _, line := range o.lines {
		if line.ServiceID == serviceID {
			return true
		}
	}
	return false
}

func (o *Orchestrator) currentUserID() uint {
	if id, ok := o.auth.(userIdentifier); ok {
		return id.UserID()
	}
	return 0
}

// dropCache 删除快照，失败只记录
func (o *Orchestrator) dropCache(ctx context.Context, reason string) {
	if err := o.store.Invalidate(ctx, CacheKey); err != nil {
		logger.Warnw("cart_cache_purge_failed", "reason", reason, "error", err)
	}
}

func (o *Orchestrator) begin() {
	o.mu.Lock()
	o.inflight++
	o.mu.Unlock()
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	if o.inflight > 0 {
		o.inflight--
	}
	o.mu.Unlock()
}

func (o *Orchestrator) alertError(err error, fallbackKey string) {
	o.alerter.Alert(i18n.T(o.locale, "alert.title.error"), apiclient.UserMessage(err, i18n.T(o.locale, fallbackKey)))
}

func (o *Orchestrator) alertNotice(key string) {
	o.alerter.Alert(i18n.T(o.locale, "alert.title.notice"), i18n.T(o.locale, key))
}

// Refresh 同步购物车
// force 为 false 且缓存新鲜时只读缓存；否则先删除缓存，再并发拉取列表与汇总并写回
// 拉取失败时状态置空、缓存保持删除并返回错误
func (o *Orchestrator) Refresh(ctx context.Context, force bool) error {
	if !force {
		if snap, ok := o.readCache(ctx); ok {
			o.replace(snap)
			return nil
		}
	} else {
		o.dropCache(ctx, "force_refresh")
	}
	_, err, _ := o.group.Do(CacheKey, func() (interface{}, error) {
		return nil, o.fetch(ctx)
	})
	return err
}

func (o *Orchestrator) fetch(ctx context.Context) error {
	o.begin()
	defer o.end()

	var (
		items   []models.CartItem
		summary *apiclient.CartSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = o.remote.ListCartItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = o.remote.GetCartSummary(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warnw("cart_refresh_failed", "error", err)
		o.dropCache(ctx, "refresh_failed")
		o.reset()
		o.alertError(err, "alert.cart_load_failed")
		return err
	}

	snap := snapshot{UserID: o.currentUserID(), Items: items, Summary: emptySummary()}
	if snap.Items == nil {
		snap.Items = []models.CartItem{}
	}
	if summary != nil {
		snap.Summary = *summary
	}
	o.replace(snap)
	o.writeCache(ctx, snap)
	return nil
}

func (o *Orchestrator) readCache(ctx context.Context) (snapshot, bool) {
	payload, age, ok, err := o.store.Get(ctx, CacheKey)
	if err != nil {
		logger.Warnw("cart_cache_read_failed", "error", err)
		return snapshot{}, false
	}
	if !ok || !localstore.Fresh(age, o.ttl) {
		return snapshot{}, false
	}
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		logger.Warnw("cart_cache_decode_failed", "error", err)
		return snapshot{}, false
	}
	if current := o.currentUserID(); snap.UserID != current {
		logger.Debugw("cart_cache_owner_mismatch", "cached_user_id", snap.UserID, "user_id", current)
		return snapshot{}, false
	}
	if snap.Items == nil {
		snap.Items = []models.CartItem{}
	}
	return snap, true
}

func (o *Orchestrator) writeCache(ctx context.Context, snap snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		logger.Warnw("cart_cache_encode_failed", "error", err)
		return
	}
	if err := o.store.Put(ctx, CacheKey, payload); err != nil {
		logger.Warnw("cart_cache_write_failed", "error", err)
	}
}

func (o *Orchestrator) replace(snap snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = committedLines(snap.Items)
	o.summary = snap.Summary
	o.state = StateReady
}

func (o *Orchestrator) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = []Line{}
	o.summary = emptySummary()
	o.state = StateEmpty
}

// reconcile 变更成功后强制刷新
// 刷新失败时购物车置空并提示，缓存已在变更前删除，下次读取必然走网络
func (o *Orchestrator) reconcile(ctx context.Context) {
	if err := o.Refresh(ctx, true); err != nil {
		logger.Debugw("cart_reconcile_failed", "error", err)
	}
}

// AddToCart 加入购物车
// 未登录或服务已在购物车中时直接提示并返回，不发请求
func (o *Orchestrator) AddToCart(ctx context.Context, service models.Service, calculatedPrice *models.Money, userInputs models.JSON) error {
	return o.add(ctx, addRequest{
		serviceID:       service.ID,
		title:           service.Title,
		price:           service.BasePrice,
		durationMinutes: service.DurationMinutes,
		calculatedPrice: calculatedPrice,
		userInputs:      userInputs,
	})
}

// AddQuote 按本地报价加入购物车，携带规格
func (o *Orchestrator) AddQuote(ctx context.Context, quote catalog.Quote) error {
	return o.add(ctx, addRequest{
		serviceID:       quote.Service.ID,
		variantID:       quote.VariantID,
		title:           quote.Title,
		price:           quote.Price,
		durationMinutes: quote.DurationMinutes,
		calculatedPrice: quote.CalculatedPrice,
		userInputs:      quote.UserInputs,
	})
}

type addRequest struct {
	serviceID       uint
	variantID       *uint
	title           string
	price           models.Money
	durationMinutes int
	calculatedPrice *models.Money
	userInputs      models.JSON
}

func (o *Orchestrator) add(ctx context.Context, req addRequest) error {
	if o.auth == nil || !o.auth.IsAuthenticated() {
		o.alertNotice("alert.login_required")
		return ErrNotAuthenticated
	}
	if req.userInputs == nil {
		req.userInputs = models.JSON{}
	}
	placeholder := Line{
		CartItem: models.CartItem{
			ServiceID:       req.serviceID,
			VariantID:       req.variantID,
			Title:           req.title,
			Price:           req.price,
			DurationMinutes: req.durationMinutes,
			Quantity:        1,
			CalculatedPrice: req.calculatedPrice,
			UserInputs:      req.userInputs,
		},
		Status: LinePending,
	}

	o.mu.Lock()
	if o.hasServiceLocked(req.serviceID) {
		o.mu.Unlock()
		o.alertNotice("alert.already_in_cart")
		return ErrAlreadyInCart
	}
	o.lines = append(o.lines, placeholder)
	o.summary = adjustSummary(o.summary, placeholder.UnitAmount(), placeholder.Quantity)
	o.state = StateReady
	o.inflight++
	o.mu.Unlock()

	o.dropCache(ctx, "add")
	_, err := o.remote.AddCartItem(ctx, apiclient.AddCartItemRequest{
		ServiceID:       req.serviceID,
		VariantID:       req.variantID,
		Quantity:        placeholder.Quantity,
		CalculatedPrice: req.calculatedPrice,
		UserInputs:      req.userInputs,
	})
	o.end()
	if err != nil {
		o.rollbackAdd(placeholder)
		logger.Warnw("cart_add_failed", "service_id", req.serviceID, "error", err)
		o.alertError(err, "alert.cart_add_failed")
		return err
	}
	o.reconcile(ctx)
	return nil
}

func (o *Orchestrator) rollbackAdd(placeholder Line) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, line := range o.lines {
		if line.Status == LinePending && line.ID == 0 && line.ServiceID == placeholder.ServiceID {
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			o.summary = adjustSummary(o.summary, placeholder.UnitAmount(), -placeholder.Quantity)
			return
		}
	}
}

// RemoveFromCart 删除购物车项：本地先移除，失败时放回原位
func (o *Orchestrator) RemoveFromCart(ctx context.Context, itemID uint) error {
	o.mu.Lock()
	idx := o.indexLocked(itemID)
	if idx < 0 {
		o.mu.Unlock()
		o.alertNotice("alert.cart_remove_failed")
		return ErrItemNotFound
	}
	removed := o.lines[idx]
	o.lines = append(o.lines[:idx:idx], o.lines[idx+1:]...)
	o.summary = adjustSummary(o.summary, removed.UnitAmount(), -removed.Quantity)
	o.inflight++
	o.mu.Unlock()

	o.dropCache(ctx, "remove")
	err := o.remote.RemoveCartItem(ctx, itemID)
	o.end()
	if err != nil {
		o.restoreLine(idx, removed)
		logger.Warnw("cart_remove_failed", "item_id", itemID, "error", err)
		o.alertError(err, "alert.cart_remove_failed")
		return err
	}
	o.reconcile(ctx)
	return nil
}

func (o *Orchestrator) restoreLine(idx int, line Line) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.indexLocked(line.ID) >= 0 {
		return
	}
	if idx > len(o.lines) {
		idx = len(o.lines)
	}
	o.lines = append(o.lines[:idx], append([]Line{line}, o.lines[idx:]...)...)
	o.summary = adjustSummary(o.summary, line.UnitAmount(), line.Quantity)
}

// UpdateQuantity 修改数量，qty < 1 等同于删除
func (o *Orchestrator) UpdateQuantity(ctx context.Context, itemID uint, qty int) error {
	if qty < 1 {
		return o.RemoveFromCart(ctx, itemID)
	}

	o.mu.Lock()
	idx := o.indexLocked(itemID)
	if idx < 0 {
		o.mu.Unlock()
		o.alertNotice("alert.cart_update_failed")
		return ErrItemNotFound
	}
	previous := o.lines[idx]
	delta := qty - previous.Quantity
	o.lines[idx].Quantity = qty
	o.lines[idx].Status = LinePending
	o.summary = adjustSummary(o.summary, previous.UnitAmount(), delta)
	o.inflight++
	o.mu.Unlock()

	o.dropCache(ctx, "update")
	_, err := o.remote.UpdateCartItem(ctx, itemID, apiclient.UpdateCartItemRequest{Quantity: &qty})
	o.end()
	if err != nil {
		o.mu.Lock()
		if i := o.indexLocked(itemID); i >= 0 {
			o.lines[i] = previous
			o.summary = adjustSummary(o.summary, previous.UnitAmount(), -delta)
		}
		o.mu.Unlock()
		logger.Warnw("cart_update_failed", "item_id", itemID, "quantity", qty, "error", err)
		o.alertError(err, "alert.cart_update_failed")
		return err
	}
	o.reconcile(ctx)
	return nil
}

func (o *Orchestrator) indexLocked(itemID uint) int {
	if itemID == 0 {
		return -1
	}
	for i, line := range o.lines {
		if line.ID == itemID {
			return i
		}
	}
	return -1
}

// ClearCart 清空购物车：本地先置空，远端失败时恢复
// 缓存清理失败只记录日志
func (o *Orchestrator) ClearCart(ctx context.Context) error {
	o.mu.Lock()
	prevLines, prevSummary, prevState := o.lines, o.summary, o.state
	o.lines = []Line{}
	o.summary = emptySummary()
	o.state = StateEmpty
	o.mu.Unlock()

	o.dropCache(ctx, "clear")
	if err := o.remote.ClearCart(ctx); err != nil {
		o.mu.Lock()
		if len(o.lines) == 0 {
			o.lines, o.summary, o.state = prevLines, prevSummary, prevState
		}
		o.mu.Unlock()
		logger.Warnw("cart_clear_failed", "error", err)
		o.alertError(err, "alert.cart_clear_failed")
		return err
	}
	return nil
}

// OnAuthChange 登录后读取购物车，退出后清空内存并删除缓存
func (o *Orchestrator) OnAuthChange(ctx context.Context, event session.Event) {
	switch event {
	case session.SignedIn:
		if err := o.Refresh(ctx, false); err != nil {
			logger.Warnw("cart_sign_in_refresh_failed", "error", err)
		}
	case session.SignedOut:
		o.reset()
		if err := o.store.Invalidate(ctx, CacheKey, catalog.CacheKey); err != nil {
			logger.Warnw("cart_cache_purge_failed", "error", err)
		}
	}
}

// Bind 订阅登录态变更，返回取消订阅函数
func (o *Orchestrator) Bind(s *session.Session) func() {
	return s.OnChange(o.OnAuthChange)
}
