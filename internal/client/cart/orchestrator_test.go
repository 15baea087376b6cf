package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/homeclean-next/internal/client/alert"
	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/client/catalog"
	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/client/session"
	"github.com/homeclean-next/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	o      *Orchestrator
	remote *fakeRemote
	store  *failingStore
	clock  *testClock
	alerts *alert.Recorder
}

func newHarness(authenticated bool, items ...models.CartItem) *harness {
	return newHarnessWithAuth(authFlag(authenticated), items...)
}

func newHarnessWithAuth(auth AuthChecker, items ...models.CartItem) *harness {
	clock := &testClock{at: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)}
	mem := localstore.NewMemoryStore()
	mem.SetClock(clock.Now)
	store := &failingStore{MemoryStore: mem}
	remote := newFakeRemote(items...)
	alerts := &alert.Recorder{}
	o := New(Options{
		Remote:  remote,
		Auth:    auth,
		Store:   store,
		Alerter: alerts,
		Locale:  "en",
	})
	return &harness{o: o, remote: remote, store: store, clock: clock, alerts: alerts}
}

func lastAlert(t *testing.T, h *harness) alert.Entry {
	t.Helper()
	entry, ok := h.alerts.Last()
	require.True(t, ok, "expected an alert")
	return entry
}

func TestInitialState(t *testing.T) {
	h := newHarness(true)
	assert.Equal(t, StateUninitialized, h.o.State())
	assert.False(t, h.o.Loading())
	assert.Empty(t, h.o.Items())
	assert.Equal(t, 0, h.o.Summary().TotalItems)
	assert.Equal(t, "0.00", h.o.Summary().TotalPrice.String())
}

func TestAddToCartDuplicateMakesNoNetworkCall(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))
	before := h.remote.total()

	err := h.o.AddToCart(ctx, models.Service{ID: 10, Title: "Regular home clean", BasePrice: models.MustMoney("89.99")}, nil, nil)

	assert.ErrorIs(t, err, ErrAlreadyInCart)
	assert.Equal(t, before, h.remote.total())
	assert.Len(t, h.o.Items(), 1)
	assert.Equal(t, 1, h.o.Summary().TotalItems)
	assert.Equal(t, "This service is already in your cart", lastAlert(t, h).Message)
}

func TestAddToCartRequiresAuthentication(t *testing.T) {
	h := newHarness(false)

	err := h.o.AddToCart(context.Background(), models.Service{ID: 10}, nil, nil)

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, h.remote.total())
	assert.Equal(t, "Please sign in to add services to your cart", lastAlert(t, h).Message)
}

func TestAddToCartReconcilesWithServer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))

	price := models.MustMoney("45.99")
	require.NoError(t, h.o.AddToCart(ctx, models.Service{ID: 20, Title: "Windows", BasePrice: models.MustMoney("40")}, &price, models.JSON{"measurement": "18"}))

	assert.Equal(t, 1, h.remote.count("add"))
	assert.Equal(t, 2, h.remote.count("list"))
	items := h.o.Items()
	require.Len(t, items, 2)
	for _, line := range items {
		assert.Equal(t, LineCommitted, line.Status)
		assert.NotZero(t, line.ID)
	}
	assert.True(t, h.o.IsServiceInCart(20))
	assert.Equal(t, "135.98", h.o.Summary().TotalPrice.String())
	assert.Equal(t, StateReady, h.o.State())
}

func TestAddToCartRollsBackOnServerRejection(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))

	err := h.o.AddToCart(ctx, models.Service{ID: 10, Title: "Regular home clean", BasePrice: models.MustMoney("89.99")}, nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apiclient.ErrConflict))
	assert.Empty(t, h.o.Items())
	assert.False(t, h.o.IsServiceInCart(10))
	assert.Equal(t, "0.00", h.o.Summary().TotalPrice.String())
	assert.Equal(t, "This service is already in your cart", lastAlert(t, h).Message)
	assert.Equal(t, 0, h.remote.count("list"))
}

// blockingRemote 让加购请求停在半途，观察 pending 行
type blockingRemote struct {
	*fakeRemote
	started chan struct{}
	release chan struct{}
}

func (b *blockingRemote) AddCartItem(ctx context.Context, req apiclient.AddCartItemRequest) (*models.CartItem, error) {
	b.started <- struct{}{}
	<-b.release
	return b.fakeRemote.AddCartItem(ctx, req)
}

func TestPendingLineBlocksRapidSecondAdd(t *testing.T) {
	ctx := context.Background()
	inner := newFakeRemote()
	remote := &blockingRemote{fakeRemote: inner, started: make(chan struct{}), release: make(chan struct{})}
	alerts := &alert.Recorder{}
	o := New(Options{Remote: remote, Auth: authFlag(true), Alerter: alerts})
	svc := models.Service{ID: 30, Title: "Deep clean", BasePrice: models.MustMoney("150")}

	done := make(chan error, 1)
	go func() { done <- o.AddToCart(ctx, svc, nil, nil) }()
	<-remote.started

	assert.True(t, o.Loading())
	assert.Equal(t, StateLoading, o.State())
	items := o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, LinePending, items[0].Status)
	assert.True(t, o.IsServiceInCart(30))

	assert.ErrorIs(t, o.AddToCart(ctx, svc, nil, nil), ErrAlreadyInCart)

	close(remote.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, inner.count("add"))
	items = o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, LineCommitted, items[0].Status)
	assert.False(t, o.Loading())
}

func TestIsServiceInCartReflectsLastRefresh(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, false))
	assert.True(t, h.o.IsServiceInCart(10))
	assert.False(t, h.o.IsServiceInCart(20))

	h.remote.mu.Lock()
	h.remote.items = append(h.remote.items, cartItem(2, 20, "45.99", 1))
	h.remote.mu.Unlock()

	h.clock.Advance(2 * time.Minute)
	require.NoError(t, h.o.Refresh(ctx, false))
	assert.False(t, h.o.IsServiceInCart(20), "fresh cache still wins inside the window")

	h.clock.Advance(4 * time.Minute)
	require.NoError(t, h.o.Refresh(ctx, false))
	assert.True(t, h.o.IsServiceInCart(20), "stale cache is never used")
}

func TestRefreshWithinTTLFetchesAtMostOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))

	require.NoError(t, h.o.Refresh(ctx, false))
	h.clock.Advance(time.Minute)
	require.NoError(t, h.o.Refresh(ctx, false))

	assert.Equal(t, 1, h.remote.count("list"))
	assert.Equal(t, 1, h.remote.count("summary"))
	assert.Len(t, h.o.Items(), 1)
}

func TestForcedRefreshFetchesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, false))

	require.NoError(t, h.o.Refresh(ctx, true))

	assert.Equal(t, 2, h.remote.count("list"))
	assert.Equal(t, 2, h.remote.count("summary"))
}

func TestRefreshFailureFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 2))
	require.NoError(t, h.o.Refresh(ctx, true))
	require.Len(t, h.o.Items(), 1)

	h.remote.failOn("summary", errInjected)
	err := h.o.Refresh(ctx, true)

	assert.ErrorIs(t, err, errInjected)
	assert.Empty(t, h.o.Items())
	assert.Equal(t, 0, h.o.Summary().TotalItems)
	assert.Equal(t, "0.00", h.o.Summary().TotalPrice.String())
	assert.Equal(t, StateEmpty, h.o.State())
	assert.Equal(t, "Failed to load cart", lastAlert(t, h).Message)
}

func TestRefreshIgnoresCorruptCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.store.Put(ctx, CacheKey, []byte("not json")))

	require.NoError(t, h.o.Refresh(ctx, false))
	assert.Equal(t, 1, h.remote.count("list"))
	assert.Len(t, h.o.Items(), 1)
}

func TestRemoveThenForcedRefreshDropsItem(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1), cartItem(2, 20, "45.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))

	require.NoError(t, h.o.RemoveFromCart(ctx, 1))
	require.NoError(t, h.o.Refresh(ctx, true))

	items := h.o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].ID)
	assert.False(t, h.o.IsServiceInCart(10))
	assert.Equal(t, "45.99", h.o.Summary().TotalPrice.String())
}

func TestRemoveRestoresLineOnFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1), cartItem(2, 20, "45.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))
	h.remote.failOn("remove", &apiclient.APIError{Status: 500, Kind: "internal", Message: "Failed to update cart"})

	err := h.o.RemoveFromCart(ctx, 1)

	require.Error(t, err)
	items := h.o.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, "135.98", h.o.Summary().TotalPrice.String())
	assert.Equal(t, 1, h.remote.count("list"), "no reconcile after failure")
}

func TestRemoveUnknownItem(t *testing.T) {
	h := newHarness(true)
	assert.ErrorIs(t, h.o.RemoveFromCart(context.Background(), 42), ErrItemNotFound)
	assert.Equal(t, 0, h.remote.total())
}

func TestUpdateQuantityToZeroEmptiesCart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "150", 1))
	require.NoError(t, h.o.Refresh(ctx, true))
	require.Equal(t, "150.00", h.o.Summary().TotalPrice.String())

	require.NoError(t, h.o.UpdateQuantity(ctx, 1, 0))

	assert.Equal(t, 1, h.remote.count("remove"))
	assert.Equal(t, 0, h.remote.count("update"))
	assert.Empty(t, h.o.Items())
	assert.Equal(t, 0, h.o.Summary().TotalItems)
	assert.Equal(t, "0.00", h.o.Summary().TotalPrice.String())
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "45.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))

	require.NoError(t, h.o.UpdateQuantity(ctx, 1, 3))

	items := h.o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, h.o.Summary().TotalItems)
	assert.Equal(t, "137.97", h.o.Summary().TotalPrice.String())
}

func TestUpdateQuantityRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "45.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))
	h.remote.failOn("update", errInjected)

	err := h.o.UpdateQuantity(ctx, 1, 4)

	assert.ErrorIs(t, err, errInjected)
	items := h.o.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, LineCommitted, items[0].Status)
	assert.Equal(t, 1, h.o.Summary().TotalItems)
	assert.Equal(t, "45.99", h.o.Summary().TotalPrice.String())
	assert.Equal(t, "Failed to update cart", lastAlert(t, h).Message)
}

func TestClearCartZeroesStateEvenWhenPurgeFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1), cartItem(2, 20, "45.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))
	h.store.invalidateErr = errors.New("disk full")

	require.NoError(t, h.o.ClearCart(ctx))

	assert.Equal(t, []Line{}, h.o.Items())
	assert.Equal(t, 0, h.o.Summary().TotalItems)
	assert.Equal(t, "0.00", h.o.Summary().TotalPrice.String())
	assert.Equal(t, StateEmpty, h.o.State())
	assert.Equal(t, 1, h.remote.count("clear"))
}

func TestClearCartPurgesCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))

	require.NoError(t, h.o.ClearCart(ctx))

	_, _, ok, err := h.store.Get(ctx, CacheKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearCartRestoresOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))
	h.remote.failOn("clear", errInjected)

	err := h.o.ClearCart(ctx)

	assert.ErrorIs(t, err, errInjected)
	assert.Len(t, h.o.Items(), 1)
	assert.Equal(t, "89.99", h.o.Summary().TotalPrice.String())
	assert.Equal(t, StateReady, h.o.State())
	assert.Equal(t, "Failed to clear cart", lastAlert(t, h).Message)
}

func TestSignOutResetsStateAndInvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, true))
	require.NoError(t, h.store.Put(ctx, catalog.CacheKey, []byte("[]")))

	h.o.OnAuthChange(ctx, session.SignedOut)

	assert.Empty(t, h.o.Items())
	assert.Equal(t, StateEmpty, h.o.State())
	for _, key := range []string{CacheKey, catalog.CacheKey} {
		_, _, ok, err := h.store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

type stubAuthenticator struct{}

func (stubAuthenticator) Login(context.Context, apiclient.LoginRequest) (*apiclient.AuthResult, error) {
	return &apiclient.AuthResult{Token: "t", ExpiresAt: time.Now().Add(time.Hour), User: apiclient.UserProfile{ID: 1}}, nil
}

func (stubAuthenticator) Register(context.Context, apiclient.RegisterRequest) (*apiclient.AuthResult, error) {
	return nil, errors.New("not used")
}

func TestBindFollowsSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	sess := session.New(session.Options{Store: store, Auth: stubAuthenticator{}})
	remote := newFakeRemote(cartItem(1, 10, "89.99", 1))
	o := New(Options{Remote: remote, Auth: sess, Store: store})
	unbind := o.Bind(sess)
	defer unbind()

	_, err := sess.SignIn(ctx, "ana@example.com", "secret123", false)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.count("list"))
	assert.Equal(t, StateReady, o.State())
	assert.True(t, o.IsServiceInCart(10))

	require.NoError(t, sess.SignOut(ctx))
	assert.Empty(t, o.Items())
	assert.Equal(t, StateEmpty, o.State())
	assert.ErrorIs(t, o.AddToCart(ctx, models.Service{ID: 10}, nil, nil), ErrNotAuthenticated)
}

func cacheHas(t *testing.T, h *harness) bool {
	t.Helper()
	_, _, ok, err := h.store.Get(context.Background(), CacheKey)
	require.NoError(t, err)
	return ok
}

func TestForcedRefreshFailureDropsCachedSnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, false))
	require.True(t, cacheHas(t, h))

	h.remote.items = append(h.remote.items, cartItem(2, 20, "45.99", 1))
	h.remote.failOn("summary", errInjected)
	require.ErrorIs(t, h.o.Refresh(ctx, true), errInjected)
	assert.Empty(t, h.o.Items())
	assert.False(t, cacheHas(t, h))

	h.remote.failOn("summary", nil)
	require.NoError(t, h.o.Refresh(ctx, false))
	assert.Equal(t, 3, h.remote.count("list"))
	assert.Len(t, h.o.Items(), 2)
	assert.True(t, h.o.IsServiceInCart(20))
}

func TestForcedRefreshBypassesFreshCacheEvenWhenServerChanged(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, false))

	h.remote.items = nil
	require.NoError(t, h.o.Refresh(ctx, true))
	assert.False(t, h.o.IsServiceInCart(10))

	require.NoError(t, h.o.Refresh(ctx, false))
	assert.Equal(t, 2, h.remote.count("list"))
	assert.Empty(t, h.o.Items())
}

func TestAddWithFailedReconcileDoesNotServeStaleCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, false))

	h.remote.failOn("summary", errInjected)
	require.NoError(t, h.o.AddToCart(ctx, models.Service{ID: 20, Title: "Windows", BasePrice: models.MustMoney("45.99")}, nil, nil))
	assert.Equal(t, 1, h.remote.count("add"))
	assert.Empty(t, h.o.Items())
	assert.Equal(t, StateEmpty, h.o.State())
	assert.Equal(t, "Failed to load cart", lastAlert(t, h).Message)
	assert.False(t, cacheHas(t, h))

	h.remote.failOn("summary", nil)
	require.NoError(t, h.o.Refresh(ctx, false))
	assert.True(t, h.o.IsServiceInCart(20))

	err := h.o.AddToCart(ctx, models.Service{ID: 20, Title: "Windows"}, nil, nil)
	assert.ErrorIs(t, err, ErrAlreadyInCart)
	assert.Equal(t, 1, h.remote.count("add"))
}

func TestFailedMutationsLeaveNoCachedSnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(true, cartItem(1, 10, "89.99", 2))

	cases := []struct {
		name   string
		remote string
		run    func() error
	}{
		{"remove", "remove", func() error { return h.o.RemoveFromCart(ctx, 1) }},
		{"update", "update", func() error { return h.o.UpdateQuantity(ctx, 1, 3) }},
		{"clear", "clear", func() error { return h.o.ClearCart(ctx) }},
		{"add", "add", func() error { return h.o.AddToCart(ctx, models.Service{ID: 30, Title: "Oven"}, nil, nil) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, h.o.Refresh(ctx, true))
			require.True(t, cacheHas(t, h))
			h.remote.failOn(tc.remote, errInjected)
			defer h.remote.failOn(tc.remote, nil)

			require.ErrorIs(t, tc.run(), errInjected)
			assert.False(t, cacheHas(t, h))
			assert.True(t, h.o.IsServiceInCart(10))
		})
	}
}

// switchableUser 可切换当前用户的登录态
type switchableUser struct {
	id uint
}

func (u *switchableUser) IsAuthenticated() bool { return u.id != 0 }
func (u *switchableUser) UserID() uint          { return u.id }

func TestCachedSnapshotIsScopedToUser(t *testing.T) {
	ctx := context.Background()
	user := &switchableUser{id: 7}
	h := newHarnessWithAuth(user, cartItem(1, 10, "89.99", 1))
	require.NoError(t, h.o.Refresh(ctx, false))
	require.True(t, cacheHas(t, h))

	user.id = 8
	h.remote.items = nil
	require.NoError(t, h.o.Refresh(ctx, false))

	assert.Equal(t, 2, h.remote.count("list"))
	assert.Empty(t, h.o.Items())
	assert.False(t, h.o.IsServiceInCart(10))
}

func TestExpiredSessionRestorePurgesPreviousUsersCart(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	expiredToken := []byte(`{"token":"old","expires_at":"2020-01-01T00:00:00Z","user":{"id":7}}`)
	require.NoError(t, store.Put(ctx, session.TokenKey, expiredToken))
	require.NoError(t, store.Put(ctx, CacheKey, []byte(`{"user_id":7,"items":[{"id":1,"service_id":10,"quantity":1,"price":"89.99"}],"summary":{"total_items":1,"total_price":"89.99"}}`)))

	sess := session.New(session.Options{Store: store, Auth: stubAuthenticator{}})
	remote := newFakeRemote()
	o := New(Options{Remote: remote, Auth: sess, Store: store})
	unbind := o.Bind(sess)
	defer unbind()

	restored, err := sess.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	_, _, ok, err := store.Get(ctx, CacheKey)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = sess.SignIn(ctx, "bo@example.com", "secret123", false)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.count("list"))
	assert.Empty(t, o.Items())
	assert.False(t, o.IsServiceInCart(10))
}
