package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/homeclean-next/internal/client/apiclient"
	"github.com/homeclean-next/internal/client/localstore"
	"github.com/homeclean-next/internal/models"

	"github.com/shopspring/decimal"
)

var errInjected = errors.New("injected failure")

// fakeRemote 内存版购物车服务端，统计每个接口的调用次数
type fakeRemote struct {
	mu     sync.Mutex
	items  []models.CartItem
	nextID uint
	calls  map[string]int
	fail   map[string]error
}

func newFakeRemote(items ...models.CartItem) *fakeRemote {
	r := &fakeRemote{calls: map[string]int{}, fail: map[string]error{}, nextID: 100}
	r.items = append(r.items, items...)
	return r
}

func (r *fakeRemote) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[name]++
	return r.fail[name]
}

func (r *fakeRemote) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func (r *fakeRemote) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

func (r *fakeRemote) failOn(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, name)
		return
	}
	r.fail[name] = err
}

func (r *fakeRemote) ListCartItems(context.Context) ([]models.CartItem, error) {
	if err := r.record("list"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.CartItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *fakeRemote) GetCartSummary(context.Context) (*apiclient.CartSummary, error) {
	if err := r.record("summary"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := emptySummary()
	for _, item := range r.items {
		summary = adjustSummary(summary, item.UnitAmount(), item.Quantity)
	}
	return &summary, nil
}

func (r *fakeRemote) AddCartItem(_ context.Context, req apiclient.AddCartItemRequest) (*models.CartItem, error) {
	if err := r.record("add"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ServiceID == req.ServiceID {
			return nil, &apiclient.APIError{Status: 409, Kind: "conflict", Message: "This service is already in your cart"}
		}
	}
	r.nextID++
	item := models.CartItem{
		ID:              r.nextID,
		ServiceID:       req.ServiceID,
		Title:           "service",
		Price:           models.MustMoney("50"),
		Quantity:        req.Quantity,
		CalculatedPrice: req.CalculatedPrice,
		UserInputs:      req.UserInputs,
	}
	r.items = append(r.items, item)
	return &item, nil
}

func (r *fakeRemote) UpdateCartItem(_ context.Context, id uint, req apiclient.UpdateCartItemRequest) (*models.CartItem, error) {
	if err := r.record("update"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			if req.Quantity != nil {
				r.items[i].Quantity = *req.Quantity
			}
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, &apiclient.APIError{Status: 404, Kind: "not_found", Message: "Cart item not found"}
}

func (r *fakeRemote) RemoveCartItem(_ context.Context, id uint) error {
	if err := r.record("remove"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return &apiclient.APIError{Status: 404, Kind: "not_found", Message: "Cart item not found"}
}

func (r *fakeRemote) ClearCart(context.Context) error {
	if err := r.record("clear"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	return nil
}

type authFlag bool

func (a authFlag) IsAuthenticated() bool { return bool(a) }

// failingStore 包装 MemoryStore，可让 Invalidate 失败
type failingStore struct {
	*localstore.MemoryStore
	invalidateErr error
}

func (s *failingStore) Invalidate(ctx context.Context, keys ...string) error {
	if s.invalidateErr != nil {
		return s.invalidateErr
	}
	return s.MemoryStore.Invalidate(ctx, keys...)
}

type testClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

func cartItem(id, serviceID uint, price string, qty int) models.CartItem {
	return models.CartItem{
		ID:        id,
		ServiceID: serviceID,
		Title:     "item",
		Price:     models.MustMoney(price),
		Quantity:  qty,
	}
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }
