package service

import (
	"errors"
	"time"

	"github.com/homeclean-next/internal/constants"
	"github.com/homeclean-next/internal/models"
	"github.com/homeclean-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 客户端提交的计算价与服务端重算结果允许的误差
var calculatedPriceTolerance = decimal.RequireFromString("0.01")

// CartSummary 购物车汇总
type CartSummary struct {
	TotalItems int          `json:"total_items"`
	TotalPrice models.Money `json:"total_price"`
}

// AddCartItemInput 加入购物车参数
type AddCartItemInput struct {
	UserID          uint
	ServiceID       uint
	VariantID       *uint
	Quantity        int
	CalculatedPrice *models.Money
	UserInputs      models.JSON
}

// UpdateCartItemInput 更新购物车项参数，nil 字段保持不变
type UpdateCartItemInput struct {
	UserID     uint
	ItemID     uint
	Quantity   *int
	UserInputs models.JSON
}

// CartService 购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	catalog  *CatalogService
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, catalog *CatalogService) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
	}
}

// ListByUser 获取用户购物车
func (s *CartService) ListByUser(userID uint) ([]models.CartItem, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Summary 购物车汇总：件数为数量之和，金额为各行 (计算价 ?? 单价) × 数量 之和
func (s *CartService) Summary(userID uint) (*CartSummary, error) {
	items, err := s.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return SummarizeCart(items), nil
}

// SummarizeCart 计算汇总
func SummarizeCart(items []models.CartItem) *CartSummary {
	summary := &CartSummary{TotalPrice: models.NewMoneyFromDecimal(decimal.Zero)}
	for _, item := range items {
		summary.TotalItems += item.Quantity
		summary.TotalPrice = summary.TotalPrice.Add(item.LineTotal())
	}
	return summary
}

// AddItem 加入购物车
// 同一服务只能加入一次，已存在时返回 ErrCartItemExists，不做合并
func (s *CartService) AddItem(input AddCartItemInput) (*models.CartItem, error) {
	if input.UserID == 0 || input.ServiceID == 0 {
		return nil, ErrInvalidInput
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > constants.CartMaxQuantity {
		return nil, ErrCartQuantityInvalid
	}

	existing, err := s.cartRepo.FindByUserAndService(input.UserID, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCartItemExists
	}

	quote, err := s.catalog.QuoteFor(input.ServiceID, input.VariantID, input.UserInputs)
	if err != nil {
		return nil, err
	}
	if err := checkClientCalculatedPrice(input.CalculatedPrice, quote.CalculatedPrice); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:          input.UserID,
		ServiceID:       input.ServiceID,
		VariantID:       input.VariantID,
		Title:           quote.Title,
		Price:           quote.Price,
		DurationMinutes: quote.DurationMinutes,
		Quantity:        quantity,
		CalculatedPrice: quote.CalculatedPrice,
		UserInputs:      normalizeUserInputs(input.UserInputs),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.cartRepo.Create(item); err != nil {
		// 并发加入同一服务时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCartItemExists
		}
		return nil, err
	}
	return item, nil
}

// UpdateItem 更新数量或用户输入，用户输入变化时重新计价
func (s *CartService) UpdateItem(input UpdateCartItemInput) (*models.CartItem, error) {
	if input.UserID == 0 || input.ItemID == 0 {
		return nil, ErrInvalidInput
	}
	item, err := s.cartRepo.GetByID(input.UserID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	if input.Quantity != nil {
		if *input.Quantity < 1 || *input.Quantity > constants.CartMaxQuantity {
			return nil, ErrCartQuantityInvalid
		}
		item.Quantity = *input.Quantity
	}
	if input.UserInputs != nil {
		quote, err := s.catalog.QuoteFor(item.ServiceID, item.VariantID, input.UserInputs)
		if err != nil {
			return nil, err
		}
		item.UserInputs = normalizeUserInputs(input.UserInputs)
		item.CalculatedPrice = quote.CalculatedPrice
	}
	item.UpdatedAt = time.Now()
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, itemID uint) error {
	if userID == 0 || itemID == 0 {
		return ErrInvalidInput
	}
	deleted, err := s.cartRepo.DeleteByID(userID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	return s.cartRepo.ClearByUser(userID)
}

func checkClientCalculatedPrice(client, server *models.Money) error {
	if client == nil || server == nil {
		return nil
	}
	if client.Decimal.Sub(server.Decimal).Abs().GreaterThan(calculatedPriceTolerance) {
		return ErrCartPriceMismatch
	}
	return nil
}

func normalizeUserInputs(inputs models.JSON) models.JSON {
	if inputs == nil {
		return models.JSON{}
	}
	return inputs
}
