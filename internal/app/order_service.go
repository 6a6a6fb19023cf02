package app

import (
	"errors"
	"math"
	"strings"

	"shopy/internal/model"
	"shopy/internal/repository"
)

// flatShippingTax mirrors the storefront's fixed tax-and-handling charge
// added to every order regardless of size.
const flatShippingTax = 15.00

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrProductUnordered = errors.New("order references unknown product")
)

type OrderService struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
}

type CheckoutItem struct {
	ProductID uint
	Quantity  int
}

type CheckoutInput struct {
	UserID        uint
	Items         []CheckoutItem
	PaymentMethod string
	PaymentRef    string
	ShippingName  string
	ShippingAddr  string
}

func NewOrderService(orderRepo *repository.OrderRepository, productRepo *repository.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// Checkout prices the cart against the current catalog, snapshots each line
// item, and persists the order as Processing. Payment capture happened on the
// client; we only record the method and provider reference.
func (s *OrderService) Checkout(input CheckoutInput) (*model.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		return nil, ErrInvalidInput
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.ProductID == 0 || line.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductUnordered
		}
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
	}

	subtotal, tax, total := computeTotals(items)
	order := &model.Order{
		UserID:        input.UserID,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Status:        model.OrderStatusProcessing,
		PaymentMethod: paymentMethod,
		PaymentRef:    strings.TrimSpace(input.PaymentRef),
		ShippingName:  strings.TrimSpace(input.ShippingName),
		ShippingAddr:  strings.TrimSpace(input.ShippingAddr),
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(userID uint) ([]model.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.orderRepo.ListByUserID(userID)
}

func (s *OrderService) GetUserOrder(userID, orderID uint) (*model.Order, error) {
	if userID == 0 || orderID == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByIDAndUserID(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListRecentOrders(limit int) ([]model.Order, error) {
	return s.orderRepo.ListRecent(limit)
}

// UpdateStatus moves an order through the fulfillment lifecycle. Any of the
// known statuses may be set directly; the admin UI is the only caller.
func (s *OrderService) UpdateStatus(orderID uint, status string) (*model.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	if !validOrderStatus(status) {
		return nil, ErrUnknownStatus
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

func validOrderStatus(status string) bool {
	switch status {
	case model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered:
		return true
	}
	return false
}

// computeTotals sums line items and applies the flat tax, rounding each
// figure to cents so float drift never reaches the stored order.
func computeTotals(items []model.OrderItem) (subtotal, tax, total float64) {
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	subtotal = roundCents(subtotal)
	tax = flatShippingTax
	total = roundCents(subtotal + tax)
	return subtotal, tax, total
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
