package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/cart"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/repository"

	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cannot check out an empty cart")

// OrderService turns carts into persisted orders and reads order history.
type OrderService interface {
	// Checkout snapshots the cart's line prices into a pending order,
	// persists it atomically with its items, and clears the cart only after
	// the write succeeds.
	Checkout(ctx context.Context, userID uuid.UUID, c *cart.Cart) (*domain.Order, error)
	GetOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, c *cart.Cart) (*domain.Order, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	// The total comes from the same snapshot as the items. Reading the cart
	// again here could see a concurrent add and persist a total the items
	// don't sum to.
	for _, line := range lines {
		order.Total += line.Product.Price * float64(line.Quantity)
		order.Items = append(order.Items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			Packed:      false,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Only a confirmed write empties the cart.
	c.Clear()

	return order, nil
}

func (s *orderService) GetOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
