package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/fulfillment"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrItemsUnpacked rejects completion while any line item is unpacked.
	// The board UI disables the control; this is the backstop for callers
	// that bypass it.
	ErrItemsUnpacked = errors.New("order has unpacked items")

	ErrInvalidStatusChange = errors.New("invalid status change")
)

// FulfillmentService drives the admin packing board: toggling per-item
// packed flags, advancing order status, and completing fully packed orders
// into the durable archive.
type FulfillmentService interface {
	ActiveOrders(ctx context.Context) ([]*domain.Order, error)
	ToggleItemPacked(ctx context.Context, orderID, itemID uuid.UUID) (*domain.Order, error)
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (*domain.CompletedOrder, error)
	CompletedOrders(ctx context.Context) ([]*domain.CompletedOrder, error)
}

type fulfillmentService struct {
	orderRepo repository.OrderRepository
}

// NewFulfillmentService creates a new instance of FulfillmentService
func NewFulfillmentService(orderRepo repository.OrderRepository) FulfillmentService {
	return &fulfillmentService{orderRepo: orderRepo}
}

// ActiveOrders lists the orders still awaiting packing.
func (s *fulfillmentService) ActiveOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active orders: %w", err)
	}
	return orders, nil
}

// ToggleItemPacked flips the packed flag of one line item and returns the
// refreshed order. The flip is written first; the caller's view only changes
// after the store confirms it.
func (s *fulfillmentService) ToggleItemPacked(ctx context.Context, orderID, itemID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var current *domain.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			current = &order.Items[i]
			break
		}
	}
	if current == nil {
		return nil, repository.ErrOrderItemNotFound
	}

	if err := s.orderRepo.SetItemPacked(ctx, orderID, itemID, !current.Packed); err != nil {
		return nil, err
	}
	current.Packed = !current.Packed

	return order, nil
}

// AdvanceStatus moves an active order from pending to processing. Archival,
// not a status write, is how orders leave the board.
func (s *fulfillmentService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if status != domain.OrderStatusProcessing {
		return ErrInvalidStatusChange
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPending {
		return ErrInvalidStatusChange
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}

// CompleteOrder archives a fully packed order and removes it from the active
// board in one transaction.
func (s *fulfillmentService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*domain.CompletedOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !fulfillment.AllPacked(order) {
		return nil, ErrItemsUnpacked
	}

	completed := &domain.CompletedOrder{
		ID:          uuid.New(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		ItemSummary: summarizeItems(order.Items),
		Total:       order.Total,
		OrderedAt:   order.CreatedAt,
		CompletedAt: time.Now(),
	}

	if err := s.orderRepo.Archive(ctx, completed); err != nil {
		return nil, fmt.Errorf("failed to archive order: %w", err)
	}

	return completed, nil
}

// CompletedOrders lists the archived order log.
func (s *fulfillmentService) CompletedOrders(ctx context.Context) ([]*domain.CompletedOrder, error) {
	completed, err := s.orderRepo.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed orders: %w", err)
	}
	return completed, nil
}

// summarizeItems renders "Name x2, Other x1" for the archive row.
func summarizeItems(items []domain.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.ProductName, item.Quantity))
	}
	return strings.Join(parts, ", ")
}
