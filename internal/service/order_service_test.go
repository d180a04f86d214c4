package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/cart"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"
	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type mockOrderRepository struct {
	orders    map[uuid.UUID]*domain.Order
	completed []*domain.CompletedOrder

	failWith error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[uuid.UUID]*domain.Order),
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.failWith != nil {
		return m.failWith
	}
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	copied.Items = append([]domain.OrderItem(nil), order.Items...)
	return &copied, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) ListActive(ctx context.Context) ([]*domain.Order, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []*domain.Order
	for _, order := range m.orders {
		if order.Status == domain.OrderStatusPending || order.Status == domain.OrderStatusProcessing {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepository) SetItemPacked(ctx context.Context, orderID, itemID uuid.UUID, packed bool) error {
	if m.failWith != nil {
		return m.failWith
	}
	order, exists := m.orders[orderID]
	if !exists {
		return repository.ErrOrderNotFound
	}
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			order.Items[i].Packed = packed
			return nil
		}
	}
	return repository.ErrOrderItemNotFound
}

func (m *mockOrderRepository) Archive(ctx context.Context, completed *domain.CompletedOrder) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, exists := m.orders[completed.OrderID]; !exists {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, completed.OrderID)
	m.completed = append(m.completed, completed)
	return nil
}

func (m *mockOrderRepository) ListCompleted(ctx context.Context) ([]*domain.CompletedOrder, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.completed, nil
}

func cartWith(lines map[string]struct {
	price    float64
	quantity int
}) *cart.Cart {
	c := cart.New()
	for name, l := range lines {
		c.AddItem(domain.Product{ID: uuid.New(), Name: name, Price: l.price}, l.quantity)
	}
	return c
}

func TestProperty_CheckoutSnapshotsCartPrices(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("the persisted order mirrors the cart's lines and total", prop.ForAll(
		func(prices []float64, quantities []int) bool {
			n := len(prices)
			if len(quantities) < n {
				n = len(quantities)
			}
			if n == 0 {
				return true
			}

			c := cart.New()
			wantTotal := 0.0
			for i := 0; i < n; i++ {
				c.AddItem(domain.Product{ID: uuid.New(), Name: "Cut", Price: prices[i]}, quantities[i])
				wantTotal += prices[i] * float64(quantities[i])
			}

			orderRepo := newMockOrderRepository()
			service := NewOrderService(orderRepo)

			order, err := service.Checkout(context.Background(), uuid.New(), c)
			if err != nil {
				return false
			}

			if len(order.Items) != n {
				return false
			}
			if order.Status != domain.OrderStatusPending {
				return false
			}
			for _, item := range order.Items {
				if item.Packed {
					return false
				}
			}
			return math.Abs(order.Total-wantTotal) < 1e-9
		},
		gen.SliceOfN(5, gen.Float64Range(0.5, 100)),
		gen.SliceOfN(5, gen.IntRange(1, 10)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCheckout_ClearsCartOnlyAfterSuccess(t *testing.T) {
	c := cartWith(map[string]struct {
		price    float64
		quantity int
	}{
		"Ribeye Steak": {24.99, 2},
	})

	orderRepo := newMockOrderRepository()
	orderRepo.failWith = repository.ErrStoreUnavailable
	service := NewOrderService(orderRepo)
	ctx := context.Background()

	if _, err := service.Checkout(ctx, uuid.New(), c); !errors.Is(err, repository.ErrStoreUnavailable) {
		t.Fatalf("expected the write failure to surface, got %v", err)
	}
	if c.TotalItems() != 2 {
		t.Error("a failed checkout must leave the cart untouched")
	}

	orderRepo.failWith = nil
	if _, err := service.Checkout(ctx, uuid.New(), c); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if c.TotalItems() != 0 {
		t.Error("a confirmed checkout must empty the cart")
	}
}

func TestCheckout_TotalMatchesItemsUnderConcurrentAdds(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo)

	product := domain.Product{ID: uuid.New(), Name: "Sirloin Steak", Price: 10.00}
	userID := uuid.New()

	// Adds racing a checkout may or may not make the order, but the
	// persisted total must always equal the sum of the persisted items.
	for i := 0; i < 200; i++ {
		c := cart.New()
		c.AddItem(product, 1)

		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-done:
					return
				default:
					c.AddItem(product, 1)
				}
			}
		}()

		order, err := svc.Checkout(context.Background(), userID, c)
		close(done)
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}

		var sum float64
		for _, item := range order.Items {
			sum += item.Price * float64(item.Quantity)
		}
		if math.Abs(order.Total-sum) > 1e-9 {
			t.Fatalf("order total %.2f diverged from its items' sum %.2f", order.Total, sum)
		}
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	service := NewOrderService(newMockOrderRepository())

	_, err := service.Checkout(context.Background(), uuid.New(), cart.New())
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_SnapshotSurvivesLaterPriceChange(t *testing.T) {
	product := domain.Product{ID: uuid.New(), Name: "Lamb Chops", Price: 19.99}
	c := cart.New()
	c.AddItem(product, 3)

	orderRepo := newMockOrderRepository()
	service := NewOrderService(orderRepo)
	ctx := context.Background()

	order, err := service.Checkout(ctx, uuid.New(), c)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	stored, err := orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Items[0].Price != 19.99 || stored.Total != 59.97 {
		t.Errorf("order must keep the price at order time: price=%.2f total=%.2f",
			stored.Items[0].Price, stored.Total)
	}
	if stored.Items[0].ProductName != "Lamb Chops" {
		t.Errorf("order items must carry the product name, got %q", stored.Items[0].ProductName)
	}
}

func TestGetOrders_ReturnsOnlyOwnOrders(t *testing.T) {
	orderRepo := newMockOrderRepository()
	service := NewOrderService(orderRepo)
	ctx := context.Background()

	mine := uuid.New()
	theirs := uuid.New()

	for _, userID := range []uuid.UUID{mine, mine, theirs} {
		c := cart.New()
		c.AddItem(domain.Product{ID: uuid.New(), Name: "Ground Beef", Price: 7.5}, 1)
		if _, err := service.Checkout(ctx, userID, c); err != nil {
			t.Fatalf("checkout: %v", err)
		}
	}

	orders, err := service.GetOrders(ctx, mine)
	if err != nil {
		t.Fatalf("get orders: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders for the user, got %d", len(orders))
	}
	for _, order := range orders {
		if order.UserID != mine {
			t.Error("history must never contain another user's order")
		}
	}
}
