package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"

	"github.com/google/uuid"
)

func clearOrders(t *testing.T) {
	t.Helper()
	for _, table := range []string{"order_items", "orders", "completed_orders"} {
		if _, err := testDB.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("cleanup %s: %v", table, err)
		}
	}
}

func newStoredOrder(t *testing.T, repo OrderRepository, userID uuid.UUID, itemCount int) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	for i := 0; i < itemCount; i++ {
		order.Items = append(order.Items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   uuid.New(),
			ProductName: "Lamb Shank",
			Quantity:    2,
			Price:       16.75,
		})
		order.Total += 2 * 16.75
	}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestOrderRepository_CreateAndFindWithItems(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	clearOrders(t)

	order := newStoredOrder(t, repo, uuid.New(), 3)

	retrieved, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if retrieved.UserID != order.UserID || retrieved.Status != domain.OrderStatusPending {
		t.Error("order header must round-trip")
	}
	if len(retrieved.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(retrieved.Items))
	}
	for _, item := range retrieved.Items {
		if item.OrderID != order.ID {
			t.Error("items must reference their order")
		}
		if item.Packed {
			t.Error("items start unpacked")
		}
		if item.Price != 16.75 || item.Quantity != 2 {
			t.Errorf("line snapshot must round-trip: price=%.2f quantity=%d", item.Price, item.Quantity)
		}
	}

	if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByUserNewestFirst(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	clearOrders(t)

	userID := uuid.New()

	first := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		Total:     10,
		CreatedAt: time.Now().Add(-time.Hour),
		Items: []domain.OrderItem{{
			ID: uuid.New(), OrderID: uuid.Nil, ProductID: uuid.New(),
			ProductName: "Pork Chops", Quantity: 1, Price: 10,
		}},
	}
	first.Items[0].OrderID = first.ID
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := newStoredOrder(t, repo, userID, 1)
	newStoredOrder(t, repo, uuid.New(), 1) // someone else's order

	orders, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Error("orders must come back newest first")
	}
	for _, order := range orders {
		if len(order.Items) != 1 {
			t.Errorf("order %s: expected its items attached, got %d", order.ID, len(order.Items))
		}
	}
}

func TestOrderRepository_PackedFlagPersists(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	clearOrders(t)

	order := newStoredOrder(t, repo, uuid.New(), 2)
	target := order.Items[0].ID

	if err := repo.SetItemPacked(ctx, order.ID, target, true); err != nil {
		t.Fatalf("set packed: %v", err)
	}

	retrieved, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	for _, item := range retrieved.Items {
		want := item.ID == target
		if item.Packed != want {
			t.Errorf("item %s: packed=%v, want %v", item.ID, item.Packed, want)
		}
	}

	if err := repo.SetItemPacked(ctx, order.ID, uuid.New(), true); !errors.Is(err, ErrOrderItemNotFound) {
		t.Errorf("expected ErrOrderItemNotFound, got %v", err)
	}
}

func TestOrderRepository_StatusUpdateAndActiveList(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	clearOrders(t)

	pending := newStoredOrder(t, repo, uuid.New(), 1)
	processing := newStoredOrder(t, repo, uuid.New(), 1)

	if err := repo.UpdateStatus(ctx, processing.ID, domain.OrderStatusProcessing); err != nil {
		t.Fatalf("update status: %v", err)
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected both orders active, got %d", len(active))
	}
	// Oldest first, so the board works top down.
	if active[0].ID != pending.ID {
		t.Error("active orders must come back oldest first")
	}

	if err := repo.UpdateStatus(ctx, uuid.New(), domain.OrderStatusProcessing); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ArchiveMovesOrderToCompletedLog(t *testing.T) {
	repo := NewOrderRepository(testDB)
	ctx := context.Background()
	clearOrders(t)

	order := newStoredOrder(t, repo, uuid.New(), 2)

	completed := &domain.CompletedOrder{
		ID:          uuid.New(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		ItemSummary: "Lamb Shank x2, Lamb Shank x2",
		Total:       order.Total,
		OrderedAt:   order.CreatedAt,
		CompletedAt: time.Now(),
	}
	if err := repo.Archive(ctx, completed); err != nil {
		t.Fatalf("archive: %v", err)
	}

	if _, err := repo.FindByID(ctx, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Error("an archived order must leave the orders table")
	}

	var itemCount int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM order_items WHERE order_id = $1", order.ID).Scan(&itemCount); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 0 {
		t.Errorf("archived order left %d items behind", itemCount)
	}

	log, err := repo.ListCompleted(ctx)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("expected 1 archive row, got %d", len(log))
	}
	if log[0].OrderID != order.ID || log[0].Total != order.Total {
		t.Error("the archive row must carry the order reference and total")
	}
	if log[0].ItemSummary == "" {
		t.Error("the archive row must carry an item summary")
	}
}
