package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
)

// In-memory collaborator fakes. They imitate the store contracts closely
// enough for the workflow semantics under test: owner filtering, the
// conditional stock decrement, newest-first ordering and the left-join
// behaviour of cart listings.

type fakeCatalog struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
	getErr   error

	decrementErr  error
	decrementMiss bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: make(map[uuid.UUID]*domain.Product)}
}

func (f *fakeCatalog) put(p domain.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.products[p.ID] = &cp
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.Product{}, f.getErr
	}

	p, ok := f.products[productID]
	if !ok || !p.IsActive {
		return domain.Product{}, domain.ErrNotFound
	}

	return *p, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var products []domain.Product
	for _, p := range f.products {
		if !p.IsActive {
			continue
		}
		if filter.Category != nil && (p.Category == nil || *p.Category != *filter.Category) {
			continue
		}
		products = append(products, *p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if int(filter.Offset) >= len(products) {
			return nil, nil
		}
		products = products[filter.Offset:]
	}

	if filter.Limit > 0 && int(filter.Limit) < len(products) {
		products = products[:filter.Limit]
	}

	return products, nil
}

func (f *fakeCatalog) CountProducts(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	products, err := f.ListProducts(ctx, domain.ProductFilter{Category: filter.Category})
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, productID uuid.UUID, quantity int32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.decrementErr != nil {
		return false, f.decrementErr
	}

	if f.decrementMiss {
		return false, nil
	}

	p, ok := f.products[productID]
	if !ok || p.StockQuantity < quantity {
		return false, nil
	}

	p.StockQuantity -= quantity

	return true, nil
}

func (f *fakeCatalog) stock(productID uuid.UUID) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[productID].StockQuantity
}

type fakeCartStore struct {
	mu      sync.Mutex
	catalog *fakeCatalog
	items   []*domain.CartItem
	clock   time.Time

	clearErr error
}

func newFakeCartStore(catalog *fakeCatalog) *fakeCartStore {
	return &fakeCartStore{catalog: catalog, clock: time.Now()}
}

func (f *fakeCartStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeCartStore) GetItem(_ context.Context, itemID uuid.UUID) (domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.items {
		if item.ID == itemID {
			return *item, nil
		}
	}

	return domain.CartItem{}, domain.ErrNotFound
}

func (f *fakeCartStore) FindItem(_ context.Context, ownerID string, productID uuid.UUID) (domain.CartItem, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.items {
		if item.OwnerID == ownerID && item.ProductID == productID {
			return *item, true, nil
		}
	}

	return domain.CartItem{}, false, nil
}

func (f *fakeCartStore) InsertItem(_ context.Context, ownerID string, productID uuid.UUID, quantity int32) (domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.tick()
	item := &domain.CartItem{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.items = append(f.items, item)

	return *item, nil
}

func (f *fakeCartStore) UpdateQuantity(_ context.Context, itemID uuid.UUID, quantity int32) (domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.items {
		if item.ID == itemID {
			item.Quantity = quantity
			item.UpdatedAt = f.tick()
			return *item, nil
		}
	}

	return domain.CartItem{}, domain.ErrNotFound
}

func (f *fakeCartStore) DeleteItem(_ context.Context, itemID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, item := range f.items {
		if item.ID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeCartStore) ListItems(_ context.Context, ownerID string) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []domain.CartItem
	for i := len(f.items) - 1; i >= 0; i-- {
		item := f.items[i]
		if item.OwnerID != ownerID {
			continue
		}

		cp := *item
		if p, ok := f.catalog.products[item.ProductID]; ok {
			product := *p
			cp.Product = &product
		}
		items = append(items, cp)
	}

	return items, nil
}

func (f *fakeCartStore) CountItems(ctx context.Context, ownerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			count++
		}
	}

	return count, nil
}

func (f *fakeCartStore) Clear(_ context.Context, ownerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.clearErr != nil {
		return 0, f.clearErr
	}

	var kept []*domain.CartItem
	var deleted int64
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			deleted++
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept

	return deleted, nil
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
	items  map[uuid.UUID][]domain.OrderItem
	seq    []uuid.UUID
	clock  time.Time

	insertItemsErr error
	deleteErr      error
	itemsErr       error

	deletedOrders []uuid.UUID
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[uuid.UUID]*domain.Order),
		items:  make(map[uuid.UUID][]domain.OrderItem),
		clock:  time.Now(),
	}
}

func (f *fakeOrderStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeOrderStore) InsertOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.tick()
	order.ID = uuid.New()
	order.CreatedAt = now
	order.UpdatedAt = now

	cp := order
	f.orders[order.ID] = &cp
	f.seq = append(f.seq, order.ID)

	return order, nil
}

func (f *fakeOrderStore) InsertOrderItems(_ context.Context, orderID uuid.UUID, items []domain.OrderItem) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertItemsErr != nil {
		return nil, f.insertItemsErr
	}

	inserted := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.New()
		item.OrderID = orderID
		item.CreatedAt = f.tick()
		inserted = append(inserted, item)
	}
	f.items[orderID] = inserted

	return inserted, nil
}

func (f *fakeOrderStore) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletedOrders = append(f.deletedOrders, orderID)

	if f.deleteErr != nil {
		return f.deleteErr
	}

	if _, ok := f.orders[orderID]; !ok {
		return domain.ErrNotFound
	}

	delete(f.orders, orderID)
	delete(f.items, orderID)

	return nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok || o.OwnerID != ownerID {
		return domain.Order{}, domain.ErrNotFound
	}

	return *o, nil
}

func (f *fakeOrderStore) GetOrderItems(_ context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.itemsErr != nil {
		return nil, f.itemsErr
	}

	return f.items[orderID], nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context, ownerID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var orders []domain.Order
	for i := len(f.seq) - 1; i >= 0; i-- {
		o, ok := f.orders[f.seq[i]]
		if !ok || o.OwnerID != ownerID {
			continue
		}
		orders = append(orders, *o)
	}

	return orders, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, ownerID string, orderID uuid.UUID, status domain.OrderStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.orders[orderID]
	if !ok || o.OwnerID != ownerID {
		return false, nil
	}

	o.Status = status
	o.UpdatedAt = f.tick()

	return true, nil
}

func (f *fakeOrderStore) status(orderID uuid.UUID) domain.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[orderID].Status
}

type fakeGateway struct {
	settlement domain.Settlement
	err        error

	lastRequest port.ConfirmRequest
}

func (f *fakeGateway) Confirm(_ context.Context, req port.ConfirmRequest) (domain.Settlement, error) {
	f.lastRequest = req

	if f.err != nil {
		return domain.Settlement{}, f.err
	}

	return f.settlement, nil
}
