package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/archivar1/Hack-ITMO-2025/models"
)

// Memory is the in-memory Store variant: keyed maps behind one mutex.
// Used in tests and in mock mode.
type Memory struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*models.User
	usersByChat map[string]uuid.UUID
	products    map[uuid.UUID]*models.Product
	byName      map[string]uuid.UUID
	alerts      []models.Alert
	nextAlertID uint
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:       make(map[uuid.UUID]*models.User),
		usersByChat: make(map[string]uuid.UUID),
		products:    make(map[uuid.UUID]*models.Product),
		byName:      make(map[string]uuid.UUID),
	}
}

// NewSeededMemory returns an in-memory store pre-populated with the default
// product so EnsureUser works out of the box.
func NewSeededMemory(seedName string, seedCalories int) *Memory {
	m := NewMemory()
	p := &models.Product{ID: uuid.New(), Name: seedName, Calories: seedCalories}
	m.products[p.ID] = p
	m.byName[p.Name] = p.ID
	return m
}

func (m *Memory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *Memory) GetUserByChatID(ctx context.Context, chatID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.usersByChat[chatID]
	if !ok {
		return nil, ErrNotFound
	}
	u := *m.users[id]
	return &u, nil
}

func (m *Memory) CreateUser(ctx context.Context, chatID string, currentProductID uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.usersByChat[chatID]; ok {
		return nil, ErrDuplicate
	}
	user := &models.User{ID: uuid.New(), ChatID: chatID, CurrentProductID: currentProductID}
	m.users[user.ID] = user
	m.usersByChat[chatID] = user.ID
	u := *user
	return &u, nil
}

func (m *Memory) UpdateUserCurrentProduct(ctx context.Context, userID, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.CurrentProductID = productID
	return nil
}

func (m *Memory) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := *product
	return &p, nil
}

func (m *Memory) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	p := *m.products[id]
	return &p, nil
}

func (m *Memory) ProductExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byName[name]
	return ok, nil
}

// CreateProduct checks and inserts under one lock, so two concurrent
// callers cannot both create the same name.
func (m *Memory) CreateProduct(ctx context.Context, name string, calories int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[name]; ok {
		return nil, ErrDuplicate
	}
	product := &models.Product{ID: uuid.New(), Name: name, Calories: calories}
	m.products[product.ID] = product
	m.byName[name] = product.ID
	p := *product
	return &p, nil
}

// ProductCount reports the catalog size. Test helper.
func (m *Memory) ProductCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products)
}

func (m *Memory) CreateAlert(ctx context.Context, alert *models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAlertID++
	alert.ID = m.nextAlertID
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	m.alerts = append(m.alerts, *alert)
	return nil
}

func (m *Memory) RecentAlerts(ctx context.Context, chatID string, limit int) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Alert, 0, limit)
	for i := len(m.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		if m.alerts[i].ChatID == chatID {
			out = append(out, m.alerts[i])
		}
	}
	return out, nil
}
