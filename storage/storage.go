package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/archivar1/Hack-ITMO-2025/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("storage: record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (product name or user chat id). Uniqueness is enforced
	// by the store itself, never by a check before the insert.
	ErrDuplicate = errors.New("storage: duplicate record")
)

// Store is the persistence boundary for users, the product catalog and the
// alert feed. Two implementations exist: Gorm (Postgres) and Memory.
// The variant is chosen at composition time.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByChatID(ctx context.Context, chatID string) (*models.User, error)
	CreateUser(ctx context.Context, chatID string, currentProductID uuid.UUID) (*models.User, error)
	UpdateUserCurrentProduct(ctx context.Context, userID, productID uuid.UUID) error

	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	ProductExists(ctx context.Context, name string) (bool, error)
	CreateProduct(ctx context.Context, name string, calories int) (*models.Product, error)

	CreateAlert(ctx context.Context, alert *models.Alert) error
	RecentAlerts(ctx context.Context, chatID string, limit int) ([]models.Alert, error)
}
