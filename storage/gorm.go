package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/archivar1/Hack-ITMO-2025/config"
	"github.com/archivar1/Hack-ITMO-2025/models"
)

// Gorm is the persistent Store variant backed by a relational database.
type Gorm struct {
	db *gorm.DB
}

// Open connects to Postgres with the given settings, runs migrations and
// returns the store.
func Open(cfg config.DatabaseConfig) (*Gorm, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGorm(db)
}

// NewGorm wraps an existing gorm connection. The connection must be opened
// with TranslateError so uniqueness violations surface as ErrDuplicatedKey.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Alert{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate failed: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (s *Gorm) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) GetUserByChatID(ctx context.Context, chatID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "chat_id = ?", chatID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) CreateUser(ctx context.Context, chatID string, currentProductID uuid.UUID) (*models.User, error) {
	user := models.User{ChatID: chatID, CurrentProductID: currentProductID}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) UpdateUserCurrentProduct(ctx context.Context, userID, productID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("current_product_id", productID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Gorm) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, "name = ?", name).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Gorm) ProductExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// CreateProduct inserts a new catalog entry. The unique index on the name
// column makes the insert the only existence check; a violation is
// reported as ErrDuplicate.
func (s *Gorm) CreateProduct(ctx context.Context, name string, calories int) (*models.Product, error) {
	product := models.Product{Name: name, Calories: calories}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Gorm) CreateAlert(ctx context.Context, alert *models.Alert) error {
	return translate(s.db.WithContext(ctx).Create(alert).Error)
}

func (s *Gorm) RecentAlerts(ctx context.Context, chatID string, limit int) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, translate(err)
	}
	return alerts, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
