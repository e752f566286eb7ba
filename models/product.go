package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// A catalog entry. Custom and derived products share one namespace;
// Calories is kcal per 100 g/ml of the product.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	Calories int       `gorm:"not null" json:"calories"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
