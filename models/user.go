package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID           string    `gorm:"uniqueIndex;not null" json:"chat_id"`
	CurrentProductID uuid.UUID `gorm:"type:uuid;not null" json:"current_product_id"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("User(id=%s, chat_id=%s, current_product_id=%s)", u.ID, u.ChatID, u.CurrentProductID)
}
