package models

import "gorm.io/gorm"

type Alert struct {
	gorm.Model
	ChatID  string `gorm:"index;not null" json:"chat_id"`
	Type    string `json:"type"` // e.g. "product.changed", "estimate.computed"
	Message string `json:"message"`
}
