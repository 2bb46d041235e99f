package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description"`
	PriceCents  int64        `gorm:"not null" json:"price_cents"`
	Stock       int          `gorm:"not null;default:0" json:"stock"`
	Active      bool         `gorm:"default:true" json:"active"`
	Image       string       `json:"image"`
	Categories  []Category   `gorm:"many2many:product_categories" json:"categories,omitempty"`
	Collections []Collection `gorm:"many2many:collection_products" json:"collections,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Image    string    `json:"image"`
	Products []Product `gorm:"many2many:product_categories" json:"products,omitempty"`
}

type Collection struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"unique;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description"`
	Products    []Product `gorm:"many2many:collection_products" json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
