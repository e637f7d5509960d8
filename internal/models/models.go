package models

import (
	"time"
)

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

const OrderStatusPending = "PENDING"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

// Cart is created lazily on first access, one per user.
type Cart struct {
	ID     uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint       `gorm:"uniqueIndex;not null"     json:"userId"`
	Items  []CartItem `gorm:"foreignKey:CartID"        json:"items"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"                      json:"id"`
	CartID    uint `gorm:"not null;uniqueIndex:idx_cart_product"         json:"cartId"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_product"         json:"productId"`
	Quantity  uint `gorm:"not null;default:1;check:quantity>0"           json:"quantity"`
}

// Order is immutable once created; Total and the item prices are
// snapshotted at creation time.
type Order struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    string      `gorm:"uniqueIndex;not null"     json:"number"`
	UserID    uint        `gorm:"index;not null"           json:"userId"`
	Total     float64     `gorm:"not null"                 json:"total"`
	Status    string      `gorm:"not null"                 json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

type OrderItem struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         uint    `gorm:"index;not null"           json:"orderId"`
	ProductID       uint    `gorm:"not null"                 json:"productId"`
	Quantity        uint    `gorm:"not null"                 json:"quantity"`
	PriceAtPurchase float64 `gorm:"not null"                 json:"priceAtPurchase"`
}
