package domain

import (
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var ErrInvalidAddress = errors.New("invalid shipping address")

type ShippingAddress struct {
	FullName string `bson:"full_name" json:"full_name"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	ZipCode  string `bson:"zip_code" json:"zip_code"`
	Phone    string `bson:"phone" json:"phone"`
}

// Validate checks the fields the checkout form marks as required.
// Email is optional on the address itself.
func (a ShippingAddress) Validate() error {
	required := []struct {
		name, value string
	}{
		{"full_name", a.FullName},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"zip_code", a.ZipCode},
		{"phone", a.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s", ErrInvalidAddress, f.name)
		}
	}
	return nil
}

type Order struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	UserID          string          `bson:"user_id" json:"user_id"`
	Items           []LineItem      `bson:"items" json:"items"`
	Total           float64         `bson:"total" json:"total"`
	Status          OrderStatus     `bson:"status" json:"status"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shipping_address"`
	PaymentMethod   string          `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
}
