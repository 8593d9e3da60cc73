package domain

import "time"

// LineItem is a product reference plus quantity. Display fields are
// denormalized from the product at add-time so the cart renders without
// a catalog round trip.
type LineItem struct {
	ProductID   int64   `bson:"product_id" json:"product_id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	Category    string  `bson:"category" json:"category"`
	Image       string  `bson:"image" json:"image"`
	InStock     bool    `bson:"in_stock" json:"in_stock"`
	Quantity    int     `bson:"quantity" json:"quantity"`
}

func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		InStock:     p.InStock,
		Quantity:    quantity,
	}
}

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []LineItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}
