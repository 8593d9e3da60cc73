package domain

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Featured    bool    `json:"featured"`
	InStock     bool    `json:"in_stock"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
