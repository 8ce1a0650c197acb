package models

// Product is a catalog entry. DiscountedPrice is always derived from
// UnitPrice and DiscountPercentage at read time and is never persisted.
type Product struct {
	BaseModel
	Slug               string     `gorm:"uniqueIndex" json:"slug"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Model              string     `json:"model"`
	SerialNumber       string     `json:"serial_number"`
	Distributor        string     `json:"distributor"`
	WarrantyMonths     int        `json:"warranty_months"`
	UnitPrice          float64    `json:"unit_price"`
	DiscountPercentage float64    `json:"discount_percentage"`
	Stock              int        `json:"stock"`
	ShowProduct        bool       `gorm:"default:true" json:"show_product"`
	RatingAverage      float64    `json:"rating_average"`
	RatingCount        int        `json:"rating_count"`
	Categories         []Category `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	Reviews            []Review   `json:"reviews,omitempty"`
}

// DiscountedPrice computes the effective price after discount.
func (p *Product) DiscountedPrice() float64 {
	return DiscountedPrice(p.UnitPrice, p.DiscountPercentage)
}

// DiscountedPrice applies a percentage discount to a unit price.
func DiscountedPrice(unitPrice, discountPercentage float64) float64 {
	return unitPrice * (1 - discountPercentage/100)
}
