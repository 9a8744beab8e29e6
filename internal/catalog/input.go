package catalog

import "github.com/Skotchmaster/stock_dashboard/internal/models"

// Upper bounds keep every quantity*price product and the catalog total finite.
const (
	MaxUnitPrice = 1e12
	MaxQuantity  = 1_000_000_000
)

// ProductInput is the editable subset of a product.
type ProductInput struct {
	Name      string  `json:"name"       form:"name"       validate:"required,min=2"`
	UnitPrice float64 `json:"unit_price" form:"unit_price" validate:"finite,min=1,max=1000000000000"`
	Quantity  int     `json:"quantity"   form:"quantity"   validate:"min=0,max=1000000000"`
}

func (ProductInput) ValidationMessages() map[string]string {
	return map[string]string{
		"name.required":     "Product name is required",
		"name.min":          "Product name must be at least 2 characters",
		"unit_price.finite": "Price must be a number",
		"unit_price.min":    "Price must be greater than 0",
		"unit_price.max":    "Price is too large",
		"quantity.min":      "Quantity cannot be negative",
		"quantity.max":      "Quantity is too large",
	}
}

func InputFromProduct(p models.Product) ProductInput {
	return ProductInput{Name: p.Name, UnitPrice: p.UnitPrice, Quantity: p.Quantity}
}
