package models

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"uniqueIndex;not null"     json:"username"`
	Password string `gorm:"not null"                 json:"-"`
	Role     string `gorm:"not null"                 json:"role"`
}

type Product struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"not null"                 json:"name"`
	UnitPrice float64 `gorm:"not null"                 json:"unit_price"`
	Quantity  int     `gorm:"not null;default:0"       json:"quantity"`
}

// TotalValue is the stock value of a single product line.
func (p Product) TotalValue() float64 {
	return p.UnitPrice * float64(p.Quantity)
}

func (p Product) InStock() bool {
	return p.Quantity > 0
}
