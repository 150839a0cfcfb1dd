package sales

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Sale represents one recorded transaction line.
type Sale struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Item      string    `json:"item" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
	Price     float64   `json:"price" validate:"gte=0"`
	IsPaid    bool      `json:"isPaid"`
	UserID    string    `json:"userId" validate:"required"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// Total is quantity times unit price.
func (s Sale) Total() float64 {
	return float64(s.Quantity) * s.Price
}

// SaleInput carries the caller-supplied fields of a new sale.
type SaleInput struct {
	Name          string
	Item          string
	Quantity      int
	Price         float64
	IsPaid        bool
	OwnerID       string
	OwnerUsername string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewSale builds a Sale from in and checks its field constraints.
func NewSale(id string, in SaleInput, ts time.Time) (Sale, error) {
	sale := Sale{
		ID:        id,
		Name:      in.Name,
		Item:      in.Item,
		Quantity:  in.Quantity,
		Price:     in.Price,
		IsPaid:    in.IsPaid,
		UserID:    in.OwnerID,
		Username:  in.OwnerUsername,
		Timestamp: ts,
	}
	if err := validate.Struct(sale); err != nil {
		return Sale{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return sale, nil
}
