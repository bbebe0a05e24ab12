package services

import (
	"math"

	"github.com/chekline/backend/internal/models"
)

// ProductInput is one line item of a check being created.
type ProductInput struct {
	Name     string  `json:"name" validate:"required" example:"Pen"`
	Price    float64 `json:"price" validate:"required,gt=0" example:"2.00"`
	Quantity float64 `json:"quantity" validate:"required,gt=0" example:"3"`
}

// PaymentInput is the tendered payment of a check being created.
type PaymentInput struct {
	Type   string  `json:"type" validate:"required,oneof=cash cashless" example:"cash"`
	Amount float64 `json:"amount" validate:"required,gt=0" example:"10.00"`
}

// ComputedCheck holds the results of the check arithmetic before persistence.
type ComputedCheck struct {
	Products []models.CheckProduct
	Total    float64
	Rest     float64
}

// RoundMoney rounds to 2 decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeCheck calculates line totals, the check total and the change due.
// It returns ErrPaymentInsufficient when the payment does not cover the
// total; input positivity is the validation layer's job, not this one's.
func ComputeCheck(products []ProductInput, payment PaymentInput) (*ComputedCheck, error) {
	computed := &ComputedCheck{
		Products: make([]models.CheckProduct, 0, len(products)),
	}

	sum := 0.0
	for _, p := range products {
		lineTotal := RoundMoney(p.Price * p.Quantity)
		computed.Products = append(computed.Products, models.CheckProduct{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Total:    lineTotal,
		})
		sum += lineTotal
	}

	computed.Total = RoundMoney(sum)
	computed.Rest = RoundMoney(payment.Amount - computed.Total)
	if computed.Rest < 0 {
		return nil, ErrPaymentInsufficient
	}

	return computed, nil
}
