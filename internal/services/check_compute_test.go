package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCheck(t *testing.T) {
	t.Run("single product with change", func(t *testing.T) {
		products := []ProductInput{
			{Name: "Pen", Price: 2.00, Quantity: 3},
		}
		payment := PaymentInput{Type: "cash", Amount: 10.00}

		computed, err := ComputeCheck(products, payment)
		assert.NoError(t, err)
		assert.Len(t, computed.Products, 1)
		assert.Equal(t, 6.00, computed.Products[0].Total)
		assert.Equal(t, 6.00, computed.Total)
		assert.Equal(t, 4.00, computed.Rest)
	})

	t.Run("multiple products sum per-line totals", func(t *testing.T) {
		products := []ProductInput{
			{Name: "Pen", Price: 2.00, Quantity: 3},
			{Name: "Notebook", Price: 15.50, Quantity: 2},
		}
		payment := PaymentInput{Type: "cashless", Amount: 40.00}

		computed, err := ComputeCheck(products, payment)
		assert.NoError(t, err)
		assert.Equal(t, 6.00, computed.Products[0].Total)
		assert.Equal(t, 31.00, computed.Products[1].Total)
		assert.Equal(t, 37.00, computed.Total)
		assert.Equal(t, 3.00, computed.Rest)
	})

	t.Run("fractional quantity", func(t *testing.T) {
		products := []ProductInput{
			{Name: "Cheese", Price: 180.00, Quantity: 0.35},
		}
		payment := PaymentInput{Type: "cash", Amount: 100.00}

		computed, err := ComputeCheck(products, payment)
		assert.NoError(t, err)
		assert.Equal(t, 63.00, computed.Products[0].Total)
		assert.Equal(t, 37.00, computed.Rest)
	})

	t.Run("line totals rounded before summing", func(t *testing.T) {
		// 3 x 0.335 = 1.005 per line, rounds to 1.01; two lines make 2.02,
		// not round(2.01) of the unrounded sum.
		products := []ProductInput{
			{Name: "Bag", Price: 0.335, Quantity: 3},
			{Name: "Bag", Price: 0.335, Quantity: 3},
		}
		payment := PaymentInput{Type: "cash", Amount: 5.00}

		computed, err := ComputeCheck(products, payment)
		assert.NoError(t, err)
		assert.Equal(t, 1.01, computed.Products[0].Total)
		assert.Equal(t, 2.02, computed.Total)
		assert.Equal(t, 2.98, computed.Rest)
	})

	t.Run("exact payment leaves zero change", func(t *testing.T) {
		products := []ProductInput{
			{Name: "Book", Price: 15.00, Quantity: 1},
		}
		payment := PaymentInput{Type: "cashless", Amount: 15.00}

		computed, err := ComputeCheck(products, payment)
		assert.NoError(t, err)
		assert.Equal(t, 0.00, computed.Rest)
	})

	t.Run("insufficient payment", func(t *testing.T) {
		products := []ProductInput{
			{Name: "Book", Price: 15.00, Quantity: 1},
		}
		payment := PaymentInput{Type: "cash", Amount: 10.00}

		computed, err := ComputeCheck(products, payment)
		assert.ErrorIs(t, err, ErrPaymentInsufficient)
		assert.Nil(t, computed)
	})

	t.Run("payment short by a cent", func(t *testing.T) {
		products := []ProductInput{
			{Name: "Book", Price: 15.00, Quantity: 1},
		}
		payment := PaymentInput{Type: "cash", Amount: 14.99}

		_, err := ComputeCheck(products, payment)
		assert.ErrorIs(t, err, ErrPaymentInsufficient)
	})
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 2.01, RoundMoney(2.005))
	assert.Equal(t, 2.00, RoundMoney(2.004))
	assert.Equal(t, -2.01, RoundMoney(-2.005))
	assert.Equal(t, 0.00, RoundMoney(0))
	assert.Equal(t, 1234.57, RoundMoney(1234.5678))
}
