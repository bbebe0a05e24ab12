package models

import (
	"encoding/json"
	"time"
)

// Payment is the tendered payment for a check.
type Payment struct {
	Type   string  `json:"type" db:"payment_type"` // cash or cashless
	Amount float64 `json:"amount" db:"payment_amount"`
}

// CheckProduct is a single line item. Line items are created together with
// their check and never change afterwards.
type CheckProduct struct {
	ID       int64   `json:"-" db:"id"`
	CheckID  int64   `json:"-" db:"check_id"`
	Name     string  `json:"name" db:"name"`
	Price    float64 `json:"price" db:"price"`
	Quantity float64 `json:"quantity" db:"quantity"`
	Total    float64 `json:"total" db:"total"`
}

// Check is a persisted receipt owned by exactly one user. Total and Rest are
// computed at creation time; the row is immutable afterwards.
type Check struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"-" db:"user_id"`
	Products       []CheckProduct  `json:"products"`
	Payment        Payment         `json:"payment"`
	Total          float64         `json:"total" db:"total"`
	Rest           float64         `json:"rest" db:"rest"`
	AdditionalData json.RawMessage `json:"additional_data,omitempty" db:"additional_data"`
	PublicToken    string          `json:"public_token" db:"public_token"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
