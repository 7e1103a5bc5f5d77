package models

import (
	"time"
)

// OrderSheet is an immutable snapshot of the cart taken when the user
// generates an order. It does not track cart mutations made after it is
// built.
type OrderSheet struct {
	ID         string     `bson:"order_no" json:"order_no"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	Lines      []CartLine `bson:"items" json:"items"`
	TotalPrice float64    `bson:"total_price" json:"total_price"`
}

// ItemCount returns the total number of units across all lines.
func (s OrderSheet) ItemCount() int {
	count := 0
	for _, l := range s.Lines {
		count += l.Quantity
	}
	return count
}
