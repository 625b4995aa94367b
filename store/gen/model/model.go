// Row types matching the jet table metadata in store/gen/table.
package model

import "time"

type Users struct {
	ID      string `sql:"primary_key"`
	Email   string
	Balance float64
}

type Trades struct {
	ID             string `sql:"primary_key"`
	UserID         string
	Pair           string
	Type           string
	Price          float64
	Amount         float64
	Status         string
	Source         string
	IdempotencyKey *string
	Timestamp      time.Time
}

type Strategies struct {
	ID        string `sql:"primary_key"`
	UserID    string
	Pair      string
	BuyAt     *float64
	SellAt    *float64
	Amount    float64
	Active    bool
	CreatedAt time.Time
}

type Positions struct {
	UserID string `sql:"primary_key"`
	Pair   string `sql:"primary_key"`
	Amount float64
}
