package webserver

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"cryptoai/model"
	"cryptoai/utils/errors"
)

var validate = validator.New()

const defaultStrategyAmount = 0.001

// UserBootstrapResponse is the GET /api/user payload. Trades and Strategies
// are never null so the client can iterate them without a guard.
type UserBootstrapResponse struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Balance    float64          `json:"balance"`
	Trades     []model.Trade    `json:"trades"`
	Strategies []model.Strategy `json:"strategies"`
}

type TradeCreateRequest struct {
	Pair   string  `json:"pair" validate:"required,uppercase"`
	Type   string  `json:"type" validate:"required,oneof=BUY SELL"`
	Price  float64 `json:"price" validate:"required,gt=0"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (r TradeCreateRequest) toTradeRequest(userID string) model.TradeRequest {
	return model.TradeRequest{
		UserID: userID,
		Pair:   r.Pair,
		Type:   model.TradeType(r.Type),
		Price:  r.Price,
		Amount: r.Amount,
		Source: model.TradeSourceManual,
	}
}

type StrategyCreateRequest struct {
	Pair   string   `json:"pair" validate:"required,uppercase"`
	BuyAt  *float64 `json:"buyAt" validate:"omitempty,gt=0"`
	SellAt *float64 `json:"sellAt" validate:"omitempty,gt=0"`
	Amount float64  `json:"amount" validate:"omitempty,gt=0"`
}

func (r StrategyCreateRequest) toStrategy(userID string) (model.Strategy, error) {
	if (r.BuyAt == nil) == (r.SellAt == nil) {
		return model.Strategy{}, errors.New(fiber.StatusBadRequest, errors.ErrStrategyThreshold)
	}
	amount := r.Amount
	if amount == 0 {
		amount = defaultStrategyAmount
	}
	return model.Strategy{
		UserID: userID,
		Pair:   r.Pair,
		BuyAt:  r.BuyAt,
		SellAt: r.SellAt,
		Amount: amount,
	}, nil
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
