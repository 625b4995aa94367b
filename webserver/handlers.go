package webserver

import (
	"github.com/gofiber/fiber/v2"

	"cryptoai/model"
	fiberhelpers "cryptoai/utils/fiberhelper"
	"cryptoai/utils/fiberhelper/response"
)

// handleGetUser is the dashboard bootstrap: the user row plus the data the
// client renders on first load, trades newest first and active strategies.
func (ws *WebServer) handleGetUser(c *fiber.Ctx) error {
	userID := UserID(c)
	user, err := ws.users.ByID(c.Context(), userID)
	if err != nil {
		return err
	}
	trades, err := ws.ledger.TradesByUser(c.Context(), userID)
	if err != nil {
		return err
	}
	strategies, err := ws.strategies.ActiveByUser(c.Context(), userID)
	if err != nil {
		return err
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	if strategies == nil {
		strategies = []model.Strategy{}
	}
	return response.Ext{Ctx: c}.Ok(UserBootstrapResponse{
		ID:         user.ID,
		Email:      user.Email,
		Balance:    user.Balance,
		Trades:     trades,
		Strategies: strategies,
	})
}

func (ws *WebServer) handleGetTrades(c *fiber.Ctx) error {
	trades, err := ws.ledger.TradesByUser(c.Context(), UserID(c))
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(trades)
}

func (ws *WebServer) handlePostTrade(c *fiber.Ctx) error {
	req := fiberhelpers.RequestParse[TradeCreateRequest](c)
	if err := validateRequest(req); err != nil {
		return err
	}

	trade, err := ws.ledger.ExecuteTrade(c.Context(), req.toTradeRequest(UserID(c)))
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(trade)
}

func (ws *WebServer) handleGetStrategies(c *fiber.Ctx) error {
	strategies, err := ws.strategies.ActiveByUser(c.Context(), UserID(c))
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(strategies)
}

func (ws *WebServer) handlePostStrategy(c *fiber.Ctx) error {
	req := fiberhelpers.RequestParse[StrategyCreateRequest](c)
	if err := validateRequest(req); err != nil {
		return err
	}

	strategy, err := req.toStrategy(UserID(c))
	if err != nil {
		return err
	}

	created, err := ws.strategies.Create(c.Context(), strategy)
	if err != nil {
		return err
	}
	return response.Ext{Ctx: c}.Ok(created)
}
