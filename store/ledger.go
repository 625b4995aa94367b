package store

import (
	"context"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cryptoai/model"
	gen "cryptoai/store/gen/model"
	"cryptoai/store/gen/table"
	"cryptoai/utils/db"
	"cryptoai/utils/errors"
)

// LedgerRepository is the only writer of trades, balances and positions.
// ExecuteTrade runs the full funds check and all three writes in one
// transaction, so the balance can never go below zero and a position can
// never go negative regardless of concurrent callers.
type LedgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) ExecuteTrade(ctx context.Context, req model.TradeRequest) (model.Trade, error) {
	if req.Amount <= 0 {
		return model.Trade{}, errors.NewValidationError("amount must be positive")
	}
	if req.Price <= 0 {
		return model.Trade{}, errors.NewValidationError("price must be positive")
	}

	err, trade := db.Transaction[model.Trade](func(txCtx context.Context) (error, model.Trade) {
		if req.IdempotencyKey != "" {
			if prior, ok, err := r.tradeByKey(txCtx, req.UserID, req.IdempotencyKey); err != nil {
				return err, model.Trade{}
			} else if ok {
				// the same decision was already settled, return it unchanged
				return nil, prior
			}
		}

		var userRow gen.Users
		selectUser := sqlite.SELECT(table.Users.AllColumns).
			FROM(table.Users).
			WHERE(table.Users.ID.EQ(sqlite.String(req.UserID)))
		if err := selectUser.QueryContext(txCtx, r.store.Tx.GetTx(txCtx), &userRow); err != nil {
			if err == qrm.ErrNoRows {
				return errors.New(fiber.StatusNotFound, errors.ErrNotFound), model.Trade{}
			}
			return err, model.Trade{}
		}

		cost := decimal.NewFromFloat(req.Price).Mul(decimal.NewFromFloat(req.Amount))
		balance := decimal.NewFromFloat(userRow.Balance)

		position, err := r.positionAmount(txCtx, req.UserID, req.Pair)
		if err != nil {
			return err, model.Trade{}
		}

		var newBalance decimal.Decimal
		var newPosition float64
		switch req.Type {
		case model.TradeTypeBuy:
			if cost.GreaterThan(balance) {
				return errors.New(fiber.StatusBadRequest, errors.ErrInsufficientBalance), model.Trade{}
			}
			newBalance = balance.Sub(cost)
			newPosition = position + req.Amount
		case model.TradeTypeSell:
			if req.Amount > position {
				return errors.New(fiber.StatusBadRequest, errors.ErrInsufficientHolding), model.Trade{}
			}
			newBalance = balance.Add(cost)
			newPosition = position - req.Amount
		default:
			return errors.NewValidationError("type must be BUY or SELL"), model.Trade{}
		}

		executed := model.Trade{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			Pair:      req.Pair,
			Type:      req.Type,
			Price:     req.Price,
			Amount:    req.Amount,
			Status:    model.TradeStatusFilled,
			Source:    req.Source,
			Timestamp: time.Now().UTC(),
		}

		tradeRow := gen.Trades{
			ID:        executed.ID,
			UserID:    executed.UserID,
			Pair:      executed.Pair,
			Type:      string(executed.Type),
			Price:     executed.Price,
			Amount:    executed.Amount,
			Status:    string(executed.Status),
			Source:    string(executed.Source),
			Timestamp: executed.Timestamp,
		}
		if req.IdempotencyKey != "" {
			key := req.IdempotencyKey
			tradeRow.IdempotencyKey = &key
		}
		insertTrade := table.Trades.INSERT(table.Trades.AllColumns).MODEL(tradeRow)
		if _, err := insertTrade.ExecContext(txCtx, r.store.Tx.GetTx(txCtx)); err != nil {
			return err, model.Trade{}
		}

		balanceValue, _ := newBalance.Float64()
		updateBalance := table.Users.UPDATE(table.Users.Balance).
			SET(sqlite.Float(balanceValue)).
			WHERE(table.Users.ID.EQ(sqlite.String(req.UserID)))
		if _, err := updateBalance.ExecContext(txCtx, r.store.Tx.GetTx(txCtx)); err != nil {
			return err, model.Trade{}
		}

		upsertPosition := table.Positions.INSERT(table.Positions.AllColumns).
			MODEL(gen.Positions{UserID: req.UserID, Pair: req.Pair, Amount: newPosition}).
			ON_CONFLICT(table.Positions.UserID, table.Positions.Pair).
			DO_UPDATE(sqlite.SET(table.Positions.Amount.SET(sqlite.Float(newPosition))))
		if _, err := upsertPosition.ExecContext(txCtx, r.store.Tx.GetTx(txCtx)); err != nil {
			return err, model.Trade{}
		}

		// a fired threshold strategy retires with the trade it produced
		if req.StrategyID != "" {
			deactivate := table.Strategies.UPDATE(table.Strategies.Active).
				SET(sqlite.Bool(false)).
				WHERE(table.Strategies.ID.EQ(sqlite.String(req.StrategyID)))
			if _, err := deactivate.ExecContext(txCtx, r.store.Tx.GetTx(txCtx)); err != nil {
				return err, model.Trade{}
			}
		}

		return nil, executed
	}).Run(ctx, r.store.Database.DbForJet)

	return trade, err
}

func (r *LedgerRepository) TradesByUser(ctx context.Context, userID string) ([]model.Trade, error) {
	stmt := sqlite.SELECT(table.Trades.AllColumns).
		FROM(table.Trades).
		WHERE(table.Trades.UserID.EQ(sqlite.String(userID))).
		ORDER_BY(table.Trades.Timestamp.DESC())

	var rows []gen.Trades
	if err := stmt.QueryContext(ctx, r.store.Tx.GetTx(ctx), &rows); err != nil {
		return nil, err
	}
	trades := make([]model.Trade, len(rows))
	for i, row := range rows {
		trades[i] = model.Trade{
			ID:        row.ID,
			UserID:    row.UserID,
			Pair:      row.Pair,
			Type:      model.TradeType(row.Type),
			Price:     row.Price,
			Amount:    row.Amount,
			Status:    model.TradeStatus(row.Status),
			Source:    model.TradeSource(row.Source),
			Timestamp: row.Timestamp,
		}
	}
	return trades, nil
}

func (r *LedgerRepository) Position(ctx context.Context, userID, pair string) (float64, error) {
	return r.positionAmount(ctx, userID, pair)
}

func (r *LedgerRepository) positionAmount(ctx context.Context, userID, pair string) (float64, error) {
	stmt := sqlite.SELECT(table.Positions.AllColumns).
		FROM(table.Positions).
		WHERE(table.Positions.UserID.EQ(sqlite.String(userID)).
			AND(table.Positions.Pair.EQ(sqlite.String(pair))))

	var row gen.Positions
	if err := stmt.QueryContext(ctx, r.store.Tx.GetTx(ctx), &row); err != nil {
		if err == qrm.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return row.Amount, nil
}

func (r *LedgerRepository) tradeByKey(ctx context.Context, userID, key string) (model.Trade, bool, error) {
	stmt := sqlite.SELECT(table.Trades.AllColumns).
		FROM(table.Trades).
		WHERE(table.Trades.UserID.EQ(sqlite.String(userID)).
			AND(table.Trades.IdempotencyKey.EQ(sqlite.String(key))))

	var row gen.Trades
	if err := stmt.QueryContext(ctx, r.store.Tx.GetTx(ctx), &row); err != nil {
		if err == qrm.ErrNoRows {
			return model.Trade{}, false, nil
		}
		return model.Trade{}, false, err
	}
	return model.Trade{
		ID:        row.ID,
		UserID:    row.UserID,
		Pair:      row.Pair,
		Type:      model.TradeType(row.Type),
		Price:     row.Price,
		Amount:    row.Amount,
		Status:    model.TradeStatus(row.Status),
		Source:    model.TradeSource(row.Source),
		Timestamp: row.Timestamp,
	}, true, nil
}
