package store

import (
	"context"
	"time"

	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"

	"cryptoai/model"
	gen "cryptoai/store/gen/model"
	"cryptoai/store/gen/table"
)

type StrategyRepository struct {
	store *Store
}

func NewStrategyRepository(store *Store) *StrategyRepository {
	return &StrategyRepository{store: store}
}

func (r *StrategyRepository) Create(ctx context.Context, strategy model.Strategy) (model.Strategy, error) {
	if strategy.ID == "" {
		strategy.ID = uuid.NewString()
	}
	if strategy.CreatedAt.IsZero() {
		strategy.CreatedAt = time.Now().UTC()
	}
	strategy.Active = true

	stmt := table.Strategies.INSERT(table.Strategies.AllColumns).
		MODEL(gen.Strategies{
			ID:        strategy.ID,
			UserID:    strategy.UserID,
			Pair:      strategy.Pair,
			BuyAt:     strategy.BuyAt,
			SellAt:    strategy.SellAt,
			Amount:    strategy.Amount,
			Active:    strategy.Active,
			CreatedAt: strategy.CreatedAt,
		})

	if _, err := stmt.ExecContext(ctx, r.store.Tx.GetTx(ctx)); err != nil {
		return model.Strategy{}, err
	}
	return strategy, nil
}

func (r *StrategyRepository) ActiveByUser(ctx context.Context, userID string) ([]model.Strategy, error) {
	stmt := sqlite.SELECT(table.Strategies.AllColumns).
		FROM(table.Strategies).
		WHERE(table.Strategies.UserID.EQ(sqlite.String(userID)).
			AND(table.Strategies.Active.IS_TRUE())).
		ORDER_BY(table.Strategies.CreatedAt.ASC())

	return r.query(ctx, stmt)
}

func (r *StrategyRepository) AllActive(ctx context.Context) ([]model.Strategy, error) {
	stmt := sqlite.SELECT(table.Strategies.AllColumns).
		FROM(table.Strategies).
		WHERE(table.Strategies.Active.IS_TRUE()).
		ORDER_BY(table.Strategies.CreatedAt.ASC())

	return r.query(ctx, stmt)
}

// Deactivate retires a strategy after it fires. Idempotent: a second call on
// the same ID is a no-op.
func (r *StrategyRepository) Deactivate(ctx context.Context, strategyID string) error {
	stmt := table.Strategies.UPDATE(table.Strategies.Active).
		SET(sqlite.Bool(false)).
		WHERE(table.Strategies.ID.EQ(sqlite.String(strategyID)))

	_, err := stmt.ExecContext(ctx, r.store.Tx.GetTx(ctx))
	return err
}

func (r *StrategyRepository) query(ctx context.Context, stmt sqlite.SelectStatement) ([]model.Strategy, error) {
	var rows []gen.Strategies
	if err := stmt.QueryContext(ctx, r.store.Tx.GetTx(ctx), &rows); err != nil {
		return nil, err
	}
	strategies := make([]model.Strategy, len(rows))
	for i, row := range rows {
		strategies[i] = model.Strategy{
			ID:        row.ID,
			UserID:    row.UserID,
			Pair:      row.Pair,
			BuyAt:     row.BuyAt,
			SellAt:    row.SellAt,
			Amount:    row.Amount,
			Active:    row.Active,
			CreatedAt: row.CreatedAt,
		}
	}
	return strategies, nil
}
