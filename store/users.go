package store

import (
	"context"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/gofiber/fiber/v2"

	"cryptoai/model"
	gen "cryptoai/store/gen/model"
	"cryptoai/store/gen/table"
	"cryptoai/utils/errors"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) ByID(ctx context.Context, userID string) (model.User, error) {
	stmt := sqlite.SELECT(table.Users.AllColumns).
		FROM(table.Users).
		WHERE(table.Users.ID.EQ(sqlite.String(userID)))

	var row gen.Users
	if err := stmt.QueryContext(ctx, r.store.Tx.GetTx(ctx), &row); err != nil {
		if err == qrm.ErrNoRows {
			return model.User{}, errors.New(fiber.StatusNotFound, errors.ErrNotFound)
		}
		return model.User{}, err
	}
	return toUser(row), nil
}

func (r *UserRepository) All(ctx context.Context) ([]model.User, error) {
	stmt := sqlite.SELECT(table.Users.AllColumns).
		FROM(table.Users).
		ORDER_BY(table.Users.ID.ASC())

	var rows []gen.Users
	if err := stmt.QueryContext(ctx, r.store.Tx.GetTx(ctx), &rows); err != nil {
		return nil, err
	}
	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = toUser(row)
	}
	return users, nil
}

// Ensure inserts the user when absent and returns the stored row either way.
// An existing user's balance is never reset by a repeated seed.
func (r *UserRepository) Ensure(ctx context.Context, user model.User) (model.User, error) {
	stmt := table.Users.INSERT(table.Users.AllColumns).
		MODEL(gen.Users{
			ID:      user.ID,
			Email:   user.Email,
			Balance: user.Balance,
		}).
		ON_CONFLICT(table.Users.ID).DO_NOTHING()

	if _, err := stmt.ExecContext(ctx, r.store.Tx.GetTx(ctx)); err != nil {
		return model.User{}, err
	}
	return r.ByID(ctx, user.ID)
}

func toUser(row gen.Users) model.User {
	return model.User{
		ID:      row.ID,
		Email:   row.Email,
		Balance: row.Balance,
	}
}
