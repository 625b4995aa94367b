// Table metadata for the jet query builder. Kept by hand in the generator's
// layout since the schema is small and fixed (see store.Migrate).
package table

import (
	"github.com/go-jet/jet/v2/sqlite"
)

var Users = newUsersTable("", "users", "")

type usersTable struct {
	sqlite.Table

	ID      sqlite.ColumnString
	Email   sqlite.ColumnString
	Balance sqlite.ColumnFloat

	AllColumns     sqlite.ColumnList
	MutableColumns sqlite.ColumnList
}

type UsersTable struct {
	usersTable

	EXCLUDED usersTable
}

func newUsersTable(schemaName, tableName, alias string) *UsersTable {
	return &UsersTable{
		usersTable: newUsersTableImpl(schemaName, tableName, alias),
		EXCLUDED:   newUsersTableImpl("", "excluded", ""),
	}
}

func newUsersTableImpl(schemaName, tableName, alias string) usersTable {
	var (
		IDColumn       = sqlite.StringColumn("id")
		EmailColumn    = sqlite.StringColumn("email")
		BalanceColumn  = sqlite.FloatColumn("balance")
		allColumns     = sqlite.ColumnList{IDColumn, EmailColumn, BalanceColumn}
		mutableColumns = sqlite.ColumnList{EmailColumn, BalanceColumn}
	)

	return usersTable{
		Table: sqlite.NewTable(schemaName, tableName, alias, allColumns...),

		ID:      IDColumn,
		Email:   EmailColumn,
		Balance: BalanceColumn,

		AllColumns:     allColumns,
		MutableColumns: mutableColumns,
	}
}

var Trades = newTradesTable("", "trades", "")

type tradesTable struct {
	sqlite.Table

	ID             sqlite.ColumnString
	UserID         sqlite.ColumnString
	Pair           sqlite.ColumnString
	Type           sqlite.ColumnString
	Price          sqlite.ColumnFloat
	Amount         sqlite.ColumnFloat
	Status         sqlite.ColumnString
	Source         sqlite.ColumnString
	IdempotencyKey sqlite.ColumnString
	Timestamp      sqlite.ColumnTimestamp

	AllColumns     sqlite.ColumnList
	MutableColumns sqlite.ColumnList
}

type TradesTable struct {
	tradesTable

	EXCLUDED tradesTable
}

func newTradesTable(schemaName, tableName, alias string) *TradesTable {
	return &TradesTable{
		tradesTable: newTradesTableImpl(schemaName, tableName, alias),
		EXCLUDED:    newTradesTableImpl("", "excluded", ""),
	}
}

func newTradesTableImpl(schemaName, tableName, alias string) tradesTable {
	var (
		IDColumn             = sqlite.StringColumn("id")
		UserIDColumn         = sqlite.StringColumn("user_id")
		PairColumn           = sqlite.StringColumn("pair")
		TypeColumn           = sqlite.StringColumn("type")
		PriceColumn          = sqlite.FloatColumn("price")
		AmountColumn         = sqlite.FloatColumn("amount")
		StatusColumn         = sqlite.StringColumn("status")
		SourceColumn         = sqlite.StringColumn("source")
		IdempotencyKeyColumn = sqlite.StringColumn("idempotency_key")
		TimestampColumn      = sqlite.TimestampColumn("timestamp")
		allColumns           = sqlite.ColumnList{IDColumn, UserIDColumn, PairColumn, TypeColumn, PriceColumn, AmountColumn, StatusColumn, SourceColumn, IdempotencyKeyColumn, TimestampColumn}
		mutableColumns       = sqlite.ColumnList{UserIDColumn, PairColumn, TypeColumn, PriceColumn, AmountColumn, StatusColumn, SourceColumn, IdempotencyKeyColumn, TimestampColumn}
	)

	return tradesTable{
		Table: sqlite.NewTable(schemaName, tableName, alias, allColumns...),

		ID:             IDColumn,
		UserID:         UserIDColumn,
		Pair:           PairColumn,
		Type:           TypeColumn,
		Price:          PriceColumn,
		Amount:         AmountColumn,
		Status:         StatusColumn,
		Source:         SourceColumn,
		IdempotencyKey: IdempotencyKeyColumn,
		Timestamp:      TimestampColumn,

		AllColumns:     allColumns,
		MutableColumns: mutableColumns,
	}
}

var Strategies = newStrategiesTable("", "strategies", "")

type strategiesTable struct {
	sqlite.Table

	ID        sqlite.ColumnString
	UserID    sqlite.ColumnString
	Pair      sqlite.ColumnString
	BuyAt     sqlite.ColumnFloat
	SellAt    sqlite.ColumnFloat
	Amount    sqlite.ColumnFloat
	Active    sqlite.ColumnBool
	CreatedAt sqlite.ColumnTimestamp

	AllColumns     sqlite.ColumnList
	MutableColumns sqlite.ColumnList
}

type StrategiesTable struct {
	strategiesTable

	EXCLUDED strategiesTable
}

func newStrategiesTable(schemaName, tableName, alias string) *StrategiesTable {
	return &StrategiesTable{
		strategiesTable: newStrategiesTableImpl(schemaName, tableName, alias),
		EXCLUDED:        newStrategiesTableImpl("", "excluded", ""),
	}
}

func newStrategiesTableImpl(schemaName, tableName, alias string) strategiesTable {
	var (
		IDColumn        = sqlite.StringColumn("id")
		UserIDColumn    = sqlite.StringColumn("user_id")
		PairColumn      = sqlite.StringColumn("pair")
		BuyAtColumn     = sqlite.FloatColumn("buy_at")
		SellAtColumn    = sqlite.FloatColumn("sell_at")
		AmountColumn    = sqlite.FloatColumn("amount")
		ActiveColumn    = sqlite.BoolColumn("active")
		CreatedAtColumn = sqlite.TimestampColumn("created_at")
		allColumns      = sqlite.ColumnList{IDColumn, UserIDColumn, PairColumn, BuyAtColumn, SellAtColumn, AmountColumn, ActiveColumn, CreatedAtColumn}
		mutableColumns  = sqlite.ColumnList{UserIDColumn, PairColumn, BuyAtColumn, SellAtColumn, AmountColumn, ActiveColumn, CreatedAtColumn}
	)

	return strategiesTable{
		Table: sqlite.NewTable(schemaName, tableName, alias, allColumns...),

		ID:        IDColumn,
		UserID:    UserIDColumn,
		Pair:      PairColumn,
		BuyAt:     BuyAtColumn,
		SellAt:    SellAtColumn,
		Amount:    AmountColumn,
		Active:    ActiveColumn,
		CreatedAt: CreatedAtColumn,

		AllColumns:     allColumns,
		MutableColumns: mutableColumns,
	}
}

var Positions = newPositionsTable("", "positions", "")

type positionsTable struct {
	sqlite.Table

	UserID sqlite.ColumnString
	Pair   sqlite.ColumnString
	Amount sqlite.ColumnFloat

	AllColumns     sqlite.ColumnList
	MutableColumns sqlite.ColumnList
}

type PositionsTable struct {
	positionsTable

	EXCLUDED positionsTable
}

func newPositionsTable(schemaName, tableName, alias string) *PositionsTable {
	return &PositionsTable{
		positionsTable: newPositionsTableImpl(schemaName, tableName, alias),
		EXCLUDED:       newPositionsTableImpl("", "excluded", ""),
	}
}

func newPositionsTableImpl(schemaName, tableName, alias string) positionsTable {
	var (
		UserIDColumn   = sqlite.StringColumn("user_id")
		PairColumn     = sqlite.StringColumn("pair")
		AmountColumn   = sqlite.FloatColumn("amount")
		allColumns     = sqlite.ColumnList{UserIDColumn, PairColumn, AmountColumn}
		mutableColumns = sqlite.ColumnList{AmountColumn}
	)

	return positionsTable{
		Table: sqlite.NewTable(schemaName, tableName, alias, allColumns...),

		UserID: UserIDColumn,
		Pair:   PairColumn,
		Amount: AmountColumn,

		AllColumns:     allColumns,
		MutableColumns: mutableColumns,
	}
}
