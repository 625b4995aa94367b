package tx

import (
	"context"
	"database/sql"

	"github.com/go-jet/jet/v2/qrm"

	"cryptoai/utils/db"
)

// TxExtension resolves the executor for a query: the transaction bound to the
// context when present, the plain connection otherwise.
type TxExtension struct {
	Sqlite *db.Database
}

func (p TxExtension) GetTx(ctx context.Context) qrm.DB {
	tx := ctx.Value("tx")
	if tx != nil {
		result, ok := tx.(*sql.Tx)
		if !ok {
			return p.Sqlite.DbForJet
		}
		return result
	}
	return p.Sqlite.DbForJet
}
