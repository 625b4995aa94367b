package db

import (
	"context"
	"database/sql"
)

type Database struct {
	DbForJet *sql.DB
}

// TransactionChain runs a block inside a database transaction. The *sql.Tx is
// placed in the context under "tx" so repositories resolve it via tx.TxExtension.
type TransactionChain[T any] struct {
	block           func(ctx context.Context) (error, T)
	failedCallBack  func(err error) (error, T)
	finallyCallBack func()
}

func Transaction[T any](block func(ctx context.Context) (error, T)) *TransactionChain[T] {
	return &TransactionChain[T]{
		block: block,
	}
}

func (transaction *TransactionChain[T]) Failed(failedCallBack func(err error) (error, T)) *TransactionChain[T] {
	transaction.failedCallBack = failedCallBack
	return transaction
}

func (transaction *TransactionChain[T]) Finally(finallyCallBack func()) *TransactionChain[T] {
	transaction.finallyCallBack = finallyCallBack
	return transaction
}

func (transaction *TransactionChain[T]) Run(ctx context.Context, db *sql.DB) (error, T) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		if transaction.failedCallBack != nil {
			return transaction.failedCallBack(err)
		}
		return err, zero
	}
	ctx = context.WithValue(ctx, "tx", tx)

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			if transaction.finallyCallBack != nil {
				transaction.finallyCallBack()
			}
			panic(r)
		}
		if transaction.finallyCallBack != nil {
			transaction.finallyCallBack()
		}
	}()

	err, results := transaction.block(ctx)
	if err != nil {
		_ = tx.Rollback()
		if transaction.failedCallBack != nil {
			return transaction.failedCallBack(err)
		}
		return err, zero
	}

	if commitErr := tx.Commit(); commitErr != nil {
		if transaction.failedCallBack != nil {
			return transaction.failedCallBack(commitErr)
		}
		return commitErr, zero
	}
	return nil, results
}
