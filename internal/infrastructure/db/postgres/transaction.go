package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// TransactionManager implements ports.TransactionManager using GORM.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// Execute runs fn within a single database transaction. The transaction is
// committed only when fn succeeds and ctx is still live.
func (tm *TransactionManager) Execute(ctx context.Context, fn func(ctx context.Context, repo ports.EmployeeRepository) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, NewEmployeeRepository(tx)); err != nil {
		return rollback(tx, err)
	}
	if err := ctx.Err(); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func rollback(tx *gorm.DB, cause error) error {
	// A cancelled context already aborted the transaction inside database/sql.
	if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
		return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, cause)
	}
	return cause
}
