package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// TransactionManager runs each unit of work in a multi-document transaction.
// It needs a replica set or sharded cluster.
type TransactionManager struct {
	client *mongo.Client
	repo   *EmployeeRepository
}

func NewTransactionManager(client *mongo.Client, db *mongo.Database) *TransactionManager {
	return &TransactionManager{client: client, repo: NewEmployeeRepository(db)}
}

// Execute commits only when fn succeeds on a live context. Operations must
// use the ctx handed to fn, which carries the session.
func (tm *TransactionManager) Execute(ctx context.Context, fn func(ctx context.Context, repo ports.EmployeeRepository) error) error {
	sess, err := tm.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if err := fn(sc, tm.repo); err != nil {
			return nil, err
		}
		return nil, sc.Err()
	})
	return err
}
