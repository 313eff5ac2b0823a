package services

import (
	"context"
	"fmt"
	"turnovers/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside one transaction through gorm's Transaction helper:
// commit when fn returns nil, rollback on error or panic. A panic is returned
// as an error so a single bad request cannot take the server down.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.TraceFromContext(ctx).Function("Execute")

	defer func() {
		if r := recover(); r != nil {
			err = log.ErrMsg(fmt.Sprintf("panic during transaction: %v", r))
		}
	}()

	err = ts.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, tx)
	})
	if err != nil {
		log.Debug("transaction rolled back", "error", err)
	}

	return err
}
