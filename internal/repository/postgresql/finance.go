package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/paycore/payroll-engine-go/internal/domain/finance"
	"github.com/paycore/payroll-engine-go/internal/pkg/database"
)

// financeRepository writes journal transactions and audit rows. Both
// tables are append-only.
type financeRepository struct {
	db *database.DB
}

func NewFinanceRepository(db *database.DB) *financeRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) Post(ctx context.Context, tx finance.Transaction) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO transactions (id, amount, direction, category, description, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		uuid.NewString(), tx.Amount, tx.Direction, tx.Category, tx.Description, tx.EmployeeID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert transaction: %w", err)
	}

	return id, nil
}

func (r *financeRepository) Record(ctx context.Context, entry finance.AuditEntry) error {
	q := GetQuerier(ctx, r.db)

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, actor, action, target_id, details)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := q.Exec(ctx, query, uuid.NewString(), entry.Actor, entry.Action, entry.TargetID, details); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

var (
	_ finance.TransactionSink = (*financeRepository)(nil)
	_ finance.AuditSink       = (*financeRepository)(nil)
)
