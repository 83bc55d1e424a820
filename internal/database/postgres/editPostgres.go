package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

type editRepository struct {
	db *sql.DB
}

func NewEditRepository(db *sql.DB) EditRepository {
	return &editRepository{db: db}
}

func (r *editRepository) Replace(ctx context.Context, assetID string, ops []entity.EditOperation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM asset_edit WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("failed to delete edits: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO asset_edit (asset_id, action, parameters, "index")
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, op := range entity.SortByIndex(ops) {
		params, err := json.Marshal(op.Parameters)
		if err != nil {
			return fmt.Errorf("failed to encode %s parameters: %w", op.Action(), err)
		}
		if _, err := stmt.ExecContext(ctx, assetID, string(op.Action()), params, op.Index); err != nil {
			return fmt.Errorf("failed to insert edit %d: %w", op.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit edits: %w", err)
	}
	return nil
}

func (r *editRepository) List(ctx context.Context, assetID string) ([]entity.EditOperation, error) {
	query := `
		SELECT action, parameters, "index"
		FROM asset_edit
		WHERE asset_id = $1
		ORDER BY "index"
	`

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edits: %w", err)
	}
	defer rows.Close()

	ops := make([]entity.EditOperation, 0)
	for rows.Next() {
		var (
			action string
			params []byte
			index  int
		)
		if err := rows.Scan(&action, &params, &index); err != nil {
			return nil, fmt.Errorf("failed to scan edit: %w", err)
		}

		p, err := entity.DecodeParameters(entity.EditAction(action), params)
		if err != nil {
			return nil, fmt.Errorf("stored edit %d of asset %s is unreadable: %w", index, assetID, err)
		}
		ops = append(ops, entity.EditOperation{Index: index, Parameters: p})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edits: %w", err)
	}
	return ops, nil
}

func (r *editRepository) Clear(ctx context.Context, assetID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM asset_edit WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("failed to clear edits: %w", err)
	}
	return nil
}
