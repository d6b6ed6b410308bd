package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
)

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, e audit.Entry) error {
	const query = `
INSERT INTO audit_log (actor_user_id, action_type, entity_type, entity_id, metadata_json, ip, user_agent)
VALUES (:actor_user_id, :action_type, :entity_type, :entity_id, :metadata_json, :ip, :user_agent)`

	metadata, err := encodeMetadata(e.Metadata)
	if err != nil {
		return err
	}
	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"actor_user_id": e.ActorUserID,
		"action_type":   e.ActionType,
		"entity_type":   e.EntityType,
		"entity_id":     e.EntityID,
		"metadata_json": metadata,
		"ip":            nullableString(e.IP),
		"user_agent":    nullableString(e.UserAgent),
	})
	if err != nil {
		return fmt.Errorf("bind insert audit query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func (r *AuditRepository) List(ctx context.Context, limit int) ([]audit.Entry, error) {
	const query = `
SELECT id, timestamp, actor_user_id, action_type, entity_type, entity_id, metadata_json, ip, user_agent
FROM audit_log
ORDER BY id DESC
LIMIT $1`

	var rows []auditTableModel
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}
