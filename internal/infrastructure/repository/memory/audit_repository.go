package memory

import (
	"context"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
)

type AuditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

func (r *AuditRepository) Insert(_ context.Context, e audit.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e.ID = r.store.nextID("audit_log")
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	r.store.auditLog = append(r.store.auditLog, e)

	return nil
}

func (r *AuditRepository) List(_ context.Context, limit int) ([]audit.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]audit.Entry, 0, limit)
	for i := len(r.store.auditLog) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, r.store.auditLog[i])
	}

	return entries, nil
}
