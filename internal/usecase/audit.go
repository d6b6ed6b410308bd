package usecase

import (
	"context"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
)

// recordAudit hands an entry to the recorder when one is wired. The
// recorder never blocks and its failures never reach the caller.
func recordAudit(ctx context.Context, rec audit.Recorder, actorUserID int64, actionType, entityType string, entityID *int64, metadata map[string]any) {
	if rec == nil {
		return
	}

	var actor *int64
	if actorUserID != 0 {
		actor = &actorUserID
	}

	rec.Record(ctx, audit.Entry{
		ActorUserID: actor,
		ActionType:  actionType,
		EntityType:  entityType,
		EntityID:    entityID,
		Metadata:    metadata,
	})
}
