package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// MeetingRepository defines persistence for meeting artifacts. Create is
// atomic: either the full record including the serialized summary is
// written and the entity's ID populated, or nothing is written and an
// error returned. ListByOwner returns only the owner's records, newest
// created_at first.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Meeting, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entities.Meeting, error)
}
