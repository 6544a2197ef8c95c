package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// MeetingRepository implements the meeting repository interface using
// GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{
		db: db,
	}
}

// Create writes one meeting record. The summary is serialized into the
// JSONB column before the insert; a single INSERT keeps the write
// atomic, so either the full record lands or nothing does.
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := meeting.EncodeSummary(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's meetings, newest created_at first
func (r *MeetingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	for _, m := range meetings {
		if err := m.DecodeSummary(); err != nil {
			return nil, err
		}
	}
	return meetings, nil
}

// FindByIDAndOwner fetches one meeting, enforcing owner-only access
func (r *MeetingRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	if err := meeting.DecodeSummary(); err != nil {
		return nil, err
	}
	return &meeting, nil
}
