package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DefaultMeetingTitle is used when neither a title hint nor a usable
// filename is available.
const DefaultMeetingTitle = "Meeting notes"

// Meeting is one persisted upload-to-summary artifact. Records are
// immutable after creation: there is no update or delete path.
type Meeting struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID    int64  `json:"owner_id" gorm:"column:user_id;index:idx_meetings_owner;not null"`
	Title      string `json:"title" gorm:"type:varchar(255);not null"`
	Transcript string `json:"transcript" gorm:"type:text;not null"`

	// SummaryRaw is the JSONB column; Summary is the decoded form kept
	// in sync via EncodeSummary/DecodeSummary.
	SummaryRaw datatypes.JSON     `json:"-" gorm:"column:summary;type:jsonb"`
	Summary    *StructuredSummary `json:"summary" gorm:"-"`

	// AudioURL points at the archived original audio in object storage,
	// when archival is enabled. Best effort, may be empty.
	AudioURL string `json:"audio_url,omitempty" gorm:"type:varchar(500)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_meetings_created"`
}

// TableName overrides the GORM table name
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting artifact ready for persistence. The
// summary may be nil (manual saves without one).
func NewMeeting(ownerID int64, title, transcript string, summary *StructuredSummary) (*Meeting, error) {
	if summary != nil {
		summary.Normalize()
	}
	m := &Meeting{
		OwnerID:    ownerID,
		Title:      title,
		Transcript: transcript,
		Summary:    summary,
	}
	if err := m.EncodeSummary(); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeSummary serializes Summary into the JSONB column. A nil summary
// stores SQL NULL, matching the nullable column.
func (m *Meeting) EncodeSummary() error {
	if m.Summary == nil {
		m.SummaryRaw = nil
		return nil
	}
	m.Summary.Normalize()
	b, err := json.Marshal(m.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	m.SummaryRaw = datatypes.JSON(b)
	return nil
}

// DecodeSummary restores Summary from the JSONB column after a read.
// The round trip is loss-less for the StructuredSummary shape.
func (m *Meeting) DecodeSummary() error {
	if len(m.SummaryRaw) == 0 {
		m.Summary = nil
		return nil
	}
	var s StructuredSummary
	if err := json.Unmarshal(m.SummaryRaw, &s); err != nil {
		return fmt.Errorf("failed to decode summary: %w", err)
	}
	s.Normalize()
	m.Summary = &s
	return nil
}
