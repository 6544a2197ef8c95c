package meeting

import "github.com/johnquangdev/meeting-minutes/internal/domain/entities"

// SaveRequest is the payload for POST /api/meetings (the manual save
// path outside the upload pipeline)
type SaveRequest struct {
	Title      string                      `json:"title" validate:"max=255"`
	Transcript string                      `json:"transcript"`
	Summary    *entities.StructuredSummary `json:"summary"`
}
