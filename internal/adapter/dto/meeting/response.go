package meeting

import "github.com/johnquangdev/meeting-minutes/internal/domain/entities"

// MeetingPayload is one meeting artifact as exposed over the API
type MeetingPayload struct {
	ID         int64                       `json:"id"`
	Title      string                      `json:"title"`
	Date       string                      `json:"date,omitempty"`
	Transcript string                      `json:"transcript"`
	Summary    *entities.StructuredSummary `json:"summary"`
	AudioURL   string                      `json:"audio_url,omitempty"`
}

// UploadResponse is returned by POST /api/upload
type UploadResponse struct {
	Success bool           `json:"success"`
	Meeting MeetingPayload `json:"meeting"`
	// Truncated surfaces that the transcript was cut to the provider
	// input budget before summarization.
	Truncated bool `json:"truncated,omitempty"`
	// SummarySource is "model" or "fallback"
	SummarySource string `json:"summary_source,omitempty"`
}

// ListResponse is returned by GET /api/meetings
type ListResponse struct {
	Success bool             `json:"success"`
	List    []MeetingPayload `json:"list"`
}

// SaveResponse is returned by POST /api/meetings
type SaveResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}
