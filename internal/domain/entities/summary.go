package entities

import "unicode/utf8"

// FallbackSummaryLimit is how much of the transcript the fallback
// summary carries, in runes.
const FallbackSummaryLimit = 200

// FallbackTopic is the single placeholder topic used when the provider
// response could not be parsed.
const FallbackTopic = "Meeting content"

// ActionItem is a single assigned task extracted from the meeting.
// Deadline is a date string as produced by the provider (YYYY-MM-DD).
type ActionItem struct {
	Assignee string `json:"assignee"`
	Task     string `json:"task"`
	Deadline string `json:"deadline"`
}

// StructuredSummary is the normalized six-field summary shape. All six
// keys are always present in the JSON form; array fields may be empty
// but never null. Downstream rendering depends on this, so Normalize
// must be called on anything decoded from an external source.
type StructuredSummary struct {
	Summary      string       `json:"summary"`
	Topics       []string     `json:"topics"`
	KeyDecisions []string     `json:"keyDecisions"`
	ActionItems  []ActionItem `json:"actionItems"`
	Todos        []string     `json:"todos"`
	Decisions    []string     `json:"decisions"`
}

// Normalize replaces nil array fields with empty slices so the JSON
// form always carries all six keys with the right types.
func (s *StructuredSummary) Normalize() {
	if s.Topics == nil {
		s.Topics = make([]string, 0)
	}
	if s.KeyDecisions == nil {
		s.KeyDecisions = make([]string, 0)
	}
	if s.ActionItems == nil {
		s.ActionItems = make([]ActionItem, 0)
	}
	if s.Todos == nil {
		s.Todos = make([]string, 0)
	}
	if s.Decisions == nil {
		s.Decisions = make([]string, 0)
	}
}

// NewFallbackSummary builds the deterministic minimal summary used when
// the summarization provider fails or returns unparsable content. It
// satisfies the same shape invariant as a parsed summary so consumers
// never special-case it: summary is the first 200 runes of the
// transcript (plus an ellipsis if truncated) and topics holds one fixed
// placeholder.
func NewFallbackSummary(transcript string) *StructuredSummary {
	head := transcript
	if utf8.RuneCountInString(transcript) > FallbackSummaryLimit {
		runes := []rune(transcript)
		head = string(runes[:FallbackSummaryLimit]) + "…"
	}

	return &StructuredSummary{
		Summary:      head,
		Topics:       []string{FallbackTopic},
		KeyDecisions: make([]string, 0),
		ActionItems:  make([]ActionItem, 0),
		Todos:        make([]string, 0),
		Decisions:    make([]string, 0),
	}
}
