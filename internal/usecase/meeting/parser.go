package meeting

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// Parser turns raw summarization provider output into a
// StructuredSummary, degrading to the deterministic fallback when the
// output cannot be parsed.
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Outcome is the explicit two-variant result of summary production:
// either the provider's JSON parsed cleanly, or the deterministic
// fallback was substituted. Both variants satisfy the six-field shape
// invariant, so callers handle them uniformly; Fallback and Cause exist
// for logging and the response's summary_source field.
type Outcome struct {
	Summary  *entities.StructuredSummary
	Fallback bool
	Cause    error
}

// ParseSummary parses provider content into a StructuredSummary.
// transcript is the full transcript used to build the fallback when
// parsing fails.
func (p *Parser) ParseSummary(content, transcript string) Outcome {
	jsonStr := extractJSON(content)

	var summary entities.StructuredSummary
	if err := json.Unmarshal([]byte(jsonStr), &summary); err != nil {
		return Outcome{
			Summary:  entities.NewFallbackSummary(transcript),
			Fallback: true,
			Cause:    fmt.Errorf("failed to parse summary JSON: %w", err),
		}
	}

	// Absent keys must decode to empty structures, never stay nil.
	summary.Normalize()

	return Outcome{Summary: &summary}
}

// FallbackOutcome builds the fallback variant directly, for when the
// provider call itself failed and there is no content to parse.
func (p *Parser) FallbackOutcome(transcript string, cause error) Outcome {
	return Outcome{
		Summary:  entities.NewFallbackSummary(transcript),
		Fallback: true,
		Cause:    cause,
	}
}

// extractJSON extracts JSON content from markdown code blocks or plain
// text (the provider sometimes wraps its answer in a fence despite the
// prompt)
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
