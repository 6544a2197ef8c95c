package presenter

import (
	meetingdto "github.com/johnquangdev/meeting-minutes/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// dateLayout matches the history display format of the web client
const dateLayout = "2006/1/2 15:04"

// ToMeetingPayload maps a meeting entity to its API shape
func ToMeetingPayload(m *entities.Meeting) meetingdto.MeetingPayload {
	return meetingdto.MeetingPayload{
		ID:         m.ID,
		Title:      m.Title,
		Date:       m.CreatedAt.Local().Format(dateLayout),
		Transcript: m.Transcript,
		Summary:    m.Summary,
		AudioURL:   m.AudioURL,
	}
}

// ToMeetingList maps a slice of meeting entities, preserving order
func ToMeetingList(meetings []*entities.Meeting) []meetingdto.MeetingPayload {
	out := make([]meetingdto.MeetingPayload, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, ToMeetingPayload(m))
	}
	return out
}
