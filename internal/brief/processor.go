package brief

import (
	"context"
	"fmt"
)

// Processor runs the per-meeting pipeline: classify, extract keywords,
// aggregate context, synthesize. It always produces a MeetingBrief for the
// meeting it was given; failures degrade the prose rather than dropping the
// meeting from the digest.
type Processor struct {
	Aggregator  *Aggregator
	Synthesizer *Synthesizer
}

// Process builds the brief for one meeting. The only error it returns is
// batch-level cancellation; callers that receive an error should fall back to
// ErrorBrief so the digest still lists the meeting.
func (p *Processor) Process(ctx context.Context, meeting Meeting, calendarID string) (MeetingBrief, error) {
	if err := ctx.Err(); err != nil {
		return MeetingBrief{}, err
	}

	internal, external := SplitAttendees(meeting.Attendees)
	meetingType := Classify(meeting.Summary, external)
	keywords := ExtractKeywords(meeting.Summary, meeting.Description)

	mc := p.Aggregator.Gather(ctx, meeting, keywords, calendarID)

	prose := p.Synthesizer.Synthesize(ctx, SynthesisRequest{
		Subject:        meeting.Summary,
		Description:    meeting.Description,
		MeetingType:    meetingType,
		Start:          meeting.Start,
		End:            meeting.End,
		Location:       meeting.Location,
		ConferenceLink: meeting.HangoutLink,
		Attendees:      meeting.Attendees,
		Internal:       internal,
		External:       external,
		Context:        mc,
	})

	return MeetingBrief{
		Subject:   subjectOrUntitled(meeting),
		Brief:     prose,
		Meeting:   meeting,
		Start:     meeting.Start,
		End:       meeting.End,
		Attendees: meeting.Attendees,
		Stats:     mc.Stats(),
	}, nil
}

// ErrorBrief is the degraded brief used when processing a meeting fails
// outright. It preserves the original meeting so the digest still lists it.
func ErrorBrief(meeting Meeting, err error) MeetingBrief {
	return MeetingBrief{
		Subject:   subjectOrUntitled(meeting),
		Brief:     fmt.Sprintf("Error generating brief: %v", err),
		Meeting:   meeting,
		Start:     meeting.Start,
		End:       meeting.End,
		Attendees: meeting.Attendees,
	}
}

func subjectOrUntitled(meeting Meeting) string {
	if meeting.Summary == "" {
		return "Untitled Meeting"
	}
	return meeting.Summary
}
