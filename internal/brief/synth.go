package brief

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 2000

	maxPromptEmails    = 5
	maxPromptDocuments = 5
	maxPromptPrior     = 3
)

// systemPrompt defines the required sections of every brief. The completion
// model is expected to answer in lightweight markdown, which the digest
// composer later converts to HTML.
const systemPrompt = `You are an elite executive assistant AI that creates concise, high-impact meeting preparation briefs. Your briefs help busy executives walk into every meeting fully prepared.

YOUR BRIEF MUST INCLUDE:

## Meeting Snapshot
One paragraph: what this meeting is about, why it matters, expected outcome.

## Key Attendees
For each key attendee:
- Name, role/context
- Their likely priorities
- Suggested talking points

## Objectives & Decision Points
- Primary objective
- Specific decisions needed
- Questions to answer

## Background Context
- History from previous meetings
- Key points from related emails
- Important context from documents

## Required Documents
- Links to relevant files

## Potential Concerns
- Issues that might come up
- Sensitivities and risks

## Recommended Preparation
- Things to review before the meeting
- Data points to have ready

GUIDELINES:
- Be concise but thorough
- Focus on actionable insights
- Use bullet points for readability
- If context is limited, say what's unknown`

// SynthesisRequest enumerates every field the prompt builder consumes, so the
// prompt-construction contract is statically checkable.
type SynthesisRequest struct {
	Subject        string
	Description    string
	MeetingType    MeetingType
	Start          time.Time
	End            time.Time
	Location       string
	ConferenceLink string
	Attendees      []Attendee
	Internal       []Attendee
	External       []Attendee
	Context        MeetingContext
}

// Synthesizer builds the structured prompt and invokes the completion
// service.
type Synthesizer struct {
	Completer   Completer
	Temperature float64 // zero means the default of 0.7
	MaxTokens   int     // zero means the default of 2000
}

// Synthesize returns the brief prose for the request. On any backend failure
// it returns a fallback string naming the failure instead of an error, so one
// failed synthesis never blocks the digest for other meetings.
func (s *Synthesizer) Synthesize(ctx context.Context, req SynthesisRequest) string {
	temperature := s.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := s.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	text, err := s.Completer.Complete(ctx, systemPrompt, BuildUserPrompt(req), temperature, maxTokens)
	if err != nil {
		return fmt.Sprintf("AI brief generation failed: %v", err)
	}
	return text
}

type promptAttendee struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// BuildUserPrompt serializes the request into the structured context message
// sent to the completion service.
func BuildUserPrompt(req SynthesisRequest) string {
	var sb strings.Builder

	sb.WriteString("Create a meeting preparation brief for:\n\n")
	fmt.Fprintf(&sb, "MEETING: %s\n", orDefault(req.Subject, "Meeting"))
	fmt.Fprintf(&sb, "Type: %s\n", orDefault(string(req.MeetingType), string(TypeGeneral)))
	fmt.Fprintf(&sb, "Time: %s to %s\n", formatPromptTime(req.Start), formatPromptTime(req.End))
	fmt.Fprintf(&sb, "Location: %s\n", orDefault(req.Location, "Not specified"))
	fmt.Fprintf(&sb, "Conference: %s\n\n", orDefault(req.ConferenceLink, "No link"))

	fmt.Fprintf(&sb, "ATTENDEES (%d people):\n", len(req.Attendees))
	fmt.Fprintf(&sb, "Internal: %s\n", rosterJSON(req.Internal))
	fmt.Fprintf(&sb, "External: %s\n\n", rosterJSON(req.External))

	fmt.Fprintf(&sb, "DESCRIPTION:\n%s\n\n", orDefault(req.Description, "No description"))

	emails := req.Context.Emails
	if len(emails) > maxPromptEmails {
		emails = emails[:maxPromptEmails]
	}
	fmt.Fprintf(&sb, "RELATED EMAILS (%d found):\n%s\n\n", len(req.Context.Emails), blockJSON(emails))

	docs := req.Context.Documents
	if len(docs) > maxPromptDocuments {
		docs = docs[:maxPromptDocuments]
	}
	fmt.Fprintf(&sb, "RELATED DOCUMENTS (%d found):\n%s\n\n", len(req.Context.Documents), blockJSON(docs))

	prior := req.Context.PriorMeetings
	if len(prior) > maxPromptPrior {
		prior = prior[:maxPromptPrior]
	}
	fmt.Fprintf(&sb, "PREVIOUS MEETINGS (%d found):\n%s\n\n", len(req.Context.PriorMeetings), blockJSON(prior))

	sb.WriteString("Generate a comprehensive but scannable meeting preparation brief.")
	return sb.String()
}

func rosterJSON(attendees []Attendee) string {
	roster := make([]promptAttendee, 0, len(attendees))
	for _, a := range attendees {
		roster = append(roster, promptAttendee{Name: a.Name, Email: a.Email, Status: a.Status})
	}
	return blockJSON(roster)
}

func blockJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func formatPromptTime(t time.Time) string {
	if t.IsZero() {
		return "TBD"
	}
	return t.Format(time.RFC3339)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
