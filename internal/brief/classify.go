package brief

import "strings"

// MeetingType labels a meeting, used to steer the tone of the brief.
type MeetingType string

const (
	TypeInterview    MeetingType = "interview"
	TypeStandup      MeetingType = "standup"
	TypeOneOnOne     MeetingType = "one-on-one"
	TypeReview       MeetingType = "review"
	TypePlanning     MeetingType = "planning"
	TypePresentation MeetingType = "presentation"
	TypeKickoff      MeetingType = "kickoff"
	TypeExternal     MeetingType = "external"
	TypeGeneral      MeetingType = "general"
)

// Classify labels a meeting from its title and external attendee list.
// Topical labels always take precedence over the generic "external" label;
// first match on the lowercased title wins.
func Classify(title string, external []Attendee) MeetingType {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "interview"):
		return TypeInterview
	case strings.Contains(t, "standup"), strings.Contains(t, "stand-up"):
		return TypeStandup
	case strings.Contains(t, "1:1"), strings.Contains(t, "one on one"), strings.Contains(t, "1-1"):
		return TypeOneOnOne
	case strings.Contains(t, "review"):
		return TypeReview
	case strings.Contains(t, "planning"), strings.Contains(t, "sprint"):
		return TypePlanning
	case strings.Contains(t, "demo"), strings.Contains(t, "presentation"):
		return TypePresentation
	case strings.Contains(t, "kickoff"), strings.Contains(t, "kick-off"):
		return TypeKickoff
	case len(external) > 0:
		return TypeExternal
	}
	return TypeGeneral
}
