package brief

import (
	"strings"
	"time"
)

// Meeting is a single calendar event as returned by the calendar backend.
// Immutable within a run.
type Meeting struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
	HangoutLink string
	Status      string
	Attendees   []Attendee
}

// IsReal reports whether the meeting is worth briefing: it has at least one
// attendee and is not cancelled.
func (m Meeting) IsReal() bool {
	return len(m.Attendees) > 0 && m.Status != "cancelled"
}

// Attendee is one participant on a meeting.
type Attendee struct {
	Email     string
	Name      string
	Status    string // accepted, declined, tentative, needsAction, unknown
	Organizer bool
	Self      bool
}

// Domain returns the part of the attendee's email after the last "@",
// or "" if the email has none.
func (a Attendee) Domain() string {
	idx := strings.LastIndex(a.Email, "@")
	if idx < 0 {
		return ""
	}
	return a.Email[idx+1:]
}

// SplitAttendees partitions attendees into internal and external by comparing
// each email domain to the domain of the attendee marked self. When no
// attendee is marked self, everyone is treated as internal.
func SplitAttendees(attendees []Attendee) (internal, external []Attendee) {
	selfDomain := ""
	for _, a := range attendees {
		if a.Self {
			selfDomain = a.Domain()
			break
		}
	}

	for _, a := range attendees {
		if selfDomain != "" && a.Domain() != selfDomain {
			external = append(external, a)
		} else {
			internal = append(internal, a)
		}
	}
	return internal, external
}

// EmailContext is one related email found for a meeting. Metadata only, no
// body.
type EmailContext struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// DocumentContext is one related document found for a meeting.
type DocumentContext struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Link     string `json:"link"`
	Modified string `json:"modified"`
	Owner    string `json:"owner"`
}

// PriorMeeting is an earlier occurrence of a similar meeting.
type PriorMeeting struct {
	Subject       string `json:"subject"`
	Date          string `json:"date"`
	AttendeeCount int    `json:"attendee_count"`
	Description   string `json:"description"`
}

// DriveFile is a raw document-store search result before type labelling.
type DriveFile struct {
	Name     string
	MimeType string
	Link     string
	Modified string
	Owners   []string
}

// ContextStats counts how much context each source contributed.
type ContextStats struct {
	Emails        int
	Documents     int
	PriorMeetings int
}

// MeetingBrief is the synthesized preparation brief for one meeting,
// consumed by the digest composer. Not persisted.
type MeetingBrief struct {
	Subject   string
	Brief     string
	Meeting   Meeting
	Start     time.Time
	End       time.Time
	Attendees []Attendee
	Stats     ContextStats
}
