package googleapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/madeeas/meetingprep/internal/brief"
)

const calendarBaseURL = "https://www.googleapis.com/calendar/v3"

// CalendarClient lists events from the Google Calendar API for one user.
type CalendarClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewCalendarClient creates a calendar client bound to a bearer token.
func NewCalendarClient(token string) *CalendarClient {
	return &CalendarClient{
		token:   token,
		baseURL: calendarBaseURL,
		client:  newHTTPClient(),
	}
}

type eventsResponse struct {
	Items []eventItem `json:"items"`
}

type eventItem struct {
	ID          string      `json:"id"`
	Summary     string      `json:"summary"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	Location    string      `json:"location"`
	HangoutLink string      `json:"hangoutLink"`
	Start       eventTime   `json:"start"`
	End         eventTime   `json:"end"`
	Attendees   []eventUser `json:"attendees"`
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type eventUser struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	ResponseStatus string `json:"responseStatus"`
	Organizer      bool   `json:"organizer"`
	Self           bool   `json:"self"`
}

// ListEvents returns events between min and max, single-instance expanded and
// ordered by start time. query optionally restricts results by free-text
// match; maxResults of 0 means the backend default.
func (c *CalendarClient) ListEvents(ctx context.Context, calendarID string, min, max time.Time, query string, maxResults int) ([]brief.Meeting, error) {
	params := url.Values{
		"timeMin":      {min.Format(time.RFC3339)},
		"timeMax":      {max.Format(time.RFC3339)},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}
	if query != "" {
		params.Set("q", query)
	}
	if maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(maxResults))
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(calendarID), params.Encode())

	var resp eventsResponse
	if err := getJSON(ctx, c.client, c.token, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	meetings := make([]brief.Meeting, 0, len(resp.Items))
	for _, item := range resp.Items {
		meetings = append(meetings, item.toMeeting())
	}
	return meetings, nil
}

func (e eventItem) toMeeting() brief.Meeting {
	attendees := make([]brief.Attendee, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		attendees = append(attendees, brief.Attendee{
			Email:     a.Email,
			Name:      a.displayNameOrLocalPart(),
			Status:    statusOrUnknown(a.ResponseStatus),
			Organizer: a.Organizer,
			Self:      a.Self,
		})
	}
	return brief.Meeting{
		ID:          e.ID,
		Summary:     e.Summary,
		Description: e.Description,
		Start:       e.Start.parse(),
		End:         e.End.parse(),
		Location:    e.Location,
		HangoutLink: e.HangoutLink,
		Status:      e.Status,
		Attendees:   attendees,
	}
}

func (u eventUser) displayNameOrLocalPart() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	for i, r := range u.Email {
		if r == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

func statusOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// parse handles both timed ("dateTime") and all-day ("date") events.
func (t eventTime) parse() time.Time {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed
		}
	}
	if t.Date != "" {
		if parsed, err := time.Parse("2006-01-02", t.Date); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
