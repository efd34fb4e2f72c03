package brief

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	emailLookbackDays   = 14
	priorLookbackDays   = 60
	maxEmailResults     = 8
	maxDocumentResults  = 6
	maxPriorMeetings    = 5
	maxQueryAttendees   = 5
	priorDescriptionCap = 200

	defaultSearchTimeout = 15 * time.Second
)

// Human labels for document-store MIME types; anything unrecognized is a
// plain "Document".
var mimeLabels = map[string]string{
	"application/vnd.google-apps.document":     "Google Doc",
	"application/vnd.google-apps.spreadsheet":  "Google Sheet",
	"application/vnd.google-apps.presentation": "Google Slides",
	"application/pdf":                          "PDF",
}

// MimeLabel converts a native MIME type to a human-readable label.
func MimeLabel(mimeType string) string {
	if label, ok := mimeLabels[mimeType]; ok {
		return label
	}
	return "Document"
}

// MeetingContext is the aggregated related context for one meeting.
type MeetingContext struct {
	Emails        []EmailContext
	Documents     []DocumentContext
	PriorMeetings []PriorMeeting
}

// Stats summarizes how much context each source contributed.
func (c MeetingContext) Stats() ContextStats {
	return ContextStats{
		Emails:        len(c.Emails),
		Documents:     len(c.Documents),
		PriorMeetings: len(c.PriorMeetings),
	}
}

// Aggregator runs the three context searches for a meeting. Each search is
// best-effort: a failure is logged and surfaces as an empty list, so one slow
// or broken backend never vetoes the others or the meeting.
type Aggregator struct {
	Messages  MessageSource
	Documents DocumentSource
	Calendar  CalendarSource

	// SearchTimeout bounds each individual sub-search. Zero means the
	// default of 15s.
	SearchTimeout time.Duration

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Aggregator) timeout() time.Duration {
	if a.SearchTimeout > 0 {
		return a.SearchTimeout
	}
	return defaultSearchTimeout
}

// Gather runs the three sub-searches concurrently and combines whatever
// succeeded. It never returns an error.
func (a *Aggregator) Gather(ctx context.Context, meeting Meeting, keywords, calendarID string) MeetingContext {
	var (
		wg  sync.WaitGroup
		mc  MeetingContext
		err [3]error
	)

	run := func(name string, e *error, fn func(context.Context) error) {
		defer wg.Done()
		searchCtx, cancel := context.WithTimeout(ctx, a.timeout())
		defer cancel()
		if *e = fn(searchCtx); *e != nil {
			log.Printf("context search %s failed for %q: %v", name, meeting.Summary, *e)
		}
	}

	wg.Add(3)
	go run("emails", &err[0], func(ctx context.Context) error {
		emails, e := a.searchEmails(ctx, keywords, meeting.Attendees)
		mc.Emails = emails
		return e
	})
	go run("documents", &err[1], func(ctx context.Context) error {
		docs, e := a.searchDocuments(ctx, keywords)
		mc.Documents = docs
		return e
	})
	go run("prior meetings", &err[2], func(ctx context.Context) error {
		prior, e := a.searchPriorMeetings(ctx, meeting.Summary, calendarID)
		mc.PriorMeetings = prior
		return e
	})
	wg.Wait()

	return mc
}

// searchEmails queries the message backend for mail matching the meeting
// keywords or sent by any non-self attendee, within the trailing 14-day
// window. Metadata only.
func (a *Aggregator) searchEmails(ctx context.Context, keywords string, attendees []Attendee) ([]EmailContext, error) {
	if a.Messages == nil {
		return nil, nil
	}

	var queryParts []string
	if keywords != "" {
		queryParts = append(queryParts, "("+keywords+")")
	}

	var fromParts []string
	for _, at := range attendees {
		if at.Self || at.Email == "" {
			continue
		}
		fromParts = append(fromParts, "from:"+at.Email)
		if len(fromParts) == maxQueryAttendees {
			break
		}
	}
	if len(fromParts) > 0 {
		queryParts = append(queryParts, "("+strings.Join(fromParts, " OR ")+")")
	}
	if len(queryParts) == 0 {
		return nil, nil
	}

	after := a.now().AddDate(0, 0, -emailLookbackDays).Format("2006/01/02")
	query := strings.Join(queryParts, " OR ") + " after:" + after

	ids, err := a.Messages.SearchMessages(ctx, query, maxEmailResults)
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	if len(ids) > maxEmailResults {
		ids = ids[:maxEmailResults]
	}

	emails := make([]EmailContext, 0, len(ids))
	for _, id := range ids {
		meta, err := a.Messages.MessageMetadata(ctx, id)
		if err != nil {
			return emails, fmt.Errorf("message metadata %s: %w", id, err)
		}
		emails = append(emails, meta)
	}
	return emails, nil
}

// searchDocuments full-text searches the document store on the first three
// keywords and labels each hit's MIME type.
func (a *Aggregator) searchDocuments(ctx context.Context, keywords string) ([]DocumentContext, error) {
	if a.Documents == nil || keywords == "" {
		return nil, nil
	}

	terms := strings.Fields(keywords)
	if len(terms) > 3 {
		terms = terms[:3]
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("fullText contains '%s'", t))
	}
	query := strings.Join(parts, " or ")

	files, err := a.Documents.SearchFiles(ctx, query, maxDocumentResults)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	docs := make([]DocumentContext, 0, len(files))
	for _, f := range files {
		owner := ""
		if len(f.Owners) > 0 {
			owner = f.Owners[0]
		}
		docs = append(docs, DocumentContext{
			Name:     f.Name,
			Type:     MimeLabel(f.MimeType),
			Link:     f.Link,
			Modified: f.Modified,
			Owner:    owner,
		})
	}
	return docs, nil
}

// searchPriorMeetings finds earlier occurrences of similar meetings: events
// in the trailing 60 days, ending at the start of today, whose text matches
// the first word of the current title.
func (a *Aggregator) searchPriorMeetings(ctx context.Context, title, calendarID string) ([]PriorMeeting, error) {
	if a.Calendar == nil {
		return nil, nil
	}

	firstWord := ""
	if fields := strings.Fields(title); len(fields) > 0 {
		firstWord = fields[0]
	}

	now := a.now().UTC()
	timeMax := now.Truncate(24 * time.Hour)
	timeMin := now.AddDate(0, 0, -priorLookbackDays)

	events, err := a.Calendar.ListEvents(ctx, calendarID, timeMin, timeMax, firstWord, maxPriorMeetings)
	if err != nil {
		return nil, fmt.Errorf("search prior meetings: %w", err)
	}

	prior := make([]PriorMeeting, 0, len(events))
	for _, e := range events {
		desc := e.Description
		if len(desc) > priorDescriptionCap {
			desc = desc[:priorDescriptionCap]
		}
		prior = append(prior, PriorMeeting{
			Subject:       e.Summary,
			Date:          e.Start.Format(time.RFC3339),
			AttendeeCount: len(e.Attendees),
			Description:   desc,
		})
	}
	return prior, nil
}
