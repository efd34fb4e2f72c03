package brief

import (
	"context"
	"time"
)

// CalendarSource lists calendar events in a time window.
// Implementations: googleapi.CalendarClient
type CalendarSource interface {
	// ListEvents returns events between min and max, single-instance
	// expanded and ordered by start time. query optionally restricts
	// results by free-text match. maxResults caps the response (0 = backend
	// default).
	ListEvents(ctx context.Context, calendarID string, min, max time.Time, query string, maxResults int) ([]Meeting, error)
}

// MessageSource searches a message history and fetches per-message metadata.
// Implementations: googleapi.GmailClient
type MessageSource interface {
	// SearchMessages returns message IDs matching the query, newest first.
	SearchMessages(ctx context.Context, query string, maxResults int) ([]string, error)

	// MessageMetadata fetches subject/sender/date/snippet for one message.
	MessageMetadata(ctx context.Context, id string) (EmailContext, error)
}

// DocumentSource performs full-text search over a document store.
// Implementations: googleapi.DriveClient
type DocumentSource interface {
	SearchFiles(ctx context.Context, query string, pageSize int) ([]DriveFile, error)
}

// Completer turns a system+user prompt into prose.
// Implementations: completion.Client
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error)
}
