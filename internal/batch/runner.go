package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/madeeas/meetingprep/internal/brief"
	"github.com/madeeas/meetingprep/internal/googleapi"
	"github.com/madeeas/meetingprep/internal/store"
)

// Store is the slice of the record store the batch needs.
// Implementations: store.Store
type Store interface {
	ListActiveUsers() ([]store.User, error)
	UpdateUserCredentials(id, accessToken string, expiry time.Time) error
	AppendRunLog(e store.RunLogEntry) error
}

// TokenRefresher exchanges a refresh token for a fresh access token.
// Implementations: googleapi.TokenSource
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (googleapi.Token, error)
}

// Sender dispatches one digest. Fire-and-forget: no delivery status is
// consumed.
type Sender interface {
	SendHTML(ctx context.Context, to, subject, htmlBody string) error
}

// Session bundles the per-user backends, all bound to one bearer token.
type Session struct {
	Calendar  brief.CalendarSource
	Messages  brief.MessageSource
	Documents brief.DocumentSource
	Sender    Sender
}

// SessionFunc builds a Session for a bearer token.
type SessionFunc func(token string) *Session

// Stats is the aggregate result of one batch pass.
type Stats struct {
	Processed  int `json:"processed"`
	TotalUsers int `json:"total_users"`
}

// Runner iterates all active users, applies the schedule gate and the
// per-user orchestration, and isolates per-user failures so one broken user
// never stops the batch.
type Runner struct {
	Store       Store
	Credentials TokenRefresher
	Sessions    SessionFunc
	Completer   brief.Completer

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run executes one batch pass. force bypasses the schedule gate (used by the
// on-demand trigger). The returned error covers only the inability to list
// users; per-user failures are logged and counted, never propagated.
func (r *Runner) Run(ctx context.Context, force bool) (Stats, error) {
	users, err := r.Store.ListActiveUsers()
	if err != nil {
		return Stats{}, fmt.Errorf("list active users: %w", err)
	}

	now := r.now().UTC()
	stats := Stats{TotalUsers: len(users)}

	for _, u := range users {
		if !force && !ShouldSend(u, now) {
			continue
		}

		log.Printf("processing user %s", u.Email)
		if err := r.processUser(ctx, u, now); err != nil {
			log.Printf("error processing %s: %v", u.Email, err)
			logErr := r.Store.AppendRunLog(store.RunLogEntry{
				UserID:       u.ID,
				MeetingCount: 0,
				Status:       store.StatusFailed,
				ErrorMessage: err.Error(),
				SentAt:       r.now().UTC(),
			})
			if logErr != nil {
				log.Printf("failed to record run log for %s: %v", u.Email, logErr)
			}
			continue
		}
		stats.Processed++
	}

	log.Printf("processed %d/%d users", stats.Processed, stats.TotalUsers)
	return stats, nil
}

// processUser runs steps 2-6 for one user: credentials, fetch+filter,
// meeting fan-out, compose+send, success log. Any returned error is recorded
// as a failed run-log entry by the caller.
func (r *Runner) processUser(ctx context.Context, u store.User, now time.Time) error {
	token, err := r.ensureCredentials(ctx, u, now)
	if err != nil {
		return err
	}

	session := r.Sessions(token.AccessToken)

	dayStart, dayEnd := DayBounds(u.Timezone, now)
	meetings, err := session.Calendar.ListEvents(ctx, u.CalendarID, dayStart, dayEnd, "", 0)
	if err != nil {
		return fmt.Errorf("fetch today's events: %w", err)
	}

	var real []brief.Meeting
	for _, m := range meetings {
		if m.IsReal() {
			real = append(real, m)
		}
	}

	if len(real) == 0 {
		log.Printf("no meetings today for %s", u.Email)
		return r.Store.AppendRunLog(store.RunLogEntry{
			UserID:       u.ID,
			MeetingCount: 0,
			Status:       store.StatusSuccess,
			ErrorMessage: "No meetings today",
			SentAt:       r.now().UTC(),
		})
	}

	processor := &brief.Processor{
		Aggregator: &brief.Aggregator{
			Messages:  session.Messages,
			Documents: session.Documents,
			Calendar:  session.Calendar,
			Now:       r.now,
		},
		Synthesizer: &brief.Synthesizer{Completer: r.Completer},
	}

	briefs := make([]brief.MeetingBrief, 0, len(real))
	for _, m := range real {
		b, err := processor.Process(ctx, m, u.CalendarID)
		if err != nil {
			log.Printf("error processing meeting %q for %s: %v", m.Summary, u.Email, err)
			b = brief.ErrorBrief(m, err)
		}
		briefs = append(briefs, b)
	}

	digest := brief.ComposeDigest(briefs, now, Location(u.Timezone))
	if err := session.Sender.SendHTML(ctx, u.Email, digest.Subject, digest.HTML); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	if err := r.Store.AppendRunLog(store.RunLogEntry{
		UserID:       u.ID,
		MeetingCount: len(real),
		Status:       store.StatusSuccess,
		SentAt:       r.now().UTC(),
	}); err != nil {
		return err
	}

	log.Printf("sent brief with %d meetings to %s", len(real), u.Email)
	return nil
}

// ensureCredentials returns a usable bearer token for the user, refreshing
// and persisting it when the stored one is missing or expiring. A user with
// no usable credential is a hard failure.
func (r *Runner) ensureCredentials(ctx context.Context, u store.User, now time.Time) (googleapi.Token, error) {
	current := googleapi.Token{AccessToken: u.AccessToken, Expiry: u.TokenExpiry}
	if current.Valid(now) {
		return current, nil
	}

	if u.RefreshToken == "" {
		return googleapi.Token{}, fmt.Errorf("no valid Google credentials")
	}

	fresh, err := r.Credentials.Refresh(ctx, u.RefreshToken)
	if err != nil {
		return googleapi.Token{}, fmt.Errorf("refresh credentials: %w", err)
	}

	if fresh.AccessToken != u.AccessToken {
		if err := r.Store.UpdateUserCredentials(u.ID, fresh.AccessToken, fresh.Expiry); err != nil {
			return googleapi.Token{}, fmt.Errorf("persist refreshed credentials: %w", err)
		}
	}
	return fresh, nil
}
