package cli

import (
	"github.com/madeeas/meetingprep/internal/batch"
	"github.com/madeeas/meetingprep/internal/completion"
	"github.com/madeeas/meetingprep/internal/config"
	"github.com/madeeas/meetingprep/internal/googleapi"
	"github.com/madeeas/meetingprep/internal/store"
)

// newRunner assembles the batch runner and its backends from config. The
// caller owns closing the returned store.
func newRunner(cfg *config.Config) (*batch.Runner, *store.Store, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	runner := &batch.Runner{
		Store:       st,
		Credentials: googleapi.NewTokenSource(cfg.Google.ClientID, cfg.Google.ClientSecret),
		Sessions:    googleSession,
		Completer:   completion.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
	}
	return runner, st, nil
}

// googleSession binds all per-user backends to one bearer token.
func googleSession(token string) *batch.Session {
	gmail := googleapi.NewGmailClient(token)
	return &batch.Session{
		Calendar:  googleapi.NewCalendarClient(token),
		Messages:  gmail,
		Documents: googleapi.NewDriveClient(token),
		Sender:    gmail,
	}
}
