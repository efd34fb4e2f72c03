package batch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/madeeas/meetingprep/internal/brief"
	"github.com/madeeas/meetingprep/internal/googleapi"
	"github.com/madeeas/meetingprep/internal/store"
)

// Common test errors
var (
	ErrMockRefresh = errors.New("mock refresh error")
	ErrMockSend    = errors.New("mock send error")
	ErrMockList    = errors.New("mock list error")
)

// MockStore implements Store for testing
type MockStore struct {
	mu          sync.Mutex
	Users       []store.User
	Logs        []store.RunLogEntry
	Credentials map[string]string // user ID -> persisted access token
	FailList    bool
}

func NewMockStore(users ...store.User) *MockStore {
	return &MockStore{Users: users, Credentials: make(map[string]string)}
}

func (m *MockStore) ListActiveUsers() ([]store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailList {
		return nil, ErrMockList
	}
	return m.Users, nil
}

func (m *MockStore) UpdateUserCredentials(id, accessToken string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Credentials[id] = accessToken
	return nil
}

func (m *MockStore) AppendRunLog(e store.RunLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, e)
	return nil
}

func (m *MockStore) LogsFor(userID string) []store.RunLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.RunLogEntry
	for _, e := range m.Logs {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// MockRefresher implements TokenRefresher for testing
type MockRefresher struct {
	mu          sync.Mutex
	Token       googleapi.Token
	CallCount   int
	FailForUser map[string]bool // refresh token -> fail
}

func (m *MockRefresher) Refresh(ctx context.Context, refreshToken string) (googleapi.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	if m.FailForUser[refreshToken] {
		return googleapi.Token{}, ErrMockRefresh
	}
	if m.Token.AccessToken == "" {
		return googleapi.Token{AccessToken: "fresh-" + refreshToken, Expiry: time.Now().Add(time.Hour)}, nil
	}
	return m.Token, nil
}

// MockSender implements Sender for testing
type MockSender struct {
	mu        sync.Mutex
	Sent      []SentMail
	CallCount int
	Fail      bool
}

type SentMail struct {
	To      string
	Subject string
	HTML    string
}

func (m *MockSender) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	if m.Fail {
		return ErrMockSend
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, HTML: htmlBody})
	return nil
}

// mockCalendar implements brief.CalendarSource for testing. The first call
// per token returns the day's meetings; prior-meeting searches (calls with a
// query) return nothing.
type mockCalendar struct {
	mu       sync.Mutex
	Meetings []brief.Meeting
	Fail     bool
}

func (m *mockCalendar) ListEvents(ctx context.Context, calendarID string, min, max time.Time, query string, maxResults int) ([]brief.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return nil, errors.New("mock calendar error")
	}
	if query != "" {
		return nil, nil
	}
	return m.Meetings, nil
}

type mockMessages struct{}

func (mockMessages) SearchMessages(ctx context.Context, query string, maxResults int) ([]string, error) {
	return nil, nil
}

func (mockMessages) MessageMetadata(ctx context.Context, id string) (brief.EmailContext, error) {
	return brief.EmailContext{}, nil
}

type mockDocuments struct{}

func (mockDocuments) SearchFiles(ctx context.Context, query string, pageSize int) ([]brief.DriveFile, error) {
	return nil, nil
}

type mockCompleter struct {
	mu         sync.Mutex
	CallCount  int
	FailOnCall int
	Response   string
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	if m.FailOnCall > 0 && m.CallCount == m.FailOnCall {
		return "", errors.New("mock completion error")
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return "## Meeting Snapshot\nReady.", nil
}
