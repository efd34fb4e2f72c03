package brief

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Common test errors
var (
	ErrMockSearch     = errors.New("mock search error")
	ErrMockCompletion = errors.New("mock completion error")
)

// MockMessageSource implements MessageSource for testing
type MockMessageSource struct {
	mu           sync.Mutex
	SearchFunc   func(ctx context.Context, query string, maxResults int) ([]string, error)
	MetadataFunc func(ctx context.Context, id string) (EmailContext, error)
	IDs          []string
	Emails       map[string]EmailContext
	LastQuery    string
	LastMax      int
	CallCount    int
	FailSearch   bool
}

func (m *MockMessageSource) SearchMessages(ctx context.Context, query string, maxResults int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	m.LastQuery = query
	m.LastMax = maxResults
	if m.FailSearch {
		return nil, ErrMockSearch
	}
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, maxResults)
	}
	return m.IDs, nil
}

func (m *MockMessageSource) MessageMetadata(ctx context.Context, id string) (EmailContext, error) {
	if m.MetadataFunc != nil {
		return m.MetadataFunc(ctx, id)
	}
	if email, ok := m.Emails[id]; ok {
		return email, nil
	}
	return EmailContext{Subject: "msg " + id}, nil
}

// MockDocumentSource implements DocumentSource for testing
type MockDocumentSource struct {
	mu         sync.Mutex
	SearchFunc func(ctx context.Context, query string, pageSize int) ([]DriveFile, error)
	Files      []DriveFile
	LastQuery  string
	LastPage   int
	CallCount  int
	Fail       bool
}

func (m *MockDocumentSource) SearchFiles(ctx context.Context, query string, pageSize int) ([]DriveFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	m.LastQuery = query
	m.LastPage = pageSize
	if m.Fail {
		return nil, ErrMockSearch
	}
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, pageSize)
	}
	return m.Files, nil
}

// MockCalendarSource implements CalendarSource for testing
type MockCalendarSource struct {
	mu        sync.Mutex
	ListFunc  func(ctx context.Context, calendarID string, min, max time.Time, query string, maxResults int) ([]Meeting, error)
	Meetings  []Meeting
	LastQuery string
	LastMin   time.Time
	LastMax   time.Time
	CallCount int
	Fail      bool
}

func (m *MockCalendarSource) ListEvents(ctx context.Context, calendarID string, min, max time.Time, query string, maxResults int) ([]Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	m.LastQuery = query
	m.LastMin = min
	m.LastMax = max
	if m.Fail {
		return nil, ErrMockSearch
	}
	if m.ListFunc != nil {
		return m.ListFunc(ctx, calendarID, min, max, query, maxResults)
	}
	return m.Meetings, nil
}

// MockCompleter implements Completer for testing
type MockCompleter struct {
	mu           sync.Mutex
	CompleteFunc func(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
	Response     string
	LastSystem   string
	LastUser     string
	CallCount    int
	FailOnCall   int // Fail on Nth call (0 = never fail)
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	m.LastSystem = system
	m.LastUser = user
	if m.FailOnCall > 0 && m.CallCount == m.FailOnCall {
		return "", ErrMockCompletion
	}
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user, temperature, maxTokens)
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return "mock brief", nil
}
