package googleapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenRefresh(t *testing.T) {
	var gotForm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotForm = string(body)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh",
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
	}))
	defer srv.Close()

	now := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)
	ts := &TokenSource{
		clientID:     "cid",
		clientSecret: "secret",
		tokenURL:     srv.URL,
		client:       srv.Client(),
		now:          func() time.Time { return now },
	}

	tok, err := ts.Refresh(context.Background(), "rt-1")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tok.AccessToken != "fresh" {
		t.Errorf("access token = %q", tok.AccessToken)
	}
	if want := now.Add(time.Hour); !tok.Expiry.Equal(want) {
		t.Errorf("expiry = %v, want %v", tok.Expiry, want)
	}
	for _, part := range []string{"client_id=cid", "refresh_token=rt-1", "grant_type=refresh_token"} {
		if !strings.Contains(gotForm, part) {
			t.Errorf("form missing %q: %s", part, gotForm)
		}
	}
}

func TestTokenRefreshMissingRefreshToken(t *testing.T) {
	ts := NewTokenSource("cid", "secret")
	if _, err := ts.Refresh(context.Background(), ""); err == nil {
		t.Error("expected error without a refresh token")
	}
}

func TestTokenValid(t *testing.T) {
	now := time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		tok  Token
		want bool
	}{
		{"valid", Token{AccessToken: "t", Expiry: now.Add(time.Hour)}, true},
		{"expired", Token{AccessToken: "t", Expiry: now.Add(-time.Hour)}, false},
		{"expiring within margin", Token{AccessToken: "t", Expiry: now.Add(30 * time.Second)}, false},
		{"empty", Token{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.Valid(now); got != tt.want {
				t.Errorf("Valid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalendarListEvents(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("auth header = %q", auth)
		}
		io.WriteString(w, `{"items": [
			{"id": "e1", "summary": "Q3 Planning", "status": "confirmed",
			 "start": {"dateTime": "2025-06-15T14:00:00Z"},
			 "end": {"dateTime": "2025-06-15T15:00:00Z"},
			 "hangoutLink": "https://meet.example/abc",
			 "attendees": [
				{"email": "me@x.com", "responseStatus": "accepted", "self": true},
				{"email": "c@y.com", "displayName": "Casey"}
			 ]},
			{"id": "e2", "summary": "Holiday", "status": "confirmed",
			 "start": {"date": "2025-06-15"}, "end": {"date": "2025-06-16"}}
		]}`)
	}))
	defer srv.Close()

	c := &CalendarClient{token: "tok", baseURL: srv.URL, client: srv.Client()}
	min := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	max := min.AddDate(0, 0, 1)

	meetings, err := c.ListEvents(context.Background(), "primary", min, max, "Q3", 5)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}

	for _, part := range []string{"singleEvents=true", "orderBy=startTime", "q=Q3", "maxResults=5"} {
		if !strings.Contains(gotURL, part) {
			t.Errorf("request URL missing %q: %s", part, gotURL)
		}
	}

	if len(meetings) != 2 {
		t.Fatalf("meetings = %d, want 2", len(meetings))
	}
	m := meetings[0]
	if m.Summary != "Q3 Planning" || m.HangoutLink != "https://meet.example/abc" {
		t.Errorf("meeting = %+v", m)
	}
	if !m.Start.Equal(time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", m.Start)
	}
	if len(m.Attendees) != 2 {
		t.Fatalf("attendees = %d", len(m.Attendees))
	}
	if !m.Attendees[0].Self || m.Attendees[0].Status != "accepted" {
		t.Errorf("self attendee = %+v", m.Attendees[0])
	}
	// Missing display name falls back to the email local part; missing
	// response status maps to "unknown".
	if m.Attendees[1].Name != "Casey" || m.Attendees[1].Status != "unknown" {
		t.Errorf("second attendee = %+v", m.Attendees[1])
	}

	// All-day events parse their date field.
	if !meetings[1].Start.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("all-day start = %v", meetings[1].Start)
	}
}

func TestCalendarListEventsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"code": 403, "message": "insufficient scope"}}`)
	}))
	defer srv.Close()

	c := &CalendarClient{token: "tok", baseURL: srv.URL, client: srv.Client()}
	_, err := c.ListEvents(context.Background(), "primary", time.Now(), time.Now(), "", 0)
	if err == nil || !strings.Contains(err.Error(), "insufficient scope") {
		t.Errorf("err = %v, want API message surfaced", err)
	}
}

func TestGmailSearchAndMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/users/me/messages"):
			if q := r.URL.Query().Get("q"); !strings.Contains(q, "after:") {
				t.Errorf("search query = %q", q)
			}
			io.WriteString(w, `{"messages": [{"id": "m1"}, {"id": "m2"}]}`)
		case strings.HasSuffix(r.URL.Path, "/users/me/messages/m1"):
			if got := r.URL.Query().Get("format"); got != "metadata" {
				t.Errorf("format = %q", got)
			}
			io.WriteString(w, `{"snippet": "numbers attached", "payload": {"headers": [
				{"name": "Subject", "value": "Budget"},
				{"name": "From", "value": "c@y.com"},
				{"name": "Date", "value": "Sun, 15 Jun 2025 09:00:00 +0000"}
			]}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := &GmailClient{token: "tok", baseURL: srv.URL, client: srv.Client()}

	ids, err := c.SearchMessages(context.Background(), "(budget) after:2025/06/01", 8)
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(ids) != 2 || ids[0] != "m1" {
		t.Errorf("ids = %v", ids)
	}

	meta, err := c.MessageMetadata(context.Background(), "m1")
	if err != nil {
		t.Fatalf("MessageMetadata: %v", err)
	}
	if meta.Subject != "Budget" || meta.From != "c@y.com" || meta.Snippet != "numbers attached" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestGmailMetadataNoSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"snippet": "", "payload": {"headers": []}}`)
	}))
	defer srv.Close()

	c := &GmailClient{token: "tok", baseURL: srv.URL, client: srv.Client()}
	meta, err := c.MessageMetadata(context.Background(), "m1")
	if err != nil {
		t.Fatalf("MessageMetadata: %v", err)
	}
	if meta.Subject != "No Subject" {
		t.Errorf("subject = %q", meta.Subject)
	}
}

func TestGmailSendHTML(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/users/me/messages/send") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		raw = body["raw"]
		io.WriteString(w, `{"id": "sent-1"}`)
	}))
	defer srv.Close()

	c := &GmailClient{token: "tok", baseURL: srv.URL, client: srv.Client()}
	err := c.SendHTML(context.Background(), "a@x.com", "Prep Brief", "<html><body>hi</body></html>")
	if err != nil {
		t.Fatalf("SendHTML: %v", err)
	}

	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw payload not base64url: %v", err)
	}
	msg := string(decoded)
	for _, part := range []string{
		"To: a@x.com\r\n",
		"Subject: Prep Brief\r\n",
		`Content-Type: text/html; charset="UTF-8"`,
		"<html><body>hi</body></html>",
	} {
		if !strings.Contains(msg, part) {
			t.Errorf("MIME missing %q:\n%s", part, msg)
		}
	}
}

func TestDriveSearchFiles(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		io.WriteString(w, `{"files": [
			{"name": "Plan", "mimeType": "application/vnd.google-apps.document",
			 "webViewLink": "https://docs.example/plan", "modifiedTime": "2025-06-10T00:00:00Z",
			 "owners": [{"displayName": "Dana"}]}
		]}`)
	}))
	defer srv.Close()

	c := &DriveClient{token: "tok", baseURL: srv.URL, client: srv.Client()}
	files, err := c.SearchFiles(context.Background(), "fullText contains 'plan'", 6)
	if err != nil {
		t.Fatalf("SearchFiles: %v", err)
	}

	if !strings.Contains(gotURL, "pageSize=6") {
		t.Errorf("URL missing pageSize: %s", gotURL)
	}
	if !strings.Contains(gotURL, "fields=") {
		t.Errorf("URL missing fields projection: %s", gotURL)
	}

	if len(files) != 1 {
		t.Fatalf("files = %d", len(files))
	}
	f := files[0]
	if f.Name != "Plan" || f.MimeType != "application/vnd.google-apps.document" ||
		f.Link != "https://docs.example/plan" || len(f.Owners) != 1 || f.Owners[0] != "Dana" {
		t.Errorf("file = %+v", f)
	}
}
