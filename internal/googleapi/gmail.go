package googleapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/madeeas/meetingprep/internal/brief"
)

const gmailBaseURL = "https://gmail.googleapis.com/gmail/v1"

// GmailClient searches mail, fetches per-message metadata, and sends the
// digest, all on behalf of one user ("me").
type GmailClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewGmailClient creates a Gmail client bound to a bearer token.
func NewGmailClient(token string) *GmailClient {
	return &GmailClient{
		token:   token,
		baseURL: gmailBaseURL,
		client:  newHTTPClient(),
	}
}

type messageListResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SearchMessages returns the IDs of messages matching the Gmail query,
// newest first.
func (c *GmailClient) SearchMessages(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{
		"q":          {query},
		"maxResults": {strconv.Itoa(maxResults)},
	}
	endpoint := fmt.Sprintf("%s/users/me/messages?%s", c.baseURL, params.Encode())

	var resp messageListResponse
	if err := getJSON(ctx, c.client, c.token, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

type messageResponse struct {
	Snippet string `json:"snippet"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

// MessageMetadata fetches subject, sender, date, and snippet for one message.
// No body is retrieved.
func (c *GmailClient) MessageMetadata(ctx context.Context, id string) (brief.EmailContext, error) {
	params := url.Values{
		"format":          {"metadata"},
		"metadataHeaders": {"Subject", "From", "Date"},
	}
	endpoint := fmt.Sprintf("%s/users/me/messages/%s?%s", c.baseURL, url.PathEscape(id), params.Encode())

	var resp messageResponse
	if err := getJSON(ctx, c.client, c.token, endpoint, &resp); err != nil {
		return brief.EmailContext{}, fmt.Errorf("get message %s: %w", id, err)
	}

	headers := make(map[string]string, len(resp.Payload.Headers))
	for _, h := range resp.Payload.Headers {
		headers[h.Name] = h.Value
	}

	subject := headers["Subject"]
	if subject == "" {
		subject = "No Subject"
	}
	return brief.EmailContext{
		Subject: subject,
		From:    headers["From"],
		Date:    headers["Date"],
		Snippet: resp.Snippet,
	}, nil
}

// SendHTML sends an HTML email from the authenticated user.
func (c *GmailClient) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	raw := base64.URLEncoding.EncodeToString(buildMIME(to, subject, htmlBody))
	payload, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	endpoint := c.baseURL + "/users/me/messages/send"
	if err := postJSON(ctx, c.client, c.token, endpoint, bytes.NewReader(payload), nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// buildMIME assembles a minimal single-part HTML RFC 2822 message.
func buildMIME(to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}
