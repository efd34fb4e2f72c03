package googleapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/madeeas/meetingprep/internal/brief"
)

const driveBaseURL = "https://www.googleapis.com/drive/v3"

// DriveClient full-text searches the Google Drive API for one user.
type DriveClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewDriveClient creates a Drive client bound to a bearer token.
func NewDriveClient(token string) *DriveClient {
	return &DriveClient{
		token:   token,
		baseURL: driveBaseURL,
		client:  newHTTPClient(),
	}
}

type fileListResponse struct {
	Files []struct {
		Name         string `json:"name"`
		MimeType     string `json:"mimeType"`
		WebViewLink  string `json:"webViewLink"`
		ModifiedTime string `json:"modifiedTime"`
		Owners       []struct {
			DisplayName string `json:"displayName"`
		} `json:"owners"`
	} `json:"files"`
}

// SearchFiles runs a Drive query and returns raw file records; type
// labelling is left to the caller.
func (c *DriveClient) SearchFiles(ctx context.Context, query string, pageSize int) ([]brief.DriveFile, error) {
	params := url.Values{
		"q":        {query},
		"pageSize": {strconv.Itoa(pageSize)},
		"fields":   {"files(id, name, mimeType, webViewLink, modifiedTime, owners)"},
	}
	endpoint := fmt.Sprintf("%s/files?%s", c.baseURL, params.Encode())

	var resp fileListResponse
	if err := getJSON(ctx, c.client, c.token, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}

	files := make([]brief.DriveFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		owners := make([]string, 0, len(f.Owners))
		for _, o := range f.Owners {
			owners = append(owners, o.DisplayName)
		}
		files = append(files, brief.DriveFile{
			Name:     f.Name,
			MimeType: f.MimeType,
			Link:     f.WebViewLink,
			Modified: f.ModifiedTime,
			Owners:   owners,
		})
	}
	return files, nil
}
