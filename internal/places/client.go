// Package places is a small client for the Google Places API (New): text
// search for a venue and photo media download.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const searchFieldMask = "places.id,places.displayName,places.photos"

// Place is the first text-search hit for a venue.
type Place struct {
	ID          string
	DisplayName string
	PhotoNames  []string // resource names, "places/{id}/photos/{ref}"
}

// APIError is a non-2xx response from the Places API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("places api error: %d - %s", e.Status, e.Body)
}

// Client talks to the Places API.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient builds a client. A nil hc gets a client with a 30s timeout.
func NewClient(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), apiKey: apiKey, hc: hc}
}

type searchRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
}

type searchResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName *struct {
			Text string `json:"text"`
		} `json:"displayName"`
		Photos []struct {
			Name string `json:"name"`
		} `json:"photos"`
	} `json:"places"`
}

// SearchText returns the best match for query, or nil when nothing matches.
func (c *Client) SearchText(ctx context.Context, query string) (*Place, error) {
	body, err := json.Marshal(searchRequest{TextQuery: query, MaxResultCount: 1})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places search: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode places search: %w", err)
	}
	if len(sr.Places) == 0 {
		return nil, nil
	}
	hit := sr.Places[0]
	p := &Place{ID: hit.ID}
	if hit.DisplayName != nil {
		p.DisplayName = hit.DisplayName.Text
	}
	for _, ph := range hit.Photos {
		if ph.Name != "" {
			p.PhotoNames = append(p.PhotoNames, ph.Name)
		}
	}
	return p, nil
}

// DownloadPhoto streams the photo media for photoName into w, scaled to
// at most maxWidth pixels wide. It returns the number of bytes written.
func (c *Client) DownloadPhoto(ctx context.Context, photoName string, maxWidth int, w io.Writer) (int64, error) {
	q := url.Values{}
	q.Set("maxWidthPx", strconv.Itoa(maxWidth))
	q.Set("key", c.apiKey)
	u := c.baseURL + "/" + strings.TrimPrefix(photoName, "/") + "/media?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("places media: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return 0, err
	}
	return io.Copy(w, resp.Body)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
