package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultEndpoint = "https://serpapi.com/search"
	MaxResults      = 5
)

// SerpAPI looks up image thumbnails through the SerpAPI Google Images
// engine.
type SerpAPI struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

type serpResponse struct {
	ImagesResults []struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"images_results"`
	Error string `json:"error"`
}

func NewSerpAPI(apiKey string, client *http.Client) *SerpAPI {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SerpAPI{client: client, endpoint: DefaultEndpoint, apiKey: apiKey}
}

// WithEndpoint points the client somewhere else, for tests and proxies.
func (s *SerpAPI) WithEndpoint(endpoint string) *SerpAPI {
	s.endpoint = endpoint
	return s
}

func (s *SerpAPI) ImageURLs(ctx context.Context, keyword string) ([]string, error) {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("tbm", "isch")
	q.Set("api_key", s.apiKey)
	q.Set("no_cache", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request: %w", err)
	}
	defer resp.Body.Close()

	var body serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode image response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image provider returned %d: %s", resp.StatusCode, body.Error)
	}

	urls := make([]string, 0, MaxResults)
	for _, r := range body.ImagesResults {
		if len(urls) == MaxResults {
			break
		}
		if r.Thumbnail != "" {
			urls = append(urls, r.Thumbnail)
		}
	}
	return urls, nil
}

// None is used when no API key is configured.
type None struct{}

func (None) ImageURLs(context.Context, string) ([]string, error) {
	return []string{}, nil
}
