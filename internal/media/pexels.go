package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/deusflow/analystbot/internal/logger"
)

const defaultPexelsURL = "https://api.pexels.com/v1/search"

// Photo is one search hit from the image provider.
type Photo struct {
	ID              int64  `json:"id"`
	URL             string `json:"url"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Src             struct {
		Original string `json:"original"`
		Large2x  string `json:"large2x"`
		Large    string `json:"large"`
	} `json:"src"`
}

type searchResponse struct {
	Photos []Photo `json:"photos"`
}

// PexelsClient searches the Pexels photo API.
type PexelsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewPexelsClient(apiKey string, timeout time.Duration, log *slog.Logger) *PexelsClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PexelsClient{
		apiKey:  apiKey,
		baseURL: defaultPexelsURL,
		client:  &http.Client{Timeout: timeout},
		log:     logger.OrDiscard(log),
	}
}

// WithBaseURL overrides the search endpoint.
func (p *PexelsClient) WithBaseURL(u string) *PexelsClient {
	p.baseURL = u
	return p
}

// Search returns up to perPage photos matching query.
func (p *PexelsClient) Search(ctx context.Context, query string, perPage int) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP error: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			p.log.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("pexels API returned status: %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Photos, nil
}
