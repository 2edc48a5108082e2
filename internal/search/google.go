package search

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
)

const (
	googleEndpoint = "https://www.googleapis.com/customsearch/v1"
	// Google CSE caps a single request at 10 items regardless of the
	// caller's page size.
	googleMaxNum = 10

	providerTimeout = 10 * time.Second
)

// ProviderResponse mirrors the slice of the Google Custom Search payload we
// request via the fields parameter.
type ProviderResponse struct {
	Items             []ProviderItem `json:"items"`
	SearchInformation struct {
		TotalResults string  `json:"totalResults"`
		SearchTime   float64 `json:"searchTime"`
	} `json:"searchInformation"`
}

// ProviderItem is a single raw provider record.
type ProviderItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Pagemap struct {
		CseThumbnail []struct {
			Src string `json:"src"`
		} `json:"cse_thumbnail"`
		CseImage []struct {
			Src string `json:"src"`
		} `json:"cse_image"`
	} `json:"pagemap"`
}

// TotalResultCount parses the provider's reported total, falling back to
// the item count when the field is absent or malformed.
func (p *ProviderResponse) TotalResultCount() int {
	if p == nil {
		return 0
	}
	if n, err := strconv.Atoi(p.SearchInformation.TotalResults); err == nil {
		return n
	}
	return len(p.Items)
}

// GoogleClient calls the Google Custom Search API. It never caches and never
// retries; both concerns belong to the layers above it.
type GoogleClient struct {
	apiKey   string
	engineID string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewGoogleClient creates a provider client. Empty credentials are allowed;
// every search then reports the provider as unavailable.
func NewGoogleClient(apiKey, engineID string, logger *slog.Logger) *GoogleClient {
	return &GoogleClient{
		apiKey:   apiKey,
		engineID: engineID,
		endpoint: googleEndpoint,
		client:   &http.Client{Timeout: providerTimeout},
		logger:   logger,
	}
}

// Search queries the provider. A nil return means the provider is
// unavailable (missing credentials, timeout, or a non-2xx response) and is
// an expected outcome: callers fall back, they do not retry.
//
// The provider has no first-class news or video search, so those filters
// rewrite the query text with site restrictions; images use the provider's
// native image mode.
func (c *GoogleClient) Search(ctx context.Context, query string, filter Filter, start, num int) *ProviderResponse {
	if c.apiKey == "" || c.engineID == "" {
		c.logger.Warn("search provider credentials not configured, using fallback")
		return nil
	}

	if num > googleMaxNum {
		num = googleMaxNum
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("start", strconv.Itoa(start))
	params.Set("num", strconv.Itoa(num))
	params.Set("safe", "active")
	params.Set("fields", "items(title,link,snippet,pagemap/cse_thumbnail,pagemap/cse_image),searchInformation(totalResults,searchTime)")

	switch filter {
	case FilterImages:
		params.Set("searchType", "image")
		params.Set("imgSize", "medium")
		params.Set("imgType", "photo")
	case FilterNews:
		params.Set("q", fmt.Sprintf("%s site:news.google.com OR site:bbc.com OR site:cnn.com OR site:reuters.com", query))
		params.Set("dateRestrict", "m1")
	case FilterVideos:
		params.Set("q", fmt.Sprintf("%s site:youtube.com OR site:vimeo.com", query))
	}

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		c.logger.Error("building provider request failed", "error", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Serqo-Search/1.0")

	c.logger.Debug("provider search request", "query", query, "filter", filter, "start", start)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("provider request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("provider returned non-OK status",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil
	}

	var data ProviderResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.Warn("decoding provider response failed", "error", err)
		return nil
	}

	c.logger.Info("provider search completed", "query", query, "results", len(data.Items))
	return &data
}
