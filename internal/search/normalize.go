package search

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	maxDescriptionLen = 200
	noDescription     = "No description available"
	faviconService    = "https://www.google.com/s2/favicons?domain=%s&sz=32"
)

// NormalizeResults maps raw provider records into canonical results.
// It is deterministic for a given payload and filter except for the
// generation timestamp embedded in each synthetic id.
func NormalizeResults(data *ProviderResponse, filter Filter) []Result {
	if data == nil || len(data.Items) == 0 {
		return []Result{}
	}

	now := time.Now().UnixMilli()
	results := make([]Result, 0, len(data.Items))

	for i, item := range data.Items {
		domain := extractDomain(item.Link)

		title := item.Title
		if title == "" {
			title = "Untitled"
		}

		tags := make([]string, 0, 4)
		if filter != FilterAll {
			tags = append(tags, string(filter))
		}
		if domain != "" {
			tags = append(tags, domain)
		}

		var imageURL string
		if filter == FilterImages {
			// In image mode the link is the image itself; prefer the
			// thumbnail when the pagemap carries one.
			imageURL = item.Link
			if len(item.Pagemap.CseThumbnail) > 0 && item.Pagemap.CseThumbnail[0].Src != "" {
				imageURL = item.Pagemap.CseThumbnail[0].Src
			}
			tags = append(tags, "image")
		}

		var videoURL string
		if filter == FilterVideos || strings.Contains(item.Link, "youtube.com") || strings.Contains(item.Link, "vimeo.com") {
			videoURL = item.Link
			tags = append(tags, "video")
		}

		// URL-pattern tagging applies even on the all filter, so a news
		// tag can appear on an unfiltered result.
		if filter == FilterNews || strings.Contains(item.Link, "news.") || strings.Contains(item.Link, "bbc.com") || strings.Contains(item.Link, "cnn.com") {
			tags = append(tags, "news")
		}

		results = append(results, Result{
			ID:          fmt.Sprintf("google-%d-%d", i, now),
			Title:       title,
			URL:         item.Link,
			Description: truncateDescription(item.Snippet),
			Favicon:     fmt.Sprintf(faviconService, domain),
			Tags:        tags,
			ImageURL:    imageURL,
			VideoURL:    videoURL,
		})
	}

	return results
}

// extractDomain returns the result's host for favicon generation. A
// malformed URL yields the sentinel "unknown" instead of failing the
// whole normalization.
func extractDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}

// truncateDescription caps descriptions at 200 characters, ending long
// ones with an ellipsis.
func truncateDescription(snippet string) string {
	if snippet == "" {
		return noDescription
	}
	if len(snippet) > maxDescriptionLen {
		return snippet[:maxDescriptionLen-3] + "..."
	}
	return snippet
}
