// Package steam scrapes the Steam storefront search filtered to
// free-to-play results.
package steam

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"gamefinder-backend/lib/sources"
	"gamefinder-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sources/steam")

const Name = "Steam (Free to Play)"

type Client struct {
	Http    *resty.Client
	BaseUrl string
}

func NewClient(http *resty.Client) *Client {
	return &Client{
		Http:    http,
		BaseUrl: "https://store.steampowered.com",
	}
}

func (c *Client) Name() string {
	return Name
}

func (c *Client) searchUrl(query string) string {
	params := url.Values{}
	params.Set("term", query)
	params.Set("price", "free")
	return c.BaseUrl + "/search/?" + params.Encode()
}

func (c *Client) Search(ctx context.Context, query string) sources.SourceResult {
	ctx, span := tracer.Start(ctx, "steam:Search")
	defer span.End()

	searchUrl := c.searchUrl(query)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(searchUrl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch steam search page", "err", err)
		return zeroResult(searchUrl)
	}
	if res.IsError() {
		slog.ErrorContext(ctx, "steam search page returned an error status", "status", res.Status())
		return zeroResult(searchUrl)
	}

	hits, err := parseResults(res.Body(), query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse steam search page", "err", err)
		return zeroResult(searchUrl)
	}

	return sources.SourceResult{
		Source:    Name,
		MoreUrl:   searchUrl,
		Hits:      hits,
		TotalHits: len(hits),
	}
}

func zeroResult(searchUrl string) sources.SourceResult {
	return sources.SourceResult{
		Source:  Name,
		MoreUrl: searchUrl,
		Hits:    []sources.Hit{},
	}
}

// parseResults walks the search result rows. Each row is its own
// anchor; rows without a title span are skipped.
func parseResults(body []byte, query string) ([]sources.Hit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	hits := []sources.Hit{}
	doc.Find("a.search_result_row").Each(func(_ int, row *goquery.Selection) {
		titleEl := row.Find("span.title").First()
		if titleEl.Length() == 0 {
			return
		}

		title := strings.TrimSpace(titleEl.Text())
		href := row.AttrOr("href", "")
		if title == "" || href == "" || !textutil.MatchTitle(title, query) {
			return
		}
		hits = append(hits, sources.Hit{
			Title: title,
			Url:   href,
		})
	})
	return hits, nil
}
