// Package itch scrapes the itch.io free-games search listing.
package itch

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

var tracer = otel.Tracer("sources/itch")

const Name = "itch.io (Free)"

type Client struct {
	Http    *resty.Client
	BaseUrl string
}

func NewClient(http *resty.Client) *Client {
	return &Client{
		Http:    http,
		BaseUrl: "https://itch.io",
	}
}

func (c *Client) Name() string {
	return Name
}

func (c *Client) searchUrl(query string) string {
	params := url.Values{}
	params.Set("q", query)
	return c.BaseUrl + "/games/free?" + params.Encode()
}

func (c *Client) Search(ctx context.Context, query string) sources.SourceResult {
	ctx, span := tracer.Start(ctx, "itch:Search")
	defer span.End()

	searchUrl := c.searchUrl(query)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(searchUrl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch itch search page", "err", err)
		return zeroResult(searchUrl)
	}
	if res.IsError() {
		slog.ErrorContext(ctx, "itch search page returned an error status", "status", res.Status())
		return zeroResult(searchUrl)
	}

	hits, err := parseListing(res.Body(), query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse itch search page", "err", err)
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

// parseListing extracts game cards from the listing markup. Cards
// missing either a title or a link element are skipped rather than
// failing the whole page.
func parseListing(body []byte, query string) ([]sources.Hit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	hits := []sources.Hit{}
	doc.Find(".game_cell, .game_list .game_row").Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find(".title, .game_title").First()
		linkEl := card.Find("a.title, a.game_link, a.thumb_link").First()
		if titleEl.Length() == 0 || linkEl.Length() == 0 {
			return
		}

		title := strings.TrimSpace(titleEl.Text())
		href := linkEl.AttrOr("href", "")
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
