// Package archive searches the Internet Archive software collection
// through its advanced search api.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"gamefinder-backend/lib/sources"
	"gamefinder-backend/lib/textutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sources/archive")

const Name = "Internet Archive (Software)"

// a single page of 50 rows is enough; the user gets the rest through
// the more url
const requestRows = "50"

type Client struct {
	Http    *resty.Client
	BaseUrl string
}

func NewClient(http *resty.Client) *Client {
	return &Client{
		Http:    http,
		BaseUrl: "https://archive.org",
	}
}

func (c *Client) Name() string {
	return Name
}

// moreUrl points at the user-facing search page, not the api
// endpoint the adapter actually queries.
func moreUrl(query string) string {
	params := url.Values{}
	params.Set("query", query)
	params.Add("and[]", `mediatype:"software"`)
	return "https://archive.org/search.php?" + params.Encode()
}

func fallbackMoreUrl(query string) string {
	params := url.Values{}
	params.Set("query", query)
	return "https://archive.org/search.php?" + params.Encode()
}

func (c *Client) Search(ctx context.Context, query string) sources.SourceResult {
	ctx, span := tracer.Start(ctx, "archive:Search")
	defer span.End()

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s AND mediatype:(software)", query))
	params.Add("fl[]", "identifier")
	params.Add("fl[]", "title")
	params.Set("rows", requestRows)
	params.Set("output", "json")

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(c.BaseUrl + "/advancedsearch.php")
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch archive search", "err", err)
		return zeroResult(query)
	}
	if res.IsError() {
		slog.ErrorContext(ctx, "archive search returned an error status", "status", res.Status())
		return zeroResult(query)
	}

	hits, err := parseDocs(res.Body(), query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse archive search", "err", err)
		return zeroResult(query)
	}

	return sources.SourceResult{
		Source:    Name,
		MoreUrl:   moreUrl(query),
		Hits:      hits,
		TotalHits: len(hits),
	}
}

func zeroResult(query string) sources.SourceResult {
	return sources.SourceResult{
		Source:  Name,
		MoreUrl: fallbackMoreUrl(query),
		Hits:    []sources.Hit{},
	}
}

type searchResponse struct {
	Response struct {
		Docs []struct {
			Identifier string `json:"identifier"`
			Title      string `json:"title"`
		} `json:"docs"`
	} `json:"response"`
}

func parseDocs(body []byte, query string) ([]sources.Hit, error) {
	var data searchResponse
	err := json.Unmarshal(body, &data)
	if err != nil {
		return nil, err
	}

	hits := []sources.Hit{}
	for _, doc := range data.Response.Docs {
		title := strings.TrimSpace(doc.Title)
		if title == "" || !textutil.MatchTitle(title, query) {
			continue
		}
		hits = append(hits, sources.Hit{
			Title: title,
			Url:   "https://archive.org/details/" + doc.Identifier,
		})
	}
	return hits, nil
}
