// Package epic searches the Epic Games Store weekly giveaway
// promotions. The promotions endpoint is not query-addressable, so the
// whole current catalog is fetched and filtered locally.
package epic

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"gamefinder-backend/lib/sources"
	"gamefinder-backend/lib/textutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sources/epic")

const Name = "Epic Games Store (Free Now)"

// the listing page is static since the upstream api only ever serves
// the current giveaways
const moreUrl = "https://store.epicgames.com/en-US/free-games"

type Client struct {
	Http    *resty.Client
	BaseUrl string
}

func NewClient(http *resty.Client) *Client {
	return &Client{
		Http:    http,
		BaseUrl: "https://store-site-backend-static.ak.epicgames.com",
	}
}

func (c *Client) Name() string {
	return Name
}

func (c *Client) Search(ctx context.Context, query string) sources.SourceResult {
	ctx, span := tracer.Start(ctx, "epic:Search")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"locale":         "en-US",
			"country":        "US",
			"allowCountries": "US",
		}).
		Get(c.BaseUrl + "/freeGamesPromotions")
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch epic promotions", "err", err)
		return c.zeroResult()
	}
	if res.IsError() {
		slog.ErrorContext(ctx, "epic promotions returned an error status", "status", res.Status())
		return c.zeroResult()
	}

	hits, err := parsePromotions(res.Body(), query)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse epic promotions", "err", err)
		return c.zeroResult()
	}

	return sources.SourceResult{
		Source:    Name,
		MoreUrl:   moreUrl,
		Hits:      hits,
		TotalHits: len(hits),
	}
}

func (c *Client) zeroResult() sources.SourceResult {
	return sources.SourceResult{
		Source:  Name,
		MoreUrl: moreUrl,
		Hits:    []sources.Hit{},
	}
}

type promotionsResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []catalogElement `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type catalogElement struct {
	Title       string `json:"title"`
	ProductSlug string `json:"productSlug"`
	UrlSlug     string `json:"urlSlug"`
	Promotions  struct {
		PromotionalOffers []struct {
			PromotionalOffers []json.RawMessage `json:"promotionalOffers"`
		} `json:"promotionalOffers"`
	} `json:"promotions"`
}

// only the first promotionalOffers entry decides whether the element
// counts as currently free, matching how the storefront surfaces the
// active giveaway
func (el catalogElement) freeNow() bool {
	offers := el.Promotions.PromotionalOffers
	return len(offers) > 0 && len(offers[0].PromotionalOffers) > 0
}

func (el catalogElement) link() string {
	slug := el.ProductSlug
	if slug == "" {
		slug = el.UrlSlug
	}
	if slug == "" {
		return "https://store.epicgames.com/free-games"
	}
	return "https://store.epicgames.com/en-US/p/" + strings.Trim(slug, "/")
}

func parsePromotions(body []byte, query string) ([]sources.Hit, error) {
	var data promotionsResponse
	err := json.Unmarshal(body, &data)
	if err != nil {
		return nil, err
	}

	hits := []sources.Hit{}
	for _, el := range data.Data.Catalog.SearchStore.Elements {
		title := strings.TrimSpace(el.Title)
		if title == "" || !textutil.MatchTitle(title, query) || !el.freeNow() {
			continue
		}
		hits = append(hits, sources.Hit{
			Title: title,
			Url:   el.link(),
		})
	}
	return hits, nil
}
