// Package gamesearch aggregates free-game searches across several
// independent upstream sources into one normalized response.
package gamesearch

import (
	"context"
	"fmt"
	"sync"

	"gamefinder-backend/lib/sources"
	"gamefinder-backend/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("services/gamesearch")
var meter = otel.Meter("services/gamesearch")

var ErrEmptyQuery = fmt.Errorf("Query cannot be empty")

type AggregateResponse struct {
	Query   string                 `json:"query"`
	Sources []sources.SourceResult `json:"sources"`
}

type Service struct {
	// fan-out order is also response order: most likely actually
	// free right now comes first
	sources       []sources.Source
	searchCounter metric.Int64Counter
}

// NewService builds an aggregator over the given sources. The slice
// order is the priority order of the response.
func NewService(srcs ...sources.Source) Service {
	searchCounter, err := meter.Int64Counter("gamesearch.searches")
	if err != nil {
		// only fails on an invalid instrument name
		panic(err)
	}
	return Service{
		sources:       srcs,
		searchCounter: searchCounter,
	}
}

// Search normalizes the raw query, fans it out to every source
// concurrently and reassembles the shaped results in priority order.
// Upstream failures never fail the request; only an empty normalized
// query does.
func (s Service) Search(ctx context.Context, raw string) (AggregateResponse, error) {
	query := textutil.NormalizeQuery(raw)
	if query == "" {
		return AggregateResponse{}, ErrEmptyQuery
	}

	ctx, span := tracer.Start(ctx, "gamesearch:Search", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	s.searchCounter.Add(ctx, 1)

	results := make([]sources.SourceResult, len(s.sources))
	wg := sync.WaitGroup{}
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			// each source writes only its own slot, completion
			// order never changes output order
			results[i] = sources.Shape(src.Search(ctx, query), sources.PreviewLimit)
		}(i, src)
	}
	wg.Wait()

	return AggregateResponse{
		Query:   query,
		Sources: results,
	}, nil
}
