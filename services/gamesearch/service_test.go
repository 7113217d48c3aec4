package gamesearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gamefinder-backend/lib/sources"
	"gamefinder-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, srcs ...sources.Source) Service {
	cleanup := telemetry.SetupForTesting(t, "test:services/gamesearch")
	t.Cleanup(cleanup)
	return NewService(srcs...)
}

type fakeSource struct {
	name   string
	result sources.SourceResult
	delay  time.Duration
	calls  atomic.Int64
}

func (f *fakeSource) Name() string {
	return f.name
}

func (f *fakeSource) Search(ctx context.Context, query string) sources.SourceResult {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
		}
	}
	return f.result
}

func fakeResult(name string, hits int) sources.SourceResult {
	res := sources.SourceResult{
		Source:  name,
		MoreUrl: "https://example.com/" + name,
		Hits:    []sources.Hit{},
	}
	for i := 0; i < hits; i++ {
		res.Hits = append(res.Hits, sources.Hit{
			Title: "Portal 2",
			Url:   "https://example.com/portal-2",
		})
	}
	res.TotalHits = len(res.Hits)
	return res
}

func TestSearchFixedOrder(t *testing.T) {
	// the first source is the slowest; order must not change
	epic := &fakeSource{name: "epic", result: fakeResult("epic", 1), delay: time.Millisecond * 100}
	itch := &fakeSource{name: "itch", result: fakeResult("itch", 5), delay: time.Millisecond * 10}
	steam := &fakeSource{name: "steam", result: fakeResult("steam", 0)}
	archive := &fakeSource{name: "archive", result: fakeResult("archive", 2), delay: time.Millisecond * 50}

	service := setup(t, epic, itch, steam, archive)
	res, err := service.Search(context.Background(), "portal")
	require.NoError(t, err)

	require.Len(t, res.Sources, 4)
	require.Equal(t, "epic", res.Sources[0].Source)
	require.Equal(t, "itch", res.Sources[1].Source)
	require.Equal(t, "steam", res.Sources[2].Source)
	require.Equal(t, "archive", res.Sources[3].Source)
}

func TestSearchConcurrentFanOut(t *testing.T) {
	delay := time.Millisecond * 80
	var srcs []sources.Source
	for _, name := range []string{"a", "b", "c", "d"} {
		srcs = append(srcs, &fakeSource{name: name, result: fakeResult(name, 1), delay: delay})
	}

	service := setup(t, srcs...)
	start := time.Now()
	_, err := service.Search(context.Background(), "portal")
	require.NoError(t, err)

	// total latency should approach the slowest source, not the sum
	require.Less(t, time.Since(start), delay*3)
}

func TestSearchCancelledContext(t *testing.T) {
	delay := time.Second * 5
	slow := &fakeSource{name: "slow", result: fakeResult("slow", 1), delay: delay}
	service := setup(t, slow)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(time.Millisecond * 20)
		cancel()
	}()

	// cancellation must reach the in-flight source, not wait out
	// its full delay
	start := time.Now()
	res, err := service.Search(ctx, "portal")
	require.NoError(t, err)
	require.Less(t, time.Since(start), delay)
	require.Len(t, res.Sources, 1)
}

func TestSearchShapesResults(t *testing.T) {
	src := &fakeSource{name: "many", result: fakeResult("many", 10)}
	service := setup(t, src)

	res, err := service.Search(context.Background(), "portal")
	require.NoError(t, err)
	require.Equal(t, 10, res.Sources[0].TotalHits)
	require.Len(t, res.Sources[0].Hits, 10)
	require.Len(t, res.Sources[0].Preview, 3)
	require.Equal(t, res.Sources[0].Hits[:3], res.Sources[0].Preview)
}

func TestSearchNormalizesQuery(t *testing.T) {
	src := &fakeSource{name: "any", result: fakeResult("any", 0)}
	service := setup(t, src)

	res, err := service.Search(context.Background(), "  hollow \t knight  ")
	require.NoError(t, err)
	require.Equal(t, "hollow knight", res.Query)
}

func TestSearchEmptyQuery(t *testing.T) {
	src := &fakeSource{name: "any", result: fakeResult("any", 1)}
	service := setup(t, src)

	_, err := service.Search(context.Background(), "   \t\n ")
	require.ErrorIs(t, err, ErrEmptyQuery)
	// rejected before any source is invoked
	require.EqualValues(t, 0, src.calls.Load())
}

func TestSearchDegradedSource(t *testing.T) {
	// zero-hit sentinel of a failed adapter passes through untouched
	broken := &fakeSource{name: "broken", result: sources.SourceResult{
		Source:  "broken",
		MoreUrl: "https://example.com/broken",
		Hits:    []sources.Hit{},
	}}
	healthy := &fakeSource{name: "healthy", result: fakeResult("healthy", 4)}

	service := setup(t, broken, healthy)
	res, err := service.Search(context.Background(), "portal")
	require.NoError(t, err)

	require.Len(t, res.Sources, 2)
	require.Equal(t, 0, res.Sources[0].TotalHits)
	require.NotEmpty(t, res.Sources[0].MoreUrl)
	require.Equal(t, 4, res.Sources[1].TotalHits)
}

func TestHandleSearch(t *testing.T) {
	src := &fakeSource{name: "any", result: fakeResult("any", 5)}
	service := setup(t, src)

	mux := http.NewServeMux()
	service.RegisterRoutes(mux)

	{
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/search?q=portal", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var res AggregateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, "portal", res.Query)
		require.Len(t, res.Sources, 1)
		require.Equal(t, 5, res.Sources[0].TotalHits)
		require.Len(t, res.Sources[0].Preview, 3)
	}
	{
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/search?q=%20%20", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var res struct {
			Detail string `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, "Query cannot be empty", res.Detail)
	}
}

func TestStatusRoutes(t *testing.T) {
	service := setup(t)
	mux := http.NewServeMux()
	service.RegisterRoutes(mux)

	testCases := []struct {
		path     string
		expected string
	}{
		{"/", `"Game Finder API running"`},
		{"/api/hello", `"Hello from the backend API!"`},
		{"/test", `"Not Connected"`},
	}
	for _, tc := range testCases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", tc.path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), tc.expected)
	}
}
