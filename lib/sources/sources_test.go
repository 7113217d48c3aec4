package sources

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func makeHits(n int) []Hit {
	var hits []Hit
	for i := 0; i < n; i++ {
		hits = append(hits, Hit{
			Title: fmt.Sprintf("game %d", i),
			Url:   fmt.Sprintf("https://example.com/%d", i),
		})
	}
	return hits
}

func TestShape(t *testing.T) {
	testCases := []struct {
		hits            int
		expectedPreview int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{50, 3},
	}
	for _, tc := range testCases {
		in := SourceResult{
			Source:    "test",
			MoreUrl:   "https://example.com/search",
			Hits:      makeHits(tc.hits),
			TotalHits: tc.hits,
		}
		out := Shape(in, PreviewLimit)

		require.Len(t, out.Preview, tc.expectedPreview)
		require.Equal(t, tc.hits, out.TotalHits)
		require.Len(t, out.Hits, tc.hits)
		// preview must be a prefix of hits
		if diff := cmp.Diff(out.Hits[:tc.expectedPreview], out.Preview); diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestShapeIdempotent(t *testing.T) {
	in := SourceResult{
		Source:    "test",
		MoreUrl:   "https://example.com/search",
		Hits:      makeHits(7),
		TotalHits: 7,
	}
	once := Shape(in, PreviewLimit)
	twice := Shape(once, PreviewLimit)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatal(diff)
	}
}
