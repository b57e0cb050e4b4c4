package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/promptdex/promptdex/internal/domain/search/algorithm"
	"github.com/promptdex/promptdex/internal/domain/search/query"
)

func newTestService(repo *fakeRepo, opts ...Option) *Service {
	return NewService(repo, newFakeCache(), opts...)
}

func TestService_SmartBusinessEmailChinese(t *testing.T) {
	repo := &fakeRepo{prompts: libraryFixtures()}
	svc := newTestService(repo)

	q, err := query.New("写商务邮件", algorithm.Smart, "", nil, 5, 0, "", false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	resp := svc.Search(context.Background(), &q)
	if resp.Degraded {
		t.Fatal("unexpected degraded response")
	}
	if len(resp.Results) == 0 {
		t.Fatal("no results for a query the library can serve")
	}
	first := resp.Results[0].Prompt()
	if first.Name() != "Business Email Writer" {
		t.Errorf("top result = %q, want Business Email Writer", first.Name())
	}
	for i := range resp.Results {
		if c := resp.Results[i].Confidence(); c < q.MinConfidence() {
			t.Errorf("result %d confidence %.2f below threshold %.2f", i, c, q.MinConfidence())
		}
	}
}

func TestService_NoMatchesIsNotAnError(t *testing.T) {
	repo := &fakeRepo{prompts: libraryFixtures()}
	svc := newTestService(repo)

	q, err := query.New("zzzz_no_such_prompt_exists", algorithm.Smart, "", nil, 5, 0, "", false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	resp := svc.Search(context.Background(), &q)
	if resp.Degraded {
		t.Error("zero matches must not be reported as a failure")
	}
	if len(resp.Results) != 0 || resp.TotalFound != 0 {
		t.Errorf("got %d results (total %d), want none", len(resp.Results), resp.TotalFound)
	}
}

func TestService_CacheIdempotence(t *testing.T) {
	repo := &fakeRepo{prompts: libraryFixtures()}
	svc := newTestService(repo)

	q, err := query.New("business email", algorithm.Keyword, "", nil, 5, 0, "", true)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	first := svc.Search(context.Background(), &q)
	if first.FromCache {
		t.Fatal("first search served from an empty cache")
	}
	if len(first.Results) == 0 {
		t.Fatal("expected matches for business email")
	}

	second := svc.Search(context.Background(), &q)
	if !second.FromCache {
		t.Fatal("second identical search missed the cache")
	}
	if !reflect.DeepEqual(resultNames(first.Results), resultNames(second.Results)) {
		t.Errorf("cached results differ: %v vs %v",
			resultNames(first.Results), resultNames(second.Results))
	}
}

func TestService_CacheDisabledPerQuery(t *testing.T) {
	repo := &fakeRepo{prompts: libraryFixtures()}
	svc := newTestService(repo)

	q, err := query.New("business email", algorithm.Keyword, "", nil, 5, 0, "", false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	for i := 0; i < 2; i++ {
		if resp := svc.Search(context.Background(), &q); resp.FromCache {
			t.Fatalf("search %d served from cache with caching disabled", i)
		}
	}
}

func TestService_StrategyFailureDegradesRecallOnly(t *testing.T) {
	repo := &fakeRepo{
		prompts:   libraryFixtures(),
		searchErr: errors.New("storage unavailable"),
	}
	svc := newTestService(repo)

	// Text search fails, but the category listing for the user filter still
	// reaches storage.
	q, err := query.New("business email", algorithm.Keyword, "business", nil, 5, 0, "", false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	resp := svc.Search(context.Background(), &q)
	if resp.Degraded {
		t.Error("a single failed strategy must not degrade the whole search")
	}
	if len(resp.Results) == 0 {
		t.Error("surviving strategies should still produce results")
	}
}

func TestService_PanicIsAbsorbed(t *testing.T) {
	repo := &fakeRepo{prompts: libraryFixtures(), panicOnSearch: true}
	svc := newTestService(repo)

	q, err := query.New("business email", algorithm.Keyword, "", nil, 5, 0, "", false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}

	resp := svc.Search(context.Background(), &q)
	if !resp.Degraded {
		t.Error("internal panic must surface as a degraded response")
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("degraded response must carry an empty, non-nil result set, got %v", resp.Results)
	}
}

func TestService_ExpandedFallbackIsBounded(t *testing.T) {
	repo := &fakeRepo{prompts: libraryFixtures()}
	svc := newTestService(repo, WithExpandedPage(2, 3))

	// Nothing matches lexically, so the smart path falls back to a bounded
	// scan of the library.
	q, err := query.New("zzzz_qqqq_vvvv_wwww", algorithm.Smart, "", nil, 5, 0, "", false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	resp := svc.Search(context.Background(), &q)
	if resp.Degraded {
		t.Fatal("unexpected degraded response")
	}
	// The scan page is capped at 2, so at most 2 candidates can ever be seen.
	if resp.TotalFound > 2 {
		t.Errorf("total %d exceeds the fallback page bound", resp.TotalFound)
	}
}
