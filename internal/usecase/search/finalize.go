package search

import (
	"sort"
	"strings"

	"github.com/promptdex/promptdex/internal/domain/search/query"
	"github.com/promptdex/promptdex/internal/domain/search/result"
)

// finalize applies post-dedup filters, the confidence threshold, sorting and
// truncation. It returns the page of results and the total number that
// survived filtering before truncation.
func finalize(in []result.Scored, q *query.Query) ([]result.Scored, int) {
	kept := make([]result.Scored, 0, len(in))
	for i := range in {
		r := &in[i]
		if !passesFilters(r, q) {
			continue
		}
		if r.Confidence() < q.MinConfidence() {
			continue
		}
		kept = append(kept, *r)
	}

	sortResults(kept, q.SortBy())

	total := len(kept)
	if max := q.MaxResults(); len(kept) > max {
		kept = kept[:max]
	}
	return kept, total
}

// passesFilters applies the user-supplied filters: category must match
// exactly (case-insensitive), tags match if the prompt carries ANY of them.
func passesFilters(r *result.Scored, q *query.Query) bool {
	p := r.Prompt()
	if c := q.Category(); c != "" && !strings.EqualFold(p.Category(), c) {
		return false
	}
	if tags := q.Tags(); len(tags) > 0 {
		found := false
		for _, t := range tags {
			if p.HasTag(t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortResults(rs []result.Scored, order query.Order) {
	switch order {
	case query.ByName:
		sort.SliceStable(rs, func(i, j int) bool {
			pi, pj := rs[i].Prompt(), rs[j].Prompt()
			return strings.ToLower(pi.Name()) < strings.ToLower(pj.Name())
		})
	case query.ByCreatedAt:
		sort.SliceStable(rs, func(i, j int) bool {
			pi, pj := rs[i].Prompt(), rs[j].Prompt()
			return newestFirst(pi.CreatedAt().Unix(), pj.CreatedAt().Unix(),
				pi.CreatedAt().IsZero(), pj.CreatedAt().IsZero())
		})
	case query.ByUpdatedAt:
		sort.SliceStable(rs, func(i, j int) bool {
			pi, pj := rs[i].Prompt(), rs[j].Prompt()
			return newestFirst(pi.UpdatedAt().Unix(), pj.UpdatedAt().Unix(),
				pi.UpdatedAt().IsZero(), pj.UpdatedAt().IsZero())
		})
	default: // relevance
		sort.SliceStable(rs, func(i, j int) bool {
			if rs[i].Score() != rs[j].Score() {
				return rs[i].Score() > rs[j].Score()
			}
			if rs[i].Confidence() != rs[j].Confidence() {
				return rs[i].Confidence() > rs[j].Confidence()
			}
			pi, pj := rs[i].Prompt(), rs[j].Prompt()
			return strings.ToLower(pi.Name()) < strings.ToLower(pj.Name())
		})
	}
}

// newestFirst orders timestamps descending, with unknown (zero) timestamps
// sinking to the end.
func newestFirst(ti, tj int64, zi, zj bool) bool {
	if zi != zj {
		return zj
	}
	return ti > tj
}
