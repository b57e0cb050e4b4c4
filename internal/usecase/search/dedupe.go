package search

import "github.com/promptdex/promptdex/internal/domain/search/result"

// dedupe merges results that refer to the same prompt. The merged entry keeps
// the highest score and confidence seen, the source of the first sighting,
// and the union of match reasons in first-seen order. Results without a
// usable identity are dropped. Output order follows first appearance.
func dedupe(in []result.Scored) []result.Scored {
	if len(in) == 0 {
		return nil
	}

	type merged struct {
		first   result.Scored
		score   float64
		conf    float64
		reasons []string
	}

	index := make(map[string]*merged, len(in))
	order := make([]string, 0, len(in))

	for i := range in {
		r := &in[i]
		key := r.Key()
		if key == "" {
			continue
		}
		m, ok := index[key]
		if !ok {
			index[key] = &merged{
				first:   *r,
				score:   r.Score(),
				conf:    r.Confidence(),
				reasons: append([]string(nil), r.MatchReasons()...),
			}
			order = append(order, key)
			continue
		}
		if s := r.Score(); s > m.score {
			m.score = s
		}
		if c := r.Confidence(); c > m.conf {
			m.conf = c
		}
		m.reasons = append(m.reasons, r.MatchReasons()...)
	}

	out := make([]result.Scored, 0, len(order))
	for _, key := range order {
		m := index[key]
		out = append(out, result.New(m.first.Prompt(), m.score, m.conf, m.first.Source(), m.reasons))
	}
	return out
}
