package result

import "github.com/promptdex/promptdex/internal/domain"

// Source identifies the retrieval strategy that produced a sighting.
type Source string

// Retrieval source constants.
const (
	SourceSemantic Source = "semantic"
	SourceKeyword  Source = "keyword"
	SourceCategory Source = "category"
	SourceTag      Source = "tag"
	// SourceFilter marks candidates pulled by user-supplied filters.
	SourceFilter Source = "filter"
	// SourceExpanded marks the bounded fuzzy fallback scan.
	SourceExpanded Source = "expanded"
)

// Score bounds.
const (
	MaxScore      = 100.0
	MaxConfidence = 1.0
)

// Scored is a single scored search hit.
type Scored struct {
	prompt       domain.Prompt
	score        float64
	confidence   float64
	source       Source
	matchReasons []string
}

// New creates a scored result. Score is clamped to [0,100], confidence to
// [0,1], match reasons are deduplicated preserving first-seen order; when no
// reason is given a generic "<source> match" is attached.
func New(p domain.Prompt, score, confidence float64, source Source, reasons []string) Scored {
	reasons = dedupeReasons(reasons)
	if len(reasons) == 0 {
		reasons = []string{string(source) + " match"}
	}
	return Scored{
		prompt:       p,
		score:        clamp(score, 0, MaxScore),
		confidence:   clamp(confidence, 0, MaxConfidence),
		source:       source,
		matchReasons: reasons,
	}
}

// Prompt returns the matched prompt projection.
func (s *Scored) Prompt() domain.Prompt { return s.prompt }

// Score returns the 0-100 ranking score.
func (s *Scored) Score() float64 { return s.score }

// Confidence returns the 0-1 certainty estimate used for thresholding.
func (s *Scored) Confidence() float64 { return s.confidence }

// Source returns the strategy that first found this result.
func (s *Scored) Source() Source { return s.source }

// MatchReasons returns the human-readable match reasons. Never empty.
func (s *Scored) MatchReasons() []string { return s.matchReasons }

// Key returns the dedup identity: the prompt ID, falling back to its name.
// Empty means the result cannot be deduplicated and should be dropped.
func (s *Scored) Key() string {
	if id := s.prompt.ID(); id != "" {
		return id
	}
	return s.prompt.Name()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dedupeReasons(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
