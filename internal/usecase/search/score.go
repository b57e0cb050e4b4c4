package search

import (
	"strings"

	"github.com/promptdex/promptdex/internal/domain"
	"github.com/promptdex/promptdex/internal/domain/search/intent"
	"github.com/promptdex/promptdex/internal/domain/search/query"
	"github.com/promptdex/promptdex/internal/domain/search/result"
)

// sighting is one unscored candidate observation from a retrieval strategy.
type sighting struct {
	prompt domain.Prompt
	source result.Source
}

// Sub-score weights. Category and tag matching share the final 10%.
const (
	weightIntent      = 0.30
	weightTitle       = 0.25
	weightDescription = 0.20
	weightContent     = 0.15
	weightCategory    = 0.07
	weightTag         = 0.03
)

// Confidence scaling per retrieval strategy. Less certain strategies rank
// below equally-scored but more certain ones.
const (
	keywordConfidenceFactor  = 0.9
	expandedConfidenceFactor = 0.65
	semanticExactBoost       = 0.25
)

// Field-score composition: keyword proportion dominates, semantic tags add a
// small bonus, fuzzy character overlap contributes a capped remainder.
const (
	keywordPortion  = 70.0
	tagBonus        = 15.0
	fuzzyPortion    = 30.0
	highMatchFloor  = 70.0
	relevantFloor   = 40.0
	intentMatchFloor = 50.0
)

// scoreAll scores every sighting independently.
func scoreAll(sightings []sighting, q *query.Query, prof *intent.Profile) []result.Scored {
	out := make([]result.Scored, 0, len(sightings))
	for _, s := range sightings {
		out = append(out, scoreSighting(s, q, prof))
	}
	return out
}

// scoreSighting computes the 0-100 weighted score, the strategy-scaled 0-1
// confidence, and human-readable match reasons for one candidate.
func scoreSighting(s sighting, q *query.Query, prof *intent.Profile) result.Scored {
	p := s.prompt
	norm := q.Normalized()
	name := strings.ToLower(p.Name())
	desc := strings.ToLower(p.Description())
	content := strings.ToLower(p.Content())

	intentScore := overlapScore(prof.Keywords(), name+" "+desc)
	titleScore, titleExact := fieldScore(name, norm, prof)
	descScore, descExact := fieldScore(desc, norm, prof)
	contentScore, _ := fieldScore(content, norm, prof)

	var categoryScore, tagScore float64
	if containsFold(prof.Categories(), p.Category()) {
		categoryScore = 100
	}
	if anyTagOverlap(&p, prof.Tags()) {
		tagScore = 100
	}

	total := intentScore*weightIntent +
		titleScore*weightTitle +
		descScore*weightDescription +
		contentScore*weightContent +
		categoryScore*weightCategory +
		tagScore*weightTag

	confidence := total / result.MaxScore
	switch s.source {
	case result.SourceSemantic:
		if titleExact || descExact {
			confidence += semanticExactBoost
		}
	case result.SourceExpanded:
		confidence *= expandedConfidenceFactor
	default:
		confidence *= keywordConfidenceFactor
	}

	reasons := matchReasons(titleScore, descScore, contentScore, categoryScore, tagScore, intentScore)

	return result.New(p, total, confidence, s.source, reasons)
}

// fieldScore scores one text field against the query. An exact substring
// match of the whole normalized query scores 100; otherwise the score is
// proportional to matched semantic keywords, with a tag bonus and a capped
// fuzzy overlap term.
func fieldScore(field, normQuery string, prof *intent.Profile) (score float64, exact bool) {
	if field == "" || normQuery == "" {
		return 0, false
	}
	if strings.Contains(field, normQuery) {
		return 100, true
	}

	kws := prof.Keywords()
	if len(kws) > 0 {
		matched := 0
		for _, kw := range kws {
			if strings.Contains(field, kw) {
				matched++
			}
		}
		score = float64(matched) / float64(len(kws)) * keywordPortion
	}

	for _, tag := range prof.Tags() {
		if strings.Contains(field, strings.ToLower(tag)) {
			score += tagBonus
			break
		}
	}

	score += fuzzyOverlap(normQuery, field) * fuzzyPortion

	if score > 100 {
		score = 100
	}
	return score, false
}

// overlapScore is the ratio of keywords found in text, as 0-100.
func overlapScore(keywords []string, text string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords)) * 100
}

// fuzzyOverlap is the fraction of the query's rune bigrams present in the
// candidate text. Bigrams handle CJK text, where word boundaries are absent.
func fuzzyOverlap(q, text string) float64 {
	grams := bigrams(q)
	if len(grams) == 0 {
		return 0
	}
	matched := 0
	for g := range grams {
		if strings.Contains(text, g) {
			matched++
		}
	}
	return float64(matched) / float64(len(grams))
}

func bigrams(s string) map[string]struct{} {
	runes := []rune(s)
	out := make(map[string]struct{}, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		out[string(runes[i:i+2])] = struct{}{}
	}
	return out
}

func matchReasons(title, desc, content, category, tag, intentScore float64) []string {
	var reasons []string
	switch {
	case title >= highMatchFloor:
		reasons = append(reasons, "title high match")
	case title >= relevantFloor:
		reasons = append(reasons, "title relevant")
	}
	switch {
	case desc >= highMatchFloor:
		reasons = append(reasons, "description high match")
	case desc >= relevantFloor:
		reasons = append(reasons, "description relevant")
	}
	if content >= relevantFloor {
		reasons = append(reasons, "content relevant")
	}
	if category > 0 {
		reasons = append(reasons, "category match")
	}
	if tag > 0 {
		reasons = append(reasons, "tag match")
	}
	if intentScore >= intentMatchFloor {
		reasons = append(reasons, "intent match")
	}
	return reasons
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func anyTagOverlap(p *domain.Prompt, tags []string) bool {
	for _, t := range tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}
