package intent

import (
	"strings"
	"unicode"
)

// maxKeywordTokens caps the number of raw query tokens kept as keywords.
const maxKeywordTokens = 10

// Classify derives an intent profile from free-text. It never fails:
// unmatched input yields the general defaults.
func Classify(text string) Profile {
	lower := strings.ToLower(strings.TrimSpace(text))

	action := resolveAction(lower)
	dom := resolveDomain(lower)
	fields := splitTokens(lower)

	return Profile{
		action:     action,
		domain:     dom,
		style:      resolveStyle(lower),
		urgency:    resolveUrgency(lower),
		complexity: resolveComplexity(lower, len(fields)),
		keywords:   expandKeywords(lower, dedupeTokens(fields)),
		tags:       semanticTags(lower, action, dom),
		categories: suggestedCategories(lower, dom),
	}
}

// Tokenize splits text on non-letter/digit runes, drops single-rune tokens,
// deduplicates, and caps the result at maxKeywordTokens.
func Tokenize(text string) []string {
	return dedupeTokens(splitTokens(strings.ToLower(text)))
}

func splitTokens(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func dedupeTokens(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) <= 1 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
		if len(out) == maxKeywordTokens {
			break
		}
	}
	return out
}

func resolveAction(lower string) Action {
	for _, r := range actionRules {
		if containsAny(lower, r.markers) {
			return r.action
		}
	}
	return ActionGeneral
}

func resolveDomain(lower string) Domain {
	for _, r := range domainRules {
		if containsAny(lower, r.markers) {
			return r.domain
		}
	}
	return DomainGeneral
}

// expandKeywords unions query tokens with the terms of every synonym entry
// whose key appears in the query.
func expandKeywords(lower string, tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	add := func(kw string) {
		if kw == "" {
			return
		}
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}

	for _, t := range tokens {
		add(t)
	}
	for _, entry := range synonymTable {
		if strings.Contains(lower, entry.key) {
			for _, term := range entry.terms {
				add(term)
			}
		}
	}
	return out
}

func semanticTags(lower string, action Action, dom Domain) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 4)
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	for _, t := range actionTags[action] {
		add(t)
	}
	for _, t := range domainTags[dom] {
		add(t)
	}
	for _, tr := range tagTriggers {
		if containsAny(lower, tr.markers) {
			add(tr.value)
		}
	}
	return out
}

func suggestedCategories(lower string, dom Domain) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 2)
	add := func(cat string) {
		if _, ok := seen[cat]; ok {
			return
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}

	for _, c := range domainCategories[dom] {
		add(c)
	}
	for _, tr := range categoryTriggers {
		if containsAny(lower, tr.markers) {
			add(tr.value)
		}
	}
	return out
}

func resolveStyle(lower string) Style {
	if containsAny(lower, formalMarkers) {
		return StyleFormal
	}
	if containsAny(lower, casualMarkers) {
		return StyleCasual
	}
	return StyleNeutral
}

func resolveUrgency(lower string) Urgency {
	if containsAny(lower, urgentMarkers) {
		return UrgencyHigh
	}
	return UrgencyLow
}

func resolveComplexity(lower string, tokenCount int) Complexity {
	if containsAny(lower, complexMarkers) || tokenCount >= 12 {
		return ComplexityComplex
	}
	if tokenCount <= 3 {
		return ComplexitySimple
	}
	return ComplexityMedium
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
