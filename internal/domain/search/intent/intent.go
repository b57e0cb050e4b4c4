// Package intent derives a structured interpretation of free-text queries.
//
// Classification is pure and rule-driven: ordered marker tables resolve the
// action and topical domain (first match wins), a synonym table expands the
// keyword vocabulary, and small lookup tables suggest tags and categories.
// Unresolvable input falls through to defaults, never an error.
package intent

// Action is the user's inferred goal.
type Action string

// Action constants.
const (
	ActionCreate    Action = "create"
	ActionAnalyze   Action = "analyze"
	ActionTransform Action = "transform"
	ActionTranslate Action = "translate"
	ActionSummarize Action = "summarize"
	ActionOptimize  Action = "optimize"
	ActionExplain   Action = "explain"
	// ActionGeneral is the fallthrough when no rule matches.
	ActionGeneral Action = "general_query"
)

// Domain is the inferred topical domain.
type Domain string

// Domain constants.
const (
	DomainBusiness  Domain = "business"
	DomainCoding    Domain = "coding"
	DomainWriting   Domain = "writing"
	DomainMarketing Domain = "marketing"
	DomainEducation Domain = "education"
	DomainCreative  Domain = "creative"
	// DomainGeneral is the fallthrough when no rule matches.
	DomainGeneral Domain = "general"
)

// Style is the inferred register of the requested output.
type Style string

// Style constants.
const (
	StyleFormal  Style = "formal"
	StyleCasual  Style = "casual"
	StyleNeutral Style = "neutral"
)

// Urgency is the inferred time pressure.
type Urgency string

// Urgency constants.
const (
	UrgencyHigh Urgency = "high"
	UrgencyLow  Urgency = "low"
)

// Complexity is the inferred request complexity.
type Complexity string

// Complexity constants.
const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Profile is the structured interpretation of one query. Immutable, scoped
// to a single search evaluation.
type Profile struct {
	action     Action
	domain     Domain
	style      Style
	urgency    Urgency
	complexity Complexity
	keywords   []string
	tags       []string
	categories []string
}

// Action returns the inferred action.
func (p *Profile) Action() Action { return p.action }

// Domain returns the inferred topical domain.
func (p *Profile) Domain() Domain { return p.domain }

// Style returns the inferred style.
func (p *Profile) Style() Style { return p.style }

// Urgency returns the inferred urgency.
func (p *Profile) Urgency() Urgency { return p.urgency }

// Complexity returns the inferred complexity.
func (p *Profile) Complexity() Complexity { return p.complexity }

// Keywords returns the tokenized and synonym-expanded keyword set.
func (p *Profile) Keywords() []string { return p.keywords }

// Tags returns the semantic tag set derived from action and domain.
func (p *Profile) Tags() []string { return p.tags }

// Categories returns the suggested category set.
func (p *Profile) Categories() []string { return p.categories }
