package algorithm

// Algorithm is the retrieval strategy selection.
type Algorithm string

// Search algorithm constants.
const (
	// Smart adapts retrieval breadth to the query shape; the default.
	Smart    Algorithm = "smart"
	Semantic Algorithm = "semantic"
	Keyword  Algorithm = "keyword"
	// Hybrid unions the semantic and keyword paths.
	Hybrid Algorithm = "hybrid"
)

// IsValid checks if the algorithm is one of the supported values.
func (a Algorithm) IsValid() bool {
	return a == Smart || a == Semantic || a == Keyword || a == Hybrid
}
