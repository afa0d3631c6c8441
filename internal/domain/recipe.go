package domain

// Recipe is one result of an ingredient search.
// UsedIngredientCount is relative to the query that produced it.
type Recipe struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	Image               string `json:"image"`
	UsedIngredientCount int    `json:"usedIngredientCount"`
	Instructions        string `json:"instructions,omitempty"`
}

func (r Recipe) String() string {
	return r.Title
}

// SearchOutcome tells why a search produced the recipes it did
type SearchOutcome string

const (
	OutcomeFound               SearchOutcome = "found"
	OutcomeNone                SearchOutcome = "none"
	OutcomeUpstreamUnavailable SearchOutcome = "upstream_unavailable"
	OutcomeMalformedResponse   SearchOutcome = "malformed_response"
)

// SearchResult carries the recipes of a search together with its outcome.
// Failed outcomes always carry an empty recipe list.
type SearchResult struct {
	Recipes []Recipe
	Outcome SearchOutcome
	Err     error
}

// Failed reports whether the search degraded because of an upstream problem
func (r SearchResult) Failed() bool {
	return r.Outcome == OutcomeUpstreamUnavailable || r.Outcome == OutcomeMalformedResponse
}
