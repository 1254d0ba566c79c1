package types

// CandidateRecord represents one open CFP as supplied by the search service
// or the ingestion pipeline. Popularity signals are optional and zero when
// the upstream source does not report them.
type CandidateRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Topics       []string `json:"topics"`
	Technologies []string `json:"technologies"`

	City    string `json:"city"`
	Country string `json:"country"`

	AudienceLevel string `json:"audience_level,omitempty"`
	EventFormat   string `json:"event_format,omitempty"`

	HNStories       int     `json:"hn_stories,omitempty"`
	HNPoints        int     `json:"hn_points,omitempty"`
	GitHubStars     int     `json:"github_stars,omitempty"`
	PopularityScore float64 `json:"popularity_score,omitempty"`

	// DaysUntilClose is nil when the CFP has no known closing date.
	DaysUntilClose *int `json:"days_until_close,omitempty"`
}

// MatchResult is the outcome of scoring one candidate against a profile.
// Score is always an integer in [0,100] and Reasons holds at most three
// entries in scoring-step order.
type MatchResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}
