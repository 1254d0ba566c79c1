// Package suggest classifies the latest assistant message into an interview
// phase and offers fixed quick-reply examples for it. Purely advisory: no
// side effects, no state.
package suggest

import "strings"

// Category is an interview phase inferred from assistant text.
type Category string

// Interview phases, in classification order.
const (
	CategoryCompletion Category = "completion"
	CategoryRole       Category = "role"
	CategoryTechStack  Category = "tech-stack"
	CategoryExperience Category = "speaking-experience"
	CategoryInterests  Category = "interests"
	CategoryLocation   Category = "location"
	CategoryTravel     Category = "travel"
	CategoryGoals      Category = "goals"
	CategoryBenefits   Category = "benefits"
	// CategoryNone means no phase was recognized.
	CategoryNone Category = ""
)

// rule pairs a category with its trigger keywords and example replies.
// Rules are evaluated in order and the first keyword hit wins, so the more
// specific phrasings sit ahead of the generic ones.
type rule struct {
	category Category
	keywords []string
	replies  []string
}

var rules = []rule{
	{
		category: CategoryCompletion,
		keywords: []string{"all set", "profile saved", "you're ready", "good luck"},
		replies:  []string{"Show my matches", "Update my interests", "Start over", "Done for now"},
	},
	{
		category: CategoryRole,
		keywords: []string{"your role", "what do you do", "job title", "describe your role"},
		replies:  []string{"I'm a backend engineer", "I work in developer relations", "I'm a data scientist", "I'm an engineering manager"},
	},
	{
		category: CategoryTechStack,
		keywords: []string{"tech stack", "technolog", "languages", "tools do you"},
		replies:  []string{"Go, Kubernetes, and Postgres", "TypeScript and React", "Python and PyTorch", "Rust and WebAssembly"},
	},
	{
		category: CategoryExperience,
		keywords: []string{"speaking experience", "spoken", "presented", "given a talk"},
		replies:  []string{"I've never spoken before", "A few local meetups", "Regional conferences", "International conferences"},
	},
	{
		category: CategoryInterests,
		keywords: []string{"interest", "topics do you", "passionate", "excite"},
		replies:  []string{"Cloud native infrastructure", "Machine learning", "Developer experience", "Security"},
	},
	{
		category: CategoryLocation,
		keywords: []string{"where are you", "based", "city", "country"},
		replies:  []string{"Berlin, Germany", "Austin, United States", "Bangalore, India", "São Paulo, Brazil"},
	},
	{
		category: CategoryTravel,
		keywords: []string{"travel", "fly", "how far", "remote"},
		replies:  []string{"Anywhere in Europe", "Up to 5 hours of flying", "I prefer virtual events", "I'd love to visit Japan"},
	},
	{
		category: CategoryGoals,
		keywords: []string{"goal", "hope to", "achieve", "looking to get"},
		replies:  []string{"Land my first conference talk", "Build my public profile", "Meet other practitioners", "Share what my team built"},
	},
	{
		category: CategoryBenefits,
		keywords: []string{"deal-breaker", "covered", "honorarium", "requirement"},
		replies:  []string{"Travel costs must be covered", "I need the hotel covered", "An honorarium would be nice", "No hard requirements"},
	},
}

// Classify returns the interview phase for the given assistant text, or
// CategoryNone when nothing matches.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return CategoryNone
}

// QuickReplies returns the fixed example replies for the text's phase, or an
// empty list when no phase matches.
func QuickReplies(text string) []string {
	category := Classify(text)
	if category == CategoryNone {
		return nil
	}
	for _, r := range rules {
		if r.category == category {
			out := make([]string, len(r.replies))
			copy(out, r.replies)
			return out
		}
	}
	return nil
}
