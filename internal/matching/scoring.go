package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/cfp-scout/internal/types"
)

// Preset is a named weighting convention for the scoring engine. Two presets
// exist: the interview preset for rich profiles (lower base, headroom for
// tech-stack and travel factors) and the flat preset for plain topic lists.
type Preset struct {
	Name      string
	BaseScore float64
	TopicCap  float64
	// Rich enables the factors that only a full interview profile carries:
	// tech-stack overlap and travel wants/avoids.
	Rich bool
}

// InterviewPreset is the weighting convention for rich interview profiles.
func InterviewPreset() Preset {
	return Preset{Name: "interview", BaseScore: 30, TopicCap: 30, Rich: true}
}

// FlatPreset is the weighting convention for plain topic lists.
func FlatPreset() Preset {
	return Preset{Name: "flat", BaseScore: 40, TopicCap: 40, Rich: false}
}

// Score caps and bonuses shared by both presets.
const (
	neutralScore = 50

	techStackCap    = 15.0
	techStackPer    = 5.0
	travelWantBonus = 10.0
	travelAvoidCost = 15.0
	firstTimerBonus = 5.0
	levelFitBonus   = 10.0
	levelNeutral    = 5.0
	formatFitBonus  = 5.0
	hnStoriesBonus  = 3.0
	githubBonus     = 3.0
	popularityBonus = 4.0

	maxReasons       = 3
	maxTopicsInNote  = 2
	topicCountWindow = 5
)

// noTopicsReason is the single reason attached to the neutral short-circuit.
const noTopicsReason = "Set your interests for personalized matches"

// profileFacts is the preset-independent view of a profile that the scoring
// steps consume.
type profileFacts struct {
	topics    []string
	techStack []string
	wants     []string
	avoids    []string
	speaking  types.SpeakingExperience
	formats   []string
}

// Score scores one candidate CFP against a canonical interview profile using
// the interview preset. It is pure: no I/O, no shared state, identical inputs
// always produce identical results, so callers may fan it out across hundreds
// of candidates freely.
func Score(cfp *types.CandidateRecord, profile *types.InterviewProfile) types.MatchResult {
	return score(cfp, profileFacts{
		topics:    unionTerms(profile.Interests, profile.SpeakingTopics),
		techStack: profile.TechStack,
		wants:     profile.TravelWants,
		avoids:    profile.TravelAvoids,
		speaking:  profile.SpeakingExperience,
		formats:   profile.PreferredFormats,
	}, InterviewPreset())
}

// ScoreTopics scores one candidate against a plain topic list using the flat
// preset. This is the path for users who never completed the interview.
func ScoreTopics(cfp *types.CandidateRecord, topics []string) types.MatchResult {
	return score(cfp, profileFacts{topics: topics}, FlatPreset())
}

func score(cfp *types.CandidateRecord, facts profileFacts, preset Preset) types.MatchResult {
	// An empty profile cannot be matched meaningfully; return the fixed
	// neutral result before any weighting applies.
	if len(facts.topics) == 0 && len(facts.techStack) == 0 {
		return types.MatchResult{Score: neutralScore, Reasons: []string{noTopicsReason}}
	}

	running := preset.BaseScore
	var reasons []string

	// Topic overlap, bidirectional substring matching.
	matchedTopics := overlappingTopics(facts.topics, cfp.Topics)
	if len(matchedTopics) > 0 {
		denom := len(facts.topics)
		if denom > topicCountWindow {
			denom = topicCountWindow
		}
		contribution := float64(len(matchedTopics)) / float64(denom) * preset.TopicCap
		running += math.Min(preset.TopicCap, contribution)
		reasons = append(reasons, topicReason(matchedTopics))
	}

	if preset.Rich {
		// Tech-stack overlap against the candidate's topics and technologies.
		// Its reason only appears when the topic step produced none, so the
		// reason list leads with the stronger signal.
		if n := techStackMatches(facts.techStack, cfp); n > 0 {
			running += math.Min(techStackCap, float64(n)*techStackPer)
			if len(matchedTopics) == 0 {
				reasons = append(reasons, "Tech stack match")
			}
		}

		if anyPlaceMatches(facts.wants, cfp.City, cfp.Country) {
			running += travelWantBonus
			reasons = append(reasons, "Dream destination!")
		}
		if anyPlaceMatches(facts.avoids, cfp.City, cfp.Country) {
			running -= travelAvoidCost
			reasons = append(reasons, "Travel constraint")
		}
	}

	// First-timer affinity.
	if facts.speaking == types.ExperienceNone && topicsMention(cfp.Topics, "beginner", "first") {
		running += firstTimerBonus
		reasons = append(reasons, "First-timer friendly")
	}

	// Experience-level fit. A candidate with no declared audience level gets
	// a smaller neutral credit with no reason attached.
	if cfp.AudienceLevel == "" {
		running += levelNeutral
	} else if levelMatches(experienceLevel(facts.speaking), cfp.AudienceLevel) {
		running += levelFitBonus
		reasons = append(reasons, "Level fit")
	}

	// Format fit.
	if cfp.EventFormat != "" && containsFold(facts.formats, cfp.EventFormat) {
		running += formatFitBonus
		reasons = append(reasons, fmt.Sprintf("Matches your %s preference", cfp.EventFormat))
	}

	// Popularity boosts, each independent and applied at most once.
	if cfp.HNStories > 0 {
		running += hnStoriesBonus
		reasons = append(reasons, "Trending on HN")
	}
	if cfp.GitHubStars > 100 {
		running += githubBonus
		reasons = append(reasons, "GitHub buzz")
	}
	if cfp.PopularityScore > 50 {
		running += popularityBonus
	}

	// Urgency note carries no score weight.
	if cfp.DaysUntilClose != nil && *cfp.DaysUntilClose <= 7 {
		reasons = append(reasons, "Closing soon!")
	}

	final := int(math.Round(math.Min(100, math.Max(0, running))))
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return types.MatchResult{Score: final, Reasons: reasons}
}

// overlappingTopics returns the profile terms that overlap any candidate
// topic, deduplicated case-insensitively, in profile order.
func overlappingTopics(profileTopics, candidateTopics []string) []string {
	var matched []string
	seen := make(map[string]bool)
	for _, pt := range profileTopics {
		key := strings.ToLower(strings.TrimSpace(pt))
		if key == "" || seen[key] {
			continue
		}
		for _, ct := range candidateTopics {
			if TermsOverlap(pt, ct) {
				matched = append(matched, pt)
				seen[key] = true
				break
			}
		}
	}
	return matched
}

// topicReason names up to two matched topics.
func topicReason(matched []string) string {
	shown := matched
	if len(shown) > maxTopicsInNote {
		shown = shown[:maxTopicsInNote]
	}
	return fmt.Sprintf("Matches your interests: %s", strings.Join(shown, ", "))
}

// techStackMatches counts tech-stack entries found anywhere in the
// candidate's topics or technologies.
func techStackMatches(stack []string, cfp *types.CandidateRecord) int {
	pool := make([]string, 0, len(cfp.Topics)+len(cfp.Technologies))
	pool = append(pool, cfp.Topics...)
	pool = append(pool, cfp.Technologies...)

	n := 0
	for _, tech := range stack {
		if anyContains(pool, tech) {
			n++
		}
	}
	return n
}

// experienceLevel maps speaking experience onto the audience-level ladder.
// Unset experience is treated as intermediate, the most permissive band.
func experienceLevel(exp types.SpeakingExperience) string {
	switch exp {
	case types.ExperienceNone:
		return "beginner"
	case types.ExperienceInternational:
		return "advanced"
	default:
		return "intermediate"
	}
}

// levelMatches compares a profile level against a candidate audience level.
func levelMatches(level, audience string) bool {
	a := strings.ToLower(audience)
	switch level {
	case "beginner":
		return strings.Contains(a, "beginner") || strings.Contains(a, "all")
	case "advanced":
		return strings.Contains(a, "advanced") || strings.Contains(a, "expert")
	default:
		return !strings.Contains(a, "expert")
	}
}

// containsFold reports whether list contains s, case-insensitive.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// unionTerms concatenates term lists, dropping blank entries and
// case-insensitive duplicates while preserving order.
func unionTerms(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, term := range list {
			key := strings.ToLower(strings.TrimSpace(term))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, term)
		}
	}
	return out
}
