package types

import "time"

// SpeakingExperience classifies how much conference speaking a person has done.
type SpeakingExperience string

// Valid speaking experience levels.
const (
	ExperienceNone          SpeakingExperience = "none"
	ExperienceMeetups       SpeakingExperience = "meetups"
	ExperienceRegional      SpeakingExperience = "regional"
	ExperienceInternational SpeakingExperience = "international"
)

// Event formats a speaker can prefer.
const (
	FormatInPerson = "in-person"
	FormatVirtual  = "virtual"
	FormatHybrid   = "hybrid"
)

// InterviewProfile is the canonical speaker profile produced by a completed
// interview. It is normalized (trimmed strings, no empty array entries) and
// is the only profile shape the scoring engine accepts for rich matching.
type InterviewProfile struct {
	Role    string `json:"role"`
	Company string `json:"company,omitempty"`

	TechStack    []string `json:"tech_stack"`
	SideProjects []string `json:"side_projects"`
	Interests    []string `json:"interests"`

	SpeakingTopics     []string           `json:"speaking_topics"`
	SpeakingExperience SpeakingExperience `json:"speaking_experience,omitempty"`
	Goals              []string           `json:"goals"`

	HomeCity       string   `json:"home_city"`
	HomeCountry    string   `json:"home_country"`
	MaxTravelHours *float64 `json:"max_travel_hours"`
	TravelWants    []string `json:"travel_wants"`
	TravelAvoids   []string `json:"travel_avoids"`
	PreferRemote   bool     `json:"prefer_remote"`

	RequireTravelCovered bool `json:"require_travel_covered"`
	RequireHotelCovered  bool `json:"require_hotel_covered"`
	RequireHonorarium    bool `json:"require_honorarium"`

	PreferredFormats []string `json:"preferred_formats"`

	InterviewedAt time.Time `json:"interviewed_at"`
}

// ValidationResult carries the outcome of validating proposed profile arguments.
// On failure Errors holds one human-readable string per violated rule, in rule
// order. On success Profile holds the canonical assembled profile.
type ValidationResult struct {
	Success bool              `json:"success"`
	Errors  []string          `json:"errors,omitempty"`
	Profile *InterviewProfile `json:"profile,omitempty"`
}
