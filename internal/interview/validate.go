// Package interview implements the profile-interview protocol: intercepting
// the agent's commit-profile tool call, validating its arguments and
// assembling the canonical speaker profile.
package interview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/cfp-scout/internal/types"
)

// Array-length caps enforced as hard validation errors, never as silent
// truncation.
const (
	maxTechStack      = 20
	maxInterests      = 10
	maxSpeakingTopics = 10
)

// ProfileArgs mirrors the commit_profile tool argument payload as the remote
// agent proposes it. Field names follow the agent-side tool schema. Nothing
// here is trusted until Validate has passed.
type ProfileArgs struct {
	Role                 string   `json:"role"`
	Company              string   `json:"company,omitempty"`
	TechStack            []string `json:"techStack,omitempty"`
	SideProjects         []string `json:"sideProjects,omitempty"`
	Interests            []string `json:"interests,omitempty"`
	SpeakingTopics       []string `json:"speakingTopics,omitempty"`
	SpeakingExperience   string   `json:"speakingExperience,omitempty"`
	Goals                []string `json:"goals,omitempty"`
	HomeCity             string   `json:"homeCity"`
	HomeCountry          string   `json:"homeCountry"`
	MaxTravelHours       *float64 `json:"maxTravelHours,omitempty"`
	TravelWants          []string `json:"travelWants,omitempty"`
	TravelAvoids         []string `json:"travelAvoids,omitempty"`
	PreferRemote         bool     `json:"preferRemote,omitempty"`
	RequireTravelCovered bool     `json:"requireTravelCovered,omitempty"`
	RequireHotelCovered  bool     `json:"requireHotelCovered,omitempty"`
	RequireHonorarium    bool     `json:"requireHonorarium,omitempty"`
	PreferredFormats     []string `json:"preferredFormats,omitempty"`
}

// Validate checks the proposed arguments against every rule and accumulates
// one error string per violated rule, in rule order, without short-circuiting.
// On success the result carries the canonical assembled profile.
func Validate(args ProfileArgs) types.ValidationResult {
	var errs []string

	if len(strings.TrimSpace(args.Role)) < 2 {
		errs = append(errs, "role is required and must be at least 2 characters")
	}
	if len(dropFalsy(args.Interests)) == 0 {
		errs = append(errs, "at least one interest is required")
	}
	if len(strings.TrimSpace(args.HomeCity)) < 2 {
		errs = append(errs, "homeCity is required and must be at least 2 characters")
	}
	if len(strings.TrimSpace(args.HomeCountry)) < 2 {
		errs = append(errs, "homeCountry is required and must be at least 2 characters")
	}
	if args.SpeakingExperience != "" && !validExperience(args.SpeakingExperience) {
		errs = append(errs, "speakingExperience must be one of: none, meetups, regional, international")
	}
	for _, format := range args.PreferredFormats {
		if !validFormat(format) {
			errs = append(errs, "preferredFormats entries must be one of: in-person, virtual, hybrid")
			break
		}
	}
	if len(dropFalsy(args.TechStack)) > maxTechStack {
		errs = append(errs, fmt.Sprintf("techStack cannot exceed %d entries", maxTechStack))
	}
	if len(dropFalsy(args.Interests)) > maxInterests {
		errs = append(errs, fmt.Sprintf("interests cannot exceed %d entries", maxInterests))
	}
	if len(dropFalsy(args.SpeakingTopics)) > maxSpeakingTopics {
		errs = append(errs, fmt.Sprintf("speakingTopics cannot exceed %d entries", maxSpeakingTopics))
	}

	if len(errs) > 0 {
		return types.ValidationResult{Success: false, Errors: errs}
	}
	return types.ValidationResult{Success: true, Profile: Assemble(args)}
}

// ValidateRaw decodes raw tool-call arguments and validates them. Arguments
// that are not a JSON object fail validation rather than erroring, so the
// rejection flows back into the conversation like any other.
func ValidateRaw(raw json.RawMessage) types.ValidationResult {
	var args ProfileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return types.ValidationResult{
			Success: false,
			Errors:  []string{"arguments must be a JSON object matching the profile schema"},
		}
	}
	return Validate(args)
}

func validExperience(exp string) bool {
	switch types.SpeakingExperience(exp) {
	case types.ExperienceNone, types.ExperienceMeetups, types.ExperienceRegional, types.ExperienceInternational:
		return true
	}
	return false
}

func validFormat(format string) bool {
	switch format {
	case types.FormatInPerson, types.FormatVirtual, types.FormatHybrid:
		return true
	}
	return false
}

// dropFalsy removes entries that are empty after trimming.
func dropFalsy(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
