package interview

import (
	"strings"
	"time"

	"github.com/jonathan/cfp-scout/internal/types"
)

// Assemble normalizes validated arguments into the canonical profile: every
// string trimmed, empty array entries dropped, missing arrays defaulted to
// empty, and interviewedAt stamped at assembly time rather than when the
// tool call was issued.
func Assemble(args ProfileArgs) *types.InterviewProfile {
	return assembleAt(args, time.Now().UTC())
}

func assembleAt(args ProfileArgs, now time.Time) *types.InterviewProfile {
	return &types.InterviewProfile{
		Role:    strings.TrimSpace(args.Role),
		Company: strings.TrimSpace(args.Company),

		TechStack:    normalizeList(args.TechStack),
		SideProjects: normalizeList(args.SideProjects),
		Interests:    normalizeList(args.Interests),

		SpeakingTopics:     normalizeList(args.SpeakingTopics),
		SpeakingExperience: types.SpeakingExperience(strings.TrimSpace(args.SpeakingExperience)),
		Goals:              normalizeList(args.Goals),

		HomeCity:       strings.TrimSpace(args.HomeCity),
		HomeCountry:    strings.TrimSpace(args.HomeCountry),
		MaxTravelHours: args.MaxTravelHours,
		TravelWants:    normalizeList(args.TravelWants),
		TravelAvoids:   normalizeList(args.TravelAvoids),
		PreferRemote:   args.PreferRemote,

		RequireTravelCovered: args.RequireTravelCovered,
		RequireHotelCovered:  args.RequireHotelCovered,
		RequireHonorarium:    args.RequireHonorarium,

		PreferredFormats: normalizeList(args.PreferredFormats),

		InterviewedAt: now,
	}
}

// normalizeList trims every entry and drops the ones left empty. A nil input
// yields an empty, non-nil slice so downstream JSON always carries arrays.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
