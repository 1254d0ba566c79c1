package interview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssemble_TrimsStrings(t *testing.T) {
	args := validArgs()
	args.Role = "  Platform Engineer  "
	args.Company = " ACME "
	args.HomeCity = " Berlin "

	profile := Assemble(args)

	assert.Equal(t, "Platform Engineer", profile.Role)
	assert.Equal(t, "ACME", profile.Company)
	assert.Equal(t, "Berlin", profile.HomeCity)
}

func TestAssemble_DropsEmptyArrayEntries(t *testing.T) {
	args := validArgs()
	args.TechStack = []string{" Go ", "", "  ", "Terraform"}

	profile := Assemble(args)

	assert.Equal(t, []string{"Go", "Terraform"}, profile.TechStack)
}

func TestAssemble_DefaultsMissingOptionals(t *testing.T) {
	profile := Assemble(validArgs())

	assert.NotNil(t, profile.SpeakingTopics)
	assert.Empty(t, profile.SpeakingTopics)
	assert.NotNil(t, profile.Goals)
	assert.NotNil(t, profile.TravelWants)
	assert.Nil(t, profile.MaxTravelHours)
	assert.False(t, profile.PreferRemote)
	assert.False(t, profile.RequireTravelCovered)
	assert.False(t, profile.RequireHotelCovered)
	assert.False(t, profile.RequireHonorarium)
}

func TestAssemble_KeepsMaxTravelHours(t *testing.T) {
	hours := 6.5
	args := validArgs()
	args.MaxTravelHours = &hours

	profile := Assemble(args)

	assert.NotNil(t, profile.MaxTravelHours)
	assert.Equal(t, 6.5, *profile.MaxTravelHours)
}

func TestAssemble_StampsInterviewedAtAtAssemblyTime(t *testing.T) {
	stamp := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	profile := assembleAt(validArgs(), stamp)

	assert.Equal(t, stamp, profile.InterviewedAt)
}

func TestAssemble_InterviewedAtIsRecent(t *testing.T) {
	before := time.Now().UTC()
	profile := Assemble(validArgs())
	after := time.Now().UTC()

	assert.False(t, profile.InterviewedAt.Before(before))
	assert.False(t, profile.InterviewedAt.After(after))
}
