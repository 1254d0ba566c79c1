package interview

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArgs() ProfileArgs {
	return ProfileArgs{
		Role:        "Platform Engineer",
		Interests:   []string{"Kubernetes", "Observability"},
		HomeCity:    "Berlin",
		HomeCountry: "Germany",
	}
}

func TestValidate_AllRequiredFieldsPresent(t *testing.T) {
	result := Validate(validArgs())

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Platform Engineer", result.Profile.Role)
}

func TestValidate_MissingRole(t *testing.T) {
	args := validArgs()
	args.Role = ""

	result := Validate(args)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "role")
}

func TestValidate_RoleTooShortAfterTrim(t *testing.T) {
	args := validArgs()
	args.Role = "  a  "

	result := Validate(args)

	assert.False(t, result.Success)
	assert.Contains(t, result.Errors[0], "role")
}

func TestValidate_InterestsAllFalsy(t *testing.T) {
	args := validArgs()
	args.Interests = []string{"", "   ", ""}

	result := Validate(args)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "interest")
}

func TestValidate_AccumulatesAllViolations(t *testing.T) {
	// Scenario: every required field is missing. One error per violated
	// rule, no short-circuit.
	result := Validate(ProfileArgs{})

	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "role")
	assert.Contains(t, result.Errors[1], "interest")
	assert.Contains(t, result.Errors[2], "homeCity")
	assert.Contains(t, result.Errors[3], "homeCountry")
}

func TestValidate_InvalidSpeakingExperience(t *testing.T) {
	args := validArgs()
	args.SpeakingExperience = "keynotes"

	result := Validate(args)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "speakingExperience")
}

func TestValidate_SpeakingExperienceOptional(t *testing.T) {
	args := validArgs()
	args.SpeakingExperience = ""

	result := Validate(args)

	assert.True(t, result.Success)
}

func TestValidate_InvalidPreferredFormat(t *testing.T) {
	args := validArgs()
	args.PreferredFormats = []string{"virtual", "metaverse"}

	result := Validate(args)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "preferredFormats")
}

func TestValidate_TechStackCapIsHardError(t *testing.T) {
	args := validArgs()
	args.TechStack = make([]string, 21)
	for i := range args.TechStack {
		args.TechStack[i] = "tool"
	}

	result := Validate(args)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "techStack")
}

func TestValidate_InterestsCap(t *testing.T) {
	args := validArgs()
	args.Interests = make([]string, 11)
	for i := range args.Interests {
		args.Interests[i] = "topic"
	}

	result := Validate(args)

	assert.False(t, result.Success)
	assert.Contains(t, strings.Join(result.Errors, " "), "interests cannot exceed 10")
}

func TestValidate_SpeakingTopicsCap(t *testing.T) {
	args := validArgs()
	args.SpeakingTopics = make([]string, 11)
	for i := range args.SpeakingTopics {
		args.SpeakingTopics[i] = "talk"
	}

	result := Validate(args)

	assert.False(t, result.Success)
	assert.Contains(t, result.Errors[0], "speakingTopics")
}

func TestValidate_CapCountsIgnoreFalsyEntries(t *testing.T) {
	args := validArgs()
	// 25 raw entries but only 20 survive the falsy filter: within the cap.
	args.TechStack = make([]string, 25)
	for i := 0; i < 20; i++ {
		args.TechStack[i] = "tool"
	}

	result := Validate(args)

	assert.True(t, result.Success)
}

func TestValidateRaw_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{
		"role": "SRE",
		"interests": ["chaos engineering"],
		"homeCity": "Oslo",
		"homeCountry": "Norway"
	}`)

	result := ValidateRaw(raw)

	assert.True(t, result.Success)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Oslo", result.Profile.HomeCity)
}

func TestValidateRaw_MalformedJSONFailsValidation(t *testing.T) {
	result := ValidateRaw(json.RawMessage(`not an object`))

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
}
