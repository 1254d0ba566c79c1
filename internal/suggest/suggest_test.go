package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Role(t *testing.T) {
	category := Classify("To get started, what's your role?")
	assert.Equal(t, CategoryRole, category)
}

func TestClassify_TechStack(t *testing.T) {
	category := Classify("Which technologies do you work with day to day?")
	assert.Equal(t, CategoryTechStack, category)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	category := Classify("HAVE YOU SPOKEN AT CONFERENCES BEFORE?")
	assert.Equal(t, CategoryExperience, category)
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Mentions both completion and travel phrasing; completion is checked
	// first and wins.
	category := Classify("You're all set! We can revisit travel later.")
	assert.Equal(t, CategoryCompletion, category)
}

func TestClassify_NoMatch(t *testing.T) {
	category := Classify("Let me think about that for a second.")
	assert.Equal(t, CategoryNone, category)
}

func TestQuickReplies_FourPerCategory(t *testing.T) {
	replies := QuickReplies("Where are you based?")
	assert.Len(t, replies, 4)
	assert.Contains(t, replies, "Berlin, Germany")
}

func TestQuickReplies_EmptyWithoutMatch(t *testing.T) {
	replies := QuickReplies("Hmm.")
	assert.Empty(t, replies)
}

func TestQuickReplies_ReturnsACopy(t *testing.T) {
	first := QuickReplies("What are your goals for speaking?")
	first[0] = "mutated"

	second := QuickReplies("What are your goals for speaking?")
	assert.NotEqual(t, "mutated", second[0])
}
