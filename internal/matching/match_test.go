package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermsOverlap_EitherDirection(t *testing.T) {
	assert.True(t, TermsOverlap("Cloud", "Cloud Native"))
	assert.True(t, TermsOverlap("Cloud Native", "Cloud"))
}

func TestTermsOverlap_CaseInsensitive(t *testing.T) {
	assert.True(t, TermsOverlap("DEVOPS", "devops"))
	assert.True(t, TermsOverlap("go", "GopherCon Go track"))
}

func TestTermsOverlap_NoMatch(t *testing.T) {
	assert.False(t, TermsOverlap("Rust", "Python"))
}

func TestTermsOverlap_BlankTermsNeverMatch(t *testing.T) {
	assert.False(t, TermsOverlap("", "anything"))
	assert.False(t, TermsOverlap("  ", "anything"))
	assert.False(t, TermsOverlap("anything", ""))
}

func TestAnyContains_OneDirectional(t *testing.T) {
	pool := []string{"Cloud Native", "Observability"}

	assert.True(t, anyContains(pool, "cloud"))
	// The pool entry must contain the term, not the other way around.
	assert.False(t, anyContains([]string{"Go"}, "GopherCon Go track"))
}

func TestPlaceMatches_CityOrCountry(t *testing.T) {
	assert.True(t, placeMatches("japan", "Tokyo", "Japan"))
	assert.True(t, placeMatches("Tokyo Metro", "Tokyo", "Japan"))
	assert.False(t, placeMatches("Iceland", "Tokyo", "Japan"))
}
