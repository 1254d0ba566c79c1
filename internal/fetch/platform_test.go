package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform_Sessionize(t *testing.T) {
	assert.Equal(t, PlatformSessionize, DetectPlatform("https://sessionize.com/gophercon-2026/"))
}

func TestDetectPlatform_PaperCall(t *testing.T) {
	assert.Equal(t, PlatformPaperCall, DetectPlatform("https://www.papercall.io/devopsdays-berlin"))
}

func TestDetectPlatform_Pretalx(t *testing.T) {
	assert.Equal(t, PlatformPretalx, DetectPlatform("https://pretalx.com/pycon-de-2026/cfp"))
}

func TestDetectPlatform_Unknown(t *testing.T) {
	assert.Equal(t, PlatformUnknown, DetectPlatform("https://example.com/cfp"))
}

func TestPlatformContentSelectors_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, CFPPageSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors_IncludeCommon(t *testing.T) {
	for _, p := range []Platform{PlatformSessionize, PlatformPaperCall, PlatformPretalx, PlatformUnknown} {
		assert.Contains(t, PlatformNoiseSelectors(p), ".cookie-banner")
	}
}
