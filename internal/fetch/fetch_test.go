package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>CFP open until June</body></html>"))
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "CFP open until June")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "invalid URL", fetchErr.Message)
}

func TestURL_Non200ReturnsResultAndError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	result, err := URL(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestURL_SetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	_, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, got)
}

func TestFetchAll_PreservesOrderAndSkipsFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	results, err := FetchAll(context.Background(), []string{good.URL, bad.URL, good.URL}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	assert.NotNil(t, results[2])
}

func TestExtractMainText_PrefersContentSelector(t *testing.T) {
	html := `<html><body>
		<nav>Menu Menu Menu</nav>
		<div class="cfp-content">Submit your Kubernetes talk by May 1.</div>
		<footer>legal</footer>
	</body></html>`

	text, err := ExtractMainText(html, CFPPageSelectors())
	require.NoError(t, err)

	assert.Contains(t, text, "Submit your Kubernetes talk")
	assert.NotContains(t, text, "Menu")
	assert.NotContains(t, text, "legal")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Plain event page.</p></body></html>`

	text, err := ExtractMainText(html, CFPPageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Plain event page.")
}

func TestExtractMainText_RemovesNoiseSelectors(t *testing.T) {
	html := `<html><body>
		<div class="cfp-content">
			<p>Talk guidelines here.</p>
			<div class="cta-banner">Sign up now!</div>
		</div>
	</body></html>`

	text, err := ExtractMainText(html, CFPPageSelectors(), ".cta-banner")
	require.NoError(t, err)

	assert.Contains(t, text, "Talk guidelines")
	assert.NotContains(t, text, "Sign up now!")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("stub"))
	long := make([]byte, MinContentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
