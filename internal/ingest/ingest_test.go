package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cfp-scout/internal/types"
)

const eventHTML = `<html>
<head>
	<title>GopherCon EU 2026 | Sessionize</title>
	<meta property="og:title" content="GopherCon EU 2026">
	<meta name="keywords" content="Go, Cloud, Distributed Systems">
</head>
<body>
	<h1>GopherCon EU 2026</h1>
	<div class="location">Berlin, Germany</div>
	<p>A hybrid conference for intermediate and advanced gophers.</p>
	<ul class="topics"><li>Go</li><li>Kubernetes</li></ul>
</body>
</html>`

func TestParseEventPage_ExtractsCoreFields(t *testing.T) {
	record, err := ParseEventPage(eventHTML, "https://sessionize.com/gophercon-eu-2026/")
	require.NoError(t, err)

	assert.Equal(t, "GopherCon EU 2026", record.Name)
	assert.Equal(t, "sessionize.com-gophercon-eu-2026", record.ID)
	assert.Equal(t, "Berlin", record.City)
	assert.Equal(t, "Germany", record.Country)
	assert.Equal(t, string(types.FormatHybrid), record.EventFormat)
}

func TestParseEventPage_TopicsDeduplicated(t *testing.T) {
	record, err := ParseEventPage(eventHTML, "https://sessionize.com/gophercon-eu-2026/")
	require.NoError(t, err)

	// "Go" appears in both keywords and the topic list but only once here.
	assert.Equal(t, []string{"Go", "Cloud", "Distributed Systems", "Kubernetes"}, record.Topics)
}

func TestParseEventPage_TitleFallback(t *testing.T) {
	html := `<html><head><title>DevOpsDays Oslo | papercall.io</title></head><body><p>online-only</p></body></html>`
	record, err := ParseEventPage(html, "https://www.papercall.io/devopsdays-oslo")
	require.NoError(t, err)

	assert.Equal(t, "DevOpsDays Oslo", record.Name)
	assert.Equal(t, string(types.FormatVirtual), record.EventFormat)
}

func TestParseEventPage_NoNameIsError(t *testing.T) {
	_, err := ParseEventPage("<html><body><p>nothing here</p></body></html>", "https://example.com/x")
	assert.Error(t, err)
}

func TestFetchCandidates_SkipsBrokenPages(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(eventHTML))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer bad.Close()

	records, err := FetchCandidates(context.Background(), []string{good.URL, bad.URL}, nil, nil)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "GopherCon EU 2026", records[0].Name)
}
