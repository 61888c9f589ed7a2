package wikipedia

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const citricAcidSummary = `{
  "type": "standard",
  "title": "Citric acid",
  "extract": "citric acid (C6H8O7) is an organic compound with the chemical formula HOCH2(CO2H)2. It is a colorless weak organic acid found naturally in citrus fruits.",
  "content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Citric_acid"}}
}`

func newTestClient(t *testing.T) *Client {
	t.Helper()
	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return New(Config{BaseURL: "https://wiki.test/api/rest_v1", HTTPClient: httpClient})
}

func TestLookupDefinitionCleansExtract(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, "https://wiki.test/api/rest_v1/page/summary/Citric_acid",
		func(req *http.Request) (*http.Response, error) {
			assert.Contains(t, req.Header.Get("User-Agent"), "gusto")
			return httpmock.NewStringResponse(http.StatusOK, citricAcidSummary), nil
		})

	def, err := c.LookupDefinition(context.Background(), "citric  ACID")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(def, "Citric acid is an organic compound"), def)
	assert.NotContains(t, def, "(")

	refs, err := c.LookupReferences(context.Background(), "citric acid")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Citric_acid", refs[0].URL)
	assert.Equal(t, "Wikipedia", refs[0].Source)
	assert.False(t, refs[0].PeerReviewed)

	// The second and third calls are served from the cache.
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestLookupDefinitionNotFoundIsCached(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~/page/summary/`,
		httpmock.NewStringResponder(http.StatusNotFound, `{"type": "https://mediawiki.org/wiki/HyperSwitch/errors/not_found"}`))

	for range 2 {
		def, err := c.LookupDefinition(context.Background(), "zzzz unknown")
		require.NoError(t, err)
		assert.Empty(t, def)
	}
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestLookupDefinitionDisambiguation(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~/page/summary/Gum`,
		httpmock.NewStringResponder(http.StatusOK, `{"type": "disambiguation", "title": "Gum", "extract": "Gum may refer to many different things in many different contexts."}`))

	def, err := c.LookupDefinition(context.Background(), "gum")
	require.NoError(t, err)
	assert.Empty(t, def)
}

func TestLookupDefinitionServerError(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~/page/summary/`,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy"))

	_, err := c.LookupDefinition(context.Background(), "salt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestLookupDefinitionFallsBackToHTMLExtract(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, `=~/page/summary/Maltodextrin`,
		httpmock.NewStringResponder(http.StatusOK, `{
  "type": "standard",
  "title": "Maltodextrin",
  "extract": "",
  "extract_html": "<p><b>Maltodextrin</b> is a polysaccharide that is used as a food additive and is produced from vegetable starch.</p>"
}`))

	def, err := c.LookupDefinition(context.Background(), "maltodextrin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(def, "Maltodextrin is a polysaccharide"), def)
}

func TestCleanExtract(t *testing.T) {
	assert.Empty(t, CleanExtract("Too short."))

	long := "sugar " + strings.Repeat("is sweet and ", 40)
	got := CleanExtract(long)
	assert.True(t, strings.HasPrefix(got, "Sugar is sweet"))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), maxExtractLen+3)
}

func TestArticleTitle(t *testing.T) {
	assert.Equal(t, "Soy_lecithin", articleTitle("  SOY   Lecithin "))
	assert.Empty(t, articleTitle(" "))
}
