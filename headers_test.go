package ocisigner

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// base64(SHA-256("")), the digest signed for bodyless requests.
const emptyBodySHA256 = "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU="

func TestSignedHeaderNames(t *testing.T) {
	generic := []string{HeaderDate, HeaderRequestTarget, HeaderHost}
	withBody := []string{
		HeaderDate, HeaderRequestTarget, HeaderHost,
		HeaderContentLength, HeaderContentType, HeaderContentSHA256,
	}

	tests := []struct {
		method string
		want   []string
	}{
		{"GET", generic},
		{"DELETE", generic},
		{"HEAD", generic},
		{"OPTIONS", generic},
		{"POST", withBody},
		{"PUT", withBody},
		{"PATCH", withBody},
		{"post", withBody},
		{"put", withBody},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			require.Equal(t, tt.want, signedHeaderNames(tt.method))
		})
	}
}

func TestBuildHeaderSetPost(t *testing.T) {
	u, err := url.Parse("https://example.com/v1/items?x=1")
	require.NoError(t, err)

	body := []byte(`{"a": 1}`)
	date := "Tue, 01 Jan 2024 00:00:00 GMT"

	set := buildHeaderSet(u, "POST", body, "application/json", date)

	require.Equal(t, headerSet{
		{HeaderDate, date},
		{HeaderRequestTarget, "post /v1/items?x=1"},
		{HeaderHost, "example.com"},
		{HeaderContentLength, "8"},
		{HeaderContentType, "application/json"},
		{HeaderContentSHA256, bodySHA256(body)},
	}, set)
}

func TestBuildHeaderSetGet(t *testing.T) {
	u, err := url.Parse("https://example.com/v1/items")
	require.NoError(t, err)

	date := "Tue, 01 Jan 2024 00:00:00 GMT"
	set := buildHeaderSet(u, "GET", nil, "application/json", date)

	require.Equal(t, headerSet{
		{HeaderDate, date},
		{HeaderRequestTarget, "get /v1/items"},
		{HeaderHost, "example.com"},
	}, set)
}

func TestBuildHeaderSetDefaultDate(t *testing.T) {
	u, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	set := buildHeaderSet(u, "GET", nil, "application/json", "")

	require.Equal(t, HeaderDate, set[0].name)
	parsed, err := time.Parse(http.TimeFormat, set[0].value)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestBuildHeaderSetKeepsHostPort(t *testing.T) {
	u, err := url.Parse("http://localhost:9200/_bulk")
	require.NoError(t, err)

	set := buildHeaderSet(u, "POST", []byte("{}"), "application/json", "x")
	require.Equal(t, "localhost:9200", set[2].value)
	require.Equal(t, "post /_bulk", set[1].value)
}

func TestRequestTargetEmptyPath(t *testing.T) {
	u, err := url.Parse("https://example.com")
	require.NoError(t, err)

	require.Equal(t, "get /", requestTarget(u, "GET"))
}

func TestBodySHA256EmptyBody(t *testing.T) {
	require.Equal(t, emptyBodySHA256, bodySHA256(nil))
	require.Equal(t, emptyBodySHA256, bodySHA256([]byte{}))
}

func TestSigningString(t *testing.T) {
	u, err := url.Parse("https://example.com/v1/items?x=1")
	require.NoError(t, err)

	body := []byte(`{"a": 1}`)
	date := "Tue, 01 Jan 2024 00:00:00 GMT"
	set := buildHeaderSet(u, "POST", body, "application/json", date)

	want := strings.Join([]string{
		"date: Tue, 01 Jan 2024 00:00:00 GMT",
		"(request-target): post /v1/items?x=1",
		"host: example.com",
		"content-length: 8",
		"content-type: application/json",
		"x-content-sha256: " + bodySHA256(body),
	}, "\n")

	got := set.signingString()
	require.Equal(t, want, got)
	require.False(t, strings.HasSuffix(got, "\n"))
}

func TestSigningStringDeterministic(t *testing.T) {
	u, err := url.Parse("https://example.com/v1/items?x=1")
	require.NoError(t, err)

	date := "Tue, 01 Jan 2024 00:00:00 GMT"
	first := buildHeaderSet(u, "POST", []byte("{}"), "application/json", date)
	second := buildHeaderSet(u, "POST", []byte("{}"), "application/json", date)

	require.Equal(t, first.signingString(), second.signingString())
}
