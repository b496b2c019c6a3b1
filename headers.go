package ocisigner

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Header names participating in the signature. (request-target) is a
// pseudo-header: it is signed and listed in the Authorization header but
// never transmitted as a literal header.
const (
	HeaderDate          = "date"
	HeaderRequestTarget = "(request-target)"
	HeaderHost          = "host"
	HeaderContentLength = "content-length"
	HeaderContentType   = "content-type"
	HeaderContentSHA256 = "x-content-sha256"
	HeaderAuthorization = "Authorization"
)

// DefaultContentType is assumed when the caller does not supply one.
const DefaultContentType = "application/json"

type headerValue struct {
	name  string
	value string
}

// headerSet is an ordered list of resolved signing headers. The order is
// significant: it fixes both the line order of the signing string and the
// headers="..." list of the Authorization header.
type headerSet []headerValue

// signedHeaderNames returns the header names that participate in the
// signature for the given HTTP method, in signing order. POST, PUT and PATCH
// additionally sign the body-describing headers; every other method signs
// only the three generic ones.
func signedHeaderNames(method string) []string {
	names := []string{HeaderDate, HeaderRequestTarget, HeaderHost}

	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		names = append(names, HeaderContentLength, HeaderContentType, HeaderContentSHA256)
	}

	return names
}

// buildHeaderSet resolves every signed header to its concrete value.
//   - date: the supplied date string verbatim, or the current UTC time in
//     RFC 7231 format when empty.
//   - (request-target): lowercased method, a space, the URL path, and the raw
//     query string prefixed with "?" when present.
//   - host: the URL host verbatim, port included if given.
//   - content-length: the body length in bytes as a decimal string.
//   - content-type: the supplied content type verbatim.
//   - x-content-sha256: base64 of the raw SHA-256 digest of the body.
func buildHeaderSet(u *url.URL, method string, body []byte, contentType, date string) headerSet {
	if date == "" {
		date = time.Now().UTC().Format(http.TimeFormat)
	}

	set := headerSet{}
	for _, name := range signedHeaderNames(method) {
		var value string

		switch name {
		case HeaderDate:
			value = date
		case HeaderRequestTarget:
			value = requestTarget(u, method)
		case HeaderHost:
			value = u.Host
		case HeaderContentLength:
			value = strconv.Itoa(len(body))
		case HeaderContentType:
			value = contentType
		case HeaderContentSHA256:
			value = bodySHA256(body)
		}

		set = append(set, headerValue{name: name, value: value})
	}

	return set
}

// requestTarget renders the (request-target) pseudo-header value, e.g.
// "post /v1/resource?x=1".
func requestTarget(u *url.URL, method string) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	target := strings.ToLower(method) + " " + path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

func bodySHA256(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// signingString joins the headers as "<name>: <value>" lines separated by a
// single \n with no trailing newline. These exact bytes are what gets signed.
func (h headerSet) signingString() string {
	lines := make([]string, 0, len(h))
	for _, hv := range h {
		lines = append(lines, hv.name+": "+hv.value)
	}
	return strings.Join(lines, "\n")
}

// names returns the signed header names in order, for the headers="..." list.
func (h headerSet) names() []string {
	names := make([]string, 0, len(h))
	for _, hv := range h {
		names = append(names, hv.name)
	}
	return names
}
