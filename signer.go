// Package ocisigner produces signed HTTP headers for the OCI variant of the
// HTTP Signatures scheme: a canonical signing string is built from a fixed,
// method-dependent set of headers, signed with an RSA private key
// (rsa-sha256, PKCS#1 v1.5) and emitted as an Authorization header together
// with the synthesized headers that must accompany it on the wire.
package ocisigner

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Signer computes the signed header set for a single request.
//
// The resolved header values are computed once, on the first GetHeaders call,
// and cached for the lifetime of the instance: later calls with different
// arguments silently reuse the first call's values. This is deliberate
// reuse-once semantics, not a defect: construct a fresh Signer to sign a
// different request. A Signer is not safe for concurrent use.
type Signer struct {
	tenancyID          string
	userID             string
	keyFingerprint     string
	privateKeyFilename string

	// provider, when set, supplies key material and keyId and makes the
	// credential tuple above irrelevant.
	provider KeyProvider

	// cached header set, fixed by the first GetHeaders call.
	headers headerSet
}

// NewSigner returns a Signer backed by the explicit credential tuple. The
// keyId is composed as tenancyID/userID/keyFingerprint.
func NewSigner(tenancyID, userID, keyFingerprint, privateKeyFilename string) *Signer {
	return &Signer{
		tenancyID:          tenancyID,
		userID:             userID,
		keyFingerprint:     keyFingerprint,
		privateKeyFilename: privateKeyFilename,
	}
}

// NewSignerFromConfig returns a Signer backed by the tuple carried in cfg.
func NewSignerFromConfig(cfg *Config) *Signer {
	return NewSigner(cfg.TenancyID, cfg.UserID, cfg.KeyFingerprint, cfg.PrivateKeyFilename)
}

// NewSignerFromEnvironment returns a Signer with credentials read from the
// OCI_* environment variables.
func NewSignerFromEnvironment() (*Signer, error) {
	cfg, err := ConfigFromEnvironment()
	if err != nil {
		return nil, err
	}
	return NewSignerFromConfig(cfg), nil
}

// NewSignerWithKeyProvider returns a Signer that delegates key material and
// keyId to the given provider. Credential validation is skipped entirely;
// provider failures surface at signing time.
func NewSignerWithKeyProvider(provider KeyProvider) (*Signer, error) {
	if provider == nil {
		return nil, fmt.Errorf("nil key provider")
	}
	return &Signer{provider: provider}, nil
}

// GetHeaders validates the target URL, builds the canonical signing string,
// signs it and returns the headers to attach to the request as "name: value"
// lines: every signed header except the (request-target) pseudo-header,
// followed by the Authorization header.
//
// Zero values select defaults: empty method means GET, empty contentType
// means application/json, empty date means the current UTC time in RFC 7231
// format, nil body means an empty body.
func (s *Signer) GetHeaders(rawURL, method string, body []byte, contentType, date string) ([]string, error) {
	pairs, err := s.signedRequestHeaders(rawURL, method, body, contentType, date)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(pairs))
	for _, hv := range pairs {
		lines = append(lines, hv.name+": "+hv.value)
	}
	return lines, nil
}

// signedRequestHeaders runs the full pipeline: validate, canonicalize, sign,
// self-verify and assemble. The returned pairs exclude (request-target) and
// end with the Authorization header.
func (s *Signer) signedRequestHeaders(rawURL, method string, body []byte, contentType, date string) (headerSet, error) {
	u, err := s.validate(rawURL)
	if err != nil {
		return nil, err
	}

	if method == "" {
		method = http.MethodGet
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	if s.headers == nil {
		s.headers = buildHeaderSet(u, method, body, contentType, date)
	}

	pemKey, err := s.resolvePrivateKey()
	if err != nil {
		return nil, err
	}

	signature, err := signAndVerify(s.headers.signingString(), pemKey)
	if err != nil {
		return nil, err
	}

	keyID, err := s.resolveKeyID()
	if err != nil {
		return nil, err
	}

	pairs := headerSet{}
	for _, hv := range s.headers {
		if hv.name == HeaderRequestTarget {
			continue
		}
		pairs = append(pairs, hv)
	}

	pairs = append(pairs, headerValue{
		name:  HeaderAuthorization,
		value: authorizationHeader(keyID, s.headers.names(), signature),
	})

	return pairs, nil
}

// validate checks the URL and, when no key provider is configured, the
// credential tuple and the existence of the private key file. It runs before
// any cryptographic work.
func (s *Signer) validate(rawURL string) (*url.URL, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if s.provider != nil {
		return u, nil
	}

	if s.tenancyID == "" || s.userID == "" || s.keyFingerprint == "" || s.privateKeyFilename == "" {
		return nil, ErrMissingCredentials
	}

	if _, err := os.Stat(s.privateKeyFilename); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPrivateKeyFileNotFound, s.privateKeyFilename)
	}

	return u, nil
}

// authorizationHeader renders the Authorization value. The headers list
// keeps the signing order and includes the (request-target) pseudo-header
// even though it is never transmitted.
func authorizationHeader(keyID string, signedNames []string, signature string) string {
	return fmt.Sprintf(
		"Signature version=\"1\",keyId=%q,algorithm=\"rsa-sha256\",headers=%q,signature=%q",
		keyID,
		strings.Join(signedNames, " "),
		signature,
	)
}
