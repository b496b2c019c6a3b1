package ocisigner

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// RequestSigner signs outbound *http.Request values in place. Because a
// Signer caches its header set after the first use, RequestSigner builds a
// fresh Signer for every request; it is safe to reuse across requests.
type RequestSigner struct {
	newSigner func() *Signer
}

// NewRequestSigner returns a RequestSigner backed by the explicit credential
// tuple.
func NewRequestSigner(tenancyID, userID, keyFingerprint, privateKeyFilename string) *RequestSigner {
	return &RequestSigner{
		newSigner: func() *Signer {
			return NewSigner(tenancyID, userID, keyFingerprint, privateKeyFilename)
		},
	}
}

// NewRequestSignerFromEnvironment returns a RequestSigner with credentials
// read from the OCI_* environment variables.
func NewRequestSignerFromEnvironment() (*RequestSigner, error) {
	cfg, err := ConfigFromEnvironment()
	if err != nil {
		return nil, err
	}
	return NewRequestSigner(cfg.TenancyID, cfg.UserID, cfg.KeyFingerprint, cfg.PrivateKeyFilename), nil
}

// NewRequestSignerFromConfig returns a RequestSigner backed by the tuple
// carried in cfg.
func NewRequestSignerFromConfig(cfg *Config) *RequestSigner {
	return NewRequestSigner(cfg.TenancyID, cfg.UserID, cfg.KeyFingerprint, cfg.PrivateKeyFilename)
}

// NewRequestSignerWithKeyProvider returns a RequestSigner that delegates key
// material and keyId to the given provider.
func NewRequestSignerWithKeyProvider(provider KeyProvider) (*RequestSigner, error) {
	if provider == nil {
		return nil, fmt.Errorf("nil key provider")
	}
	return &RequestSigner{
		newSigner: func() *Signer {
			s, _ := NewSignerWithKeyProvider(provider)
			return s
		},
	}, nil
}

// SignRequest computes the signature over the request and stamps the
// resulting headers onto it. The request URL must be absolute. The body, if
// any, is read and replaced with a rereadable buffer so the request can
// still be sent afterwards.
func (rs *RequestSigner) SignRequest(r *http.Request) error {
	var bodyBytes []byte

	if r.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(r.Body)
		if err != nil {
			return err
		}
		// NOTE: this enables us to reread Body later if necessary
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	pairs, err := rs.newSigner().signedRequestHeaders(
		r.URL.String(),
		r.Method,
		bodyBytes,
		r.Header.Get("Content-Type"),
		r.Header.Get("Date"),
	)
	if err != nil {
		return err
	}

	for _, hv := range pairs {
		r.Header.Set(hv.name, hv.value)
	}

	return nil
}
