package ocisigner

import "errors"

var (
	// ErrInvalidURL is returned when the target URL is not a well-formed
	// absolute URL.
	ErrInvalidURL = errors.New("target URL is not a well-formed absolute URL")

	// ErrMissingCredentials is returned when no key provider is configured
	// and one or more of tenancy id, user id, key fingerprint or private key
	// filename is empty.
	ErrMissingCredentials = errors.New("missing tenancy id, user id, key fingerprint or private key filename")

	// ErrPrivateKeyFileNotFound is returned when the configured private key
	// filename does not reference an existing file.
	ErrPrivateKeyFileNotFound = errors.New("private key file does not exist")

	// ErrSigningFailed is returned when the private key cannot be parsed or
	// the signing primitive fails.
	ErrSigningFailed = errors.New("could not sign the request")

	// ErrSignatureVerificationFailed is returned when a freshly computed
	// signature does not verify against the public key derived from the same
	// private key. A signature is never returned without this check passing.
	ErrSignatureVerificationFailed = errors.New("signature failed self-verification")
)
