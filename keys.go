package ocisigner

import (
	"fmt"
	"os"
	"strings"
)

// KeyProvider supplies the private key material and the key identifier used
// in the Authorization header. When a provider is configured on a Signer it
// is authoritative: the credential tuple is ignored entirely, including for
// keyId composition.
type KeyProvider interface {
	// GetPrivateKey returns the PEM-encoded RSA private key.
	GetPrivateKey() (string, error)

	// GetKeyId returns the value of the keyId field of the Authorization
	// header, identifying the public key a verifier should use.
	GetKeyId() (string, error)
}

// resolvePrivateKey returns the PEM bytes of the signing key. The provider
// takes precedence; otherwise the configured key file is read. With no key
// source at all it returns nil and leaves the failure to the signature
// engine, which rejects an empty key.
func (s *Signer) resolvePrivateKey() ([]byte, error) {
	if s.provider != nil {
		pemKey, err := s.provider.GetPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("key provider: %w", err)
		}
		return []byte(pemKey), nil
	}

	if s.privateKeyFilename == "" {
		return nil, nil
	}

	keyBytes, err := os.ReadFile(s.privateKeyFilename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPrivateKeyFileNotFound, s.privateKeyFilename)
		}
		return nil, err
	}

	return keyBytes, nil
}

// resolveKeyID returns the keyId for the Authorization header: the
// provider's value when one is set, otherwise the slash-joined credential
// tuple tenancyId/userId/keyFingerprint.
func (s *Signer) resolveKeyID() (string, error) {
	if s.provider != nil {
		keyID, err := s.provider.GetKeyId()
		if err != nil {
			return "", fmt.Errorf("key provider: %w", err)
		}
		return keyID, nil
	}

	return strings.Join([]string{s.tenancyID, s.userID, s.keyFingerprint}, "/"), nil
}
