package ocisigner

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	p2pcrypto "github.com/libp2p/go-libp2p-crypto"
)

// parsePrivateKeyPEM decodes a PEM-encoded RSA private key. Both PKCS#1
// ("RSA PRIVATE KEY") and PKCS#8 ("PRIVATE KEY") blocks are accepted; PKCS#8
// keys are re-encoded to PKCS#1 since libp2p-crypto unmarshals the latter.
func parsePrivateKeyPEM(pemBytes []byte) (p2pcrypto.PrivKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block found in private key")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return p2pcrypto.UnmarshalRsaPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("unsupported private key type %T, only RSA is supported", key)
		}
		return p2pcrypto.UnmarshalRsaPrivateKey(x509.MarshalPKCS1PrivateKey(rsaKey))
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

// signAndVerify signs the signing string with RSA-SHA256 (PKCS#1 v1.5) and
// immediately re-verifies the signature against the public key derived from
// the same private key. Only a signature that passes this check is returned,
// base64-encoded.
func signAndVerify(signingString string, pemKey []byte) (string, error) {
	privKey, err := parsePrivateKeyPEM(pemKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	data := []byte(signingString)

	signature, err := privKey.Sign(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	ok, err := privKey.GetPublic().Verify(data, signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignatureVerificationFailed, err)
	}
	if !ok {
		return "", ErrSignatureVerificationFailed
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}
