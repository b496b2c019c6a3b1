package ocisigner

import "github.com/caarlos0/env/v6"

// Names of the environment variables consulted when a Signer is built with
// NewSignerFromEnvironment.
const (
	EnvTenancyID          = "OCI_TENANCY_ID"
	EnvUserID             = "OCI_USER_ID"
	EnvKeyFingerprint     = "OCI_KEY_FINGERPRINT"
	EnvPrivateKeyFilename = "OCI_PRIVATE_KEY_FILENAME"
	EnvPrivateKey         = "OCI_PRIVATE_KEY"
)

// Config carries the credential tuple used to sign requests and to compose
// the keyId of the Authorization header.
type Config struct {
	TenancyID          string `env:"OCI_TENANCY_ID"`
	UserID             string `env:"OCI_USER_ID"`
	KeyFingerprint     string `env:"OCI_KEY_FINGERPRINT"`
	PrivateKeyFilename string `env:"OCI_PRIVATE_KEY_FILENAME"`

	// PrivateKey holds the PEM content directly instead of a file path.
	// Reserved: the key resolver does not read it yet.
	// TODO: resolve PrivateKey before falling back to PrivateKeyFilename.
	PrivateKey string `env:"OCI_PRIVATE_KEY"`
}

// ConfigFromEnvironment reads the OCI_* environment variables into a Config.
func ConfigFromEnvironment() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
