package main

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"regexp"

	"github.com/google/uuid"
	ocisigner "github.com/opaolini/oci-http-signer"

	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-Id"

// ProxyConfig is read from the environment. The OCI_* credential variables
// are picked up through the nested signing config.
type ProxyConfig struct {
	Port int `env:"PORT" envDefault:"3000"`

	// Proxy target; the signature covers this host.
	RemoteAddress string `env:"REMOTE_ADDRESS"`

	// InputValidation enables the basic-auth gate on incoming requests.
	InputValidation bool `env:"INPUT_VALIDATION"`
	// Allowed users passed in as a comma separated user:password list.
	AllowedUsers string `env:"ALLOWED_USERS"`

	// If set to a non-empty string the proxy will check whether the
	// requested path matches this REGEX pattern, otherwise returns
	// unauthorized.
	AllowedPathRegex string `env:"ALLOWED_PATH_REGEX" envDefault:""`

	Signing ocisigner.Config
}

func unauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte("{\"message\":\"unauthorized\"}"))
}

type Proxy struct {
	config                 *ProxyConfig
	remoteURL              *url.URL
	allowedURLRegexPattern *regexp.Regexp
	signer                 *ocisigner.RequestSigner
	authenticator          Authenticator
	reverseProxy           *httputil.ReverseProxy
}

// isValidTargetEndpoint checks if the request has a valid target depending
// on the configuration of the proxy
func (p *Proxy) isValidTargetEndpoint(r *http.Request) bool {
	return p.allowedURLRegexPattern.MatchString(r.URL.Path)
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	r.Header.Set(RequestIDHeader, requestID)
	logger := log.WithField("request-id", requestID)

	if p.config.AllowedPathRegex != "" && !p.isValidTargetEndpoint(r) {
		unauthorized(w)
		return
	}

	if p.config.InputValidation {
		if err := p.authenticator.AuthenticateRequest(r); err != nil {
			unauthorized(w)
			logger.WithField("error", err).Warning("AuthenticateRequest rejected the request")
			return
		}
	}

	// Rewrite the URL to the outbound target before signing, so that the
	// signed host and (request-target) match what is actually sent.
	outboundURL := *r.URL
	outboundURL.Scheme = p.remoteURL.Scheme
	outboundURL.Host = p.remoteURL.Host
	r.URL = &outboundURL
	r.Host = p.remoteURL.Host

	if err := p.signer.SignRequest(r); err != nil {
		http.Error(w, "could not sign request", http.StatusInternalServerError)
		logger.WithField("error", err).Error("SignRequest failed")
		return
	}

	p.reverseProxy.ServeHTTP(w, r)
}

func NewProxy(pc *ProxyConfig) (*Proxy, error) {
	if pc.RemoteAddress == "" {
		return nil, errors.New("missing remote address")
	}

	remoteURL, err := url.Parse(pc.RemoteAddress)
	if err != nil {
		return nil, err
	}

	proxy := &Proxy{
		config:    pc,
		remoteURL: remoteURL,
		signer:    ocisigner.NewRequestSignerFromConfig(&pc.Signing),
	}

	if pc.InputValidation {
		authenticator, err := NewBasicAuthenticatorFromConfigString(pc.AllowedUsers)
		if err != nil {
			return nil, err
		}
		proxy.authenticator = authenticator
	}

	if pc.AllowedPathRegex != "" {
		proxy.allowedURLRegexPattern = regexp.MustCompile(pc.AllowedPathRegex)
	}

	proxy.reverseProxy = httputil.NewSingleHostReverseProxy(remoteURL)

	return proxy, nil
}
