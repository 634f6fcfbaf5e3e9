package auth

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// TokenType is the authorization scheme the storage API expects.
const TokenType = "ApiKey"

// NewClient returns an HTTP client that sends "Authorization: ApiKey <key>" on
// every request. headerTimeout bounds the wait for response headers only, so
// long downloads are not cut off; zero disables it.
func NewClient(apiKey string, headerTimeout time.Duration) (*http.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport type %T", http.DefaultTransport)
	}

	transport := base.Clone()
	transport.ResponseHeaderTimeout = headerTimeout

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: apiKey,
				TokenType:   TokenType,
			}),
			Base: transport,
		},
	}, nil
}
