// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package credentials

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	grpccredentials "google.golang.org/grpc/credentials"

	"github.com/wso2/ydb-client-auth/clients/iamsvc"
	"github.com/wso2/ydb-client-auth/middleware/logger"
)

// Default refresh policy. The refresh interval is deliberately much
// shorter than the token lifetime the endpoint reports, so a cached token
// is never close to expiry when attached to a call.
const (
	DefaultAssertionTTL    = time.Hour
	DefaultRefreshInterval = 2 * time.Minute
	DefaultRequestTimeout  = 10 * time.Second
)

// IAMConfig holds the construction inputs for the refreshing IAM
// strategy. ServiceAccountID, KeyID and PrivateKey identify the service
// account; they are immutable after construction.
type IAMConfig struct {
	// ServiceAccountID is the issuer of every signed assertion.
	ServiceAccountID string
	// KeyID identifies the signing key pair, carried in the assertion
	// kid header.
	KeyID string
	// PrivateKey is the PEM-encoded RSA private key (PKCS#1 or PKCS#8).
	PrivateKey []byte `json:"-"`

	// Endpoint is the token exchange URL. Ignored when TokenService is
	// set.
	Endpoint string
	// TLS is the transport security configuration for the exchange
	// connection.
	TLS *tls.Config

	// AssertionTTL is the signed-assertion validity window.
	// Defaults to DefaultAssertionTTL.
	AssertionTTL time.Duration
	// RefreshInterval is the staleness threshold: a cached token older
	// than this is refreshed before use. Defaults to
	// DefaultRefreshInterval.
	RefreshInterval time.Duration
	// RequestTimeout bounds a single token exchange round-trip.
	// Defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration

	// TokenService overrides the exchange client. Defaults to an HTTP
	// client for Endpoint.
	TokenService iamsvc.TokenService
}

func (cfg IAMConfig) withDefaults() IAMConfig {
	if cfg.AssertionTTL == 0 {
		cfg.AssertionTTL = DefaultAssertionTTL
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	return cfg
}

type iamCredentials struct {
	config       IAMConfig
	signer       *assertionSigner
	tokenService iamsvc.TokenService
	nowFunc      func() time.Time

	// mu guards token and issuedAt, which are only ever updated
	// together. The write lock is held across a refresh, so concurrent
	// callers that observe a stale token await the single in-flight
	// exchange instead of issuing their own.
	mu       sync.RWMutex
	token    string
	issuedAt time.Time
}

// Compile-time check that the strategy satisfies the gRPC per-RPC contract
var _ grpccredentials.PerRPCCredentials = (*iamCredentials)(nil)

// NewIAMCredentials returns Credentials backed by a cached IAM token that
// is refreshed through a signed-assertion exchange when stale.
func NewIAMCredentials(cfg IAMConfig) (Credentials, error) {
	if cfg.ServiceAccountID == "" {
		return nil, ErrMissingServiceAccountID
	}
	if cfg.KeyID == "" {
		return nil, ErrMissingKeyID
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, ErrMissingPrivateKey
	}
	if cfg.Endpoint == "" && cfg.TokenService == nil {
		return nil, ErrMissingEndpoint
	}

	cfg = cfg.withDefaults()

	signer, err := newAssertionSigner(cfg.ServiceAccountID, cfg.KeyID, cfg.PrivateKey, cfg.AssertionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assertion signer: %w", err)
	}

	tokenService := cfg.TokenService
	if tokenService == nil {
		tokenService = iamsvc.NewTokenService(iamsvc.Config{
			Endpoint: cfg.Endpoint,
			TLS:      cfg.TLS,
		})
	}

	return &iamCredentials{
		config:       cfg,
		signer:       signer,
		tokenService: tokenService,
		nowFunc:      time.Now,
	}, nil
}

// GetRequestMetadata returns metadata carrying a currently-valid IAM
// token, refreshing the cached token first if it is stale.
func (c *iamCredentials) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	// Fast path: a fresh cached token needs no exchange.
	c.mu.RLock()
	if c.freshLocked() {
		token := c.token
		c.mu.RUnlock()
		return map[string]string{AuthTicketHeader: token}, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check after acquiring the write lock: another caller may have
	// refreshed while this one was blocked.
	if c.freshLocked() {
		return map[string]string{AuthTicketHeader: c.token}, nil
	}

	token, err := c.refresh(ctx)
	if err != nil {
		// The previous (token, issuedAt) pair is left untouched; the
		// next caller attempts another refresh.
		return nil, err
	}

	c.token = token
	c.issuedAt = c.nowFunc().UTC()

	return map[string]string{AuthTicketHeader: token}, nil
}

// RequireTransportSecurity returns true: IAM tokens must not cross an
// unsecured transport.
func (c *iamCredentials) RequireTransportSecurity() bool {
	return true
}

// freshLocked reports whether the cached token can be used without a
// refresh. Must be called with at least a read lock held.
func (c *iamCredentials) freshLocked() bool {
	if c.token == "" {
		return false
	}
	return c.nowFunc().Sub(c.issuedAt) < c.config.RefreshInterval
}

// refresh performs one signed-assertion exchange bounded by the request
// timeout. It never mutates cache state; a timed-out exchange is
// cancelled and its late result, if any, is discarded with it.
func (c *iamCredentials) refresh(ctx context.Context) (string, error) {
	log := logger.GetLogger(ctx)

	now := c.nowFunc()
	signedAssertion, err := c.signer.Sign(now)
	if err != nil {
		return "", err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	resp, err := c.tokenService.ExchangeToken(exchangeCtx, signedAssertion)
	if err != nil {
		if exchangeCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			log.Warn("iam: token exchange timed out",
				slog.Duration("timeout", c.config.RequestTimeout))
			return "", fmt.Errorf("%w after %s", ErrTokenRequestTimeout, c.config.RequestTimeout)
		}
		return "", fmt.Errorf("token exchange failed: %w", err)
	}

	if resp.Token == "" {
		return "", ErrEmptyToken
	}

	log.Info("iam: refreshed token",
		slog.Time("issuedAt", now.UTC()),
		slog.Time("expiresAt", resp.ExpiresAt))

	return resp.Token, nil
}
