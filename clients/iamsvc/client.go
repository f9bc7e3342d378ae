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

// Package iamsvc is the client for the IAM token exchange endpoint: it
// trades a signed service-account assertion for a short-lived IAM token
// (the JWT-bearer flow).
package iamsvc

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wso2/ydb-client-auth/clients/requests"
	"github.com/wso2/ydb-client-auth/middleware/logger"
)

// TokenService exchanges a signed assertion for an IAM token.
type TokenService interface {
	// ExchangeToken sends the signed assertion to the token exchange
	// endpoint and returns the issued token. The token string may be
	// empty if the endpoint responded without one; callers decide how to
	// treat that.
	ExchangeToken(ctx context.Context, signedAssertion string) (*TokenResponse, error)
}

// TokenResponse is the result of a token exchange.
type TokenResponse struct {
	// Token is the issued bearer token.
	Token string
	// ExpiresAt is the server-reported token expiry. Zero when the
	// endpoint omitted it or it could not be parsed.
	ExpiresAt time.Time
}

// Config holds the token service client configuration.
type Config struct {
	// Endpoint is the token exchange URL.
	Endpoint string
	// TLS is the transport security configuration for the exchange
	// connection. Nil means default system TLS.
	TLS *tls.Config
	// HttpClient overrides the transport. Defaults to a plain
	// non-retrying http.Client; pass a requests.RetryableHTTPClient to
	// retry transient failures.
	HttpClient requests.HttpClient
}

type tokenService struct {
	endpoint   string
	httpClient requests.HttpClient
}

// NewTokenService creates a token service client for the given endpoint.
func NewTokenService(cfg Config) TokenService {
	httpClient := cfg.HttpClient
	if httpClient == nil {
		client := &http.Client{}
		if cfg.TLS != nil {
			client.Transport = &http.Transport{TLSClientConfig: cfg.TLS}
		}
		httpClient = client
	}
	return &tokenService{
		endpoint:   cfg.Endpoint,
		httpClient: httpClient,
	}
}

type exchangeRequest struct {
	JWT string `json:"jwt"`
}

type exchangeResponse struct {
	IAMToken  string `json:"iamToken"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// ExchangeToken posts the signed assertion to the exchange endpoint.
func (s *tokenService) ExchangeToken(ctx context.Context, signedAssertion string) (*TokenResponse, error) {
	req := &requests.HttpRequest{
		Name:   "iamsvc.ExchangeToken",
		URL:    s.endpoint,
		Method: http.MethodPost,
	}
	req.SetJSONBody(exchangeRequest{JWT: signedAssertion})

	var resp exchangeResponse
	if err := requests.SendRequest(ctx, s.httpClient, req).ScanResponse(&resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("iamsvc.ExchangeToken: %w", err)
	}

	var expiresAt time.Time
	if resp.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, resp.ExpiresAt)
		if err != nil {
			logger.GetLogger(ctx).Warn("iamsvc: unparseable expiresAt in exchange response",
				slog.String("expiresAt", resp.ExpiresAt))
		} else {
			expiresAt = parsed
		}
	}

	return &TokenResponse{
		Token:     resp.IAMToken,
		ExpiresAt: expiresAt,
	}, nil
}
