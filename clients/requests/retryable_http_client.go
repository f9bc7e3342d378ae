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

package requests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"
)

// errRetry is a sentinel error used internally to signal retry attempts.
var errRetry = errors.New("retry")

// RetryableHTTPClient wraps an HttpClient with retry logic. Transient
// failures and retryable status codes are retried with exponential
// backoff; each attempt runs under its own timeout.
type RetryableHTTPClient struct {
	client HttpClient
	config RequestRetryConfig
}

// NewRetryableHTTPClient creates a new RetryableHTTPClient.
// Config is optional - defaults will be used if not provided.
func NewRetryableHTTPClient(client HttpClient, config ...RequestRetryConfig) *RetryableHTTPClient {
	if client == nil {
		client = &http.Client{}
	}
	var cfg RequestRetryConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	return &RetryableHTTPClient{
		client: client,
		config: cfg.withDefaults(),
	}
}

// Do executes the HTTP request with retry logic.
func (c *RetryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	cfg := c.config
	log := slog.Default().With(
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	// Capture body bytes for replay on retries
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if closeErr := req.Body.Close(); closeErr != nil {
			log.Warn("failed to close request body", slog.String("error", closeErr.Error()))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	for attempt := 1; attempt <= cfg.RetryAttemptsMax+1; attempt++ {
		isLastAttempt := attempt == cfg.RetryAttemptsMax+1

		// Reset body for each attempt
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := c.doAttempt(ctx, req, attempt, isLastAttempt, log)
		if !errors.Is(err, errRetry) {
			return resp, err
		}

		if !isLastAttempt {
			waitDuration := calculateBackoff(cfg.RetryWaitMin, cfg.RetryWaitMax, attempt)
			select {
			case <-time.After(waitDuration):
			case <-ctx.Done():
				return nil, fmt.Errorf("context cancelled during retry wait: %w", ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("unreachable: retry loop exited without returning a response or error")
}

func (c *RetryableHTTPClient) doAttempt(ctx context.Context, req *http.Request, attempt int, isLastAttempt bool, log *slog.Logger) (*http.Response, error) {
	cfg := c.config
	attemptCtx, cancel := context.WithTimeout(ctx, cfg.AttemptTimeout)
	defer cancel()

	resp, err := c.client.Do(req.Clone(attemptCtx))

	logAttrs := []any{
		slog.Int("attempt", attempt),
		slog.Int("maxAttempts", cfg.RetryAttemptsMax+1),
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled or timed out: %w", ctx.Err())
		}
		if attemptCtx.Err() != nil {
			if isLastAttempt {
				log.Warn("HTTP request timed out after all attempts", logAttrs...)
				return nil, fmt.Errorf("request timed out after %d attempts: %w", attempt, err)
			}
			log.Debug("HTTP request attempt timed out, retrying", logAttrs...)
			return nil, errRetry
		}
		if isLastAttempt {
			log.Warn("HTTP request failed after all attempts", append(logAttrs, slog.String("error", err.Error()))...)
			return nil, fmt.Errorf("request failed after %d attempts: %w", attempt, err)
		}
		log.Debug("HTTP request failed, retrying", append(logAttrs, slog.String("error", err.Error()))...)
		return nil, errRetry
	}

	if cfg.RetryOnStatus(resp.StatusCode) && !isLastAttempt {
		log.Debug("HTTP request returned retryable status, retrying",
			append(logAttrs, slog.Int("status", resp.StatusCode))...)
		// Drain and close body to allow connection reuse
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			log.Warn("failed to drain response body", slog.String("error", err.Error()))
		}
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close response body", slog.String("error", closeErr.Error()))
		}
		return nil, errRetry
	}

	// Buffer the body before attemptCtx is cancelled so the caller can
	// still read it.
	bodyBytes, err := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		log.Warn("failed to close response body", slog.String("error", closeErr.Error()))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	return resp, nil
}

// calculateBackoff returns an exponential backoff duration with equal
// jitter, capped by max: base/2 + random(0, base/2).
func calculateBackoff(min, max time.Duration, attempt int) time.Duration {
	base := min * time.Duration(1<<uint(attempt-1))
	if base > max {
		base = max
	}
	halfBase := base / 2
	if halfBase <= 0 {
		return base
	}
	return halfBase + time.Duration(rand.Int64N(int64(halfBase)))
}
