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

// ydbauth is a debug tool: it builds the configured credential strategy,
// acquires one auth ticket and prints it.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/wso2/ydb-client-auth/clients/iamsvc"
	"github.com/wso2/ydb-client-auth/clients/requests"
	"github.com/wso2/ydb-client-auth/config"
	"github.com/wso2/ydb-client-auth/credentials"
)

func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default to INFO
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

func main() {
	retryFlag := flag.Bool("retry", false, "retry transient token exchange failures")
	timeoutFlag := flag.Duration("timeout", 30*time.Second, "overall deadline for acquiring the ticket")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogger(cfg)

	creds, err := buildCredentials(cfg, *retryFlag)
	if err != nil {
		slog.Error("failed to build credentials", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	metadata, err := creds.GetRequestMetadata(ctx)
	if err != nil {
		slog.Error("failed to acquire auth ticket", "error", err)
		os.Exit(1)
	}

	fmt.Println(metadata[credentials.AuthTicketHeader])
}

func buildCredentials(cfg *config.Config, retry bool) (credentials.Credentials, error) {
	if cfg.UseStaticToken() {
		return credentials.NewStaticCredentials(cfg.AuthToken), nil
	}

	privateKey, err := os.ReadFile(cfg.IAM.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	var tlsConfig *tls.Config
	if cfg.IAM.CAFile != "" {
		caPEM, err := os.ReadFile(cfg.IAM.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.IAM.CAFile)
		}
		tlsConfig = &tls.Config{RootCAs: pool}
	}

	iamConfig := credentials.IAMConfig{
		ServiceAccountID: cfg.IAM.ServiceAccountID,
		KeyID:            cfg.IAM.KeyID,
		PrivateKey:       privateKey,
		Endpoint:         cfg.IAM.Endpoint,
		TLS:              tlsConfig,
		AssertionTTL:     cfg.IAM.AssertionTTL,
		RefreshInterval:  cfg.IAM.RefreshInterval,
		RequestTimeout:   cfg.IAM.RequestTimeout,
	}

	// Retry policy lives with the caller, never inside the refresh path.
	if retry {
		httpClient := &http.Client{}
		if tlsConfig != nil {
			httpClient.Transport = &http.Transport{TLSClientConfig: tlsConfig}
		}
		iamConfig.TokenService = iamsvc.NewTokenService(iamsvc.Config{
			Endpoint:   cfg.IAM.Endpoint,
			HttpClient: requests.NewRetryableHTTPClient(httpClient),
		})
	}

	return credentials.NewIAMCredentials(iamConfig)
}
