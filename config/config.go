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

package config

import "time"

// Config holds all configuration for the credential provider
type Config struct {
	LogLevel string

	// AuthToken selects the static strategy when set; the IAM section is
	// ignored in that case.
	AuthToken string `json:"-"`

	// IAM configures the refreshing token strategy.
	IAM IAMConfig
}

// IAMConfig holds the service-account identity and refresh policy for
// the IAM strategy
type IAMConfig struct {
	ServiceAccountID string
	KeyID            string
	// PrivateKeyFile is the path to the PEM-encoded RSA signing key
	PrivateKeyFile string
	// Endpoint is the token exchange URL
	Endpoint string
	// CAFile is an optional PEM bundle trusted for the exchange connection
	CAFile string

	AssertionTTL    time.Duration
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
}

// UseStaticToken reports whether the static strategy is selected.
func (c *Config) UseStaticToken() bool {
	return c.AuthToken != ""
}
