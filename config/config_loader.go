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

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads configuration from the environment. If ENV_FILE_PATH is set,
// that file is loaded into the environment first.
func Load() (*Config, error) {
	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFilePath, err)
		}
	}

	cfg := &Config{}
	r := &configReader{}

	cfg.LogLevel = r.readOptionalString("LOG_LEVEL", "INFO")
	cfg.AuthToken = r.readOptionalString("YDB_AUTH_TOKEN", "")

	if cfg.AuthToken == "" {
		// IAM mode: the service-account identity is required
		cfg.IAM = IAMConfig{
			ServiceAccountID: r.readRequiredString("YDB_SA_ID"),
			KeyID:            r.readRequiredString("YDB_SA_KEY_ID"),
			PrivateKeyFile:   r.readRequiredString("YDB_SA_PRIVATE_KEY_FILE"),
			Endpoint:         r.readOptionalString("YDB_IAM_ENDPOINT", "https://iam.api.cloud.yandex.net/iam/v1/tokens"),
			CAFile:           r.readOptionalString("YDB_IAM_CA_FILE", ""),
			AssertionTTL:     r.readOptionalDuration("YDB_IAM_ASSERTION_TTL", time.Hour),
			RefreshInterval:  r.readOptionalDuration("YDB_IAM_REFRESH_INTERVAL", 2*time.Minute),
			RequestTimeout:   r.readOptionalDuration("YDB_IAM_REQUEST_TIMEOUT", 10*time.Second),
		}
	}

	if len(r.missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(r.missing, ", "))
	}
	if len(r.invalid) > 0 {
		return nil, fmt.Errorf("invalid environment variables: %s", strings.Join(r.invalid, ", "))
	}
	return cfg, nil
}

// configReader reads typed environment values, collecting missing and
// malformed keys so Load can report them all at once.
type configReader struct {
	missing []string
	invalid []string
}

func (r *configReader) readRequiredString(key string) string {
	value := os.Getenv(key)
	if value == "" {
		r.missing = append(r.missing, key)
	}
	return value
}

func (r *configReader) readOptionalString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (r *configReader) readOptionalDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.invalid = append(r.invalid, key)
		return defaultValue
	}
	return parsed
}
