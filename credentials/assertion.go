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
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenExchangeAudience is the audience claim of every signed assertion,
// fixed to the IAM token exchange endpoint.
const TokenExchangeAudience = "https://iam.api.cloud.yandex.net/iam/v1/tokens"

// assertionSigner builds the short-lived PS256-signed assertions exchanged
// for IAM tokens. The identity material is immutable after construction;
// each Sign call produces a fresh assertion which is never cached.
type assertionSigner struct {
	issuer     string
	keyID      string
	privateKey *rsa.PrivateKey
	ttl        time.Duration
}

func newAssertionSigner(issuer, keyID string, privateKeyPEM []byte, ttl time.Duration) (*assertionSigner, error) {
	privateKey, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}
	return &assertionSigner{
		issuer:     issuer,
		keyID:      keyID,
		privateKey: privateKey,
		ttl:        ttl,
	}, nil
}

// Sign returns a signed assertion valid from now until now plus the
// configured TTL.
func (s *assertionSigner) Sign(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Audience:  jwt.ClaimStrings{TokenExchangeAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodPS256, claims)
	token.Header["kid"] = s.keyID

	signedAssertion, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signedAssertion, nil
}

// parsePrivateKey decodes a PEM-encoded RSA private key in PKCS#1 or
// PKCS#8 format.
func parsePrivateKey(privateKeyPEM []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(privateKeyPEM)
	if block == nil {
		return nil, fmt.Errorf("failed to decode private key PEM")
	}

	// Try PKCS#1 format first
	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return privateKey, nil
	}

	// Try PKCS#8 format
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return privateKey, nil
}
