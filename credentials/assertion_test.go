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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSigningKey generates an RSA key pair and returns it with its PKCS#1
// PEM encoding.
func testSigningKey(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	return privateKey, keyPEM
}

func parseAssertion(t *testing.T, signedAssertion string, publicKey *rsa.PublicKey) *jwt.Token {
	t.Helper()

	token, err := jwt.ParseWithClaims(signedAssertion, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) { return publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodPS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	require.NoError(t, err)
	require.True(t, token.Valid)
	return token
}

func TestAssertionSigner(t *testing.T) {
	privateKey, keyPEM := testSigningKey(t)

	t.Run("Sign a PS256 assertion with the expected claims", func(t *testing.T) {
		signer, err := newAssertionSigner("sa-id", "key-id", keyPEM, time.Hour)
		require.NoError(t, err)

		now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		signedAssertion, err := signer.Sign(now)
		require.NoError(t, err)

		token := parseAssertion(t, signedAssertion, &privateKey.PublicKey)
		claims := token.Claims.(*jwt.RegisteredClaims)

		assert.Equal(t, "sa-id", claims.Issuer)
		assert.Equal(t, jwt.ClaimStrings{TokenExchangeAudience}, claims.Audience)
		assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
		assert.Equal(t, "key-id", token.Header["kid"])
	})

	t.Run("Assertions a second apart differ only in the time claims", func(t *testing.T) {
		signer, err := newAssertionSigner("sa-id", "key-id", keyPEM, time.Hour)
		require.NoError(t, err)

		now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

		first, err := signer.Sign(now)
		require.NoError(t, err)
		second, err := signer.Sign(now.Add(time.Second))
		require.NoError(t, err)

		firstClaims := parseAssertion(t, first, &privateKey.PublicKey).Claims.(*jwt.RegisteredClaims)
		secondToken := parseAssertion(t, second, &privateKey.PublicKey)
		secondClaims := secondToken.Claims.(*jwt.RegisteredClaims)

		assert.Equal(t, firstClaims.Issuer, secondClaims.Issuer)
		assert.Equal(t, firstClaims.Audience, secondClaims.Audience)
		assert.Equal(t, "key-id", secondToken.Header["kid"])
		assert.Equal(t, int64(1), secondClaims.IssuedAt.Unix()-firstClaims.IssuedAt.Unix())
		assert.Equal(t, int64(1), secondClaims.ExpiresAt.Unix()-firstClaims.ExpiresAt.Unix())
	})

	t.Run("Accept a PKCS#8 encoded key", func(t *testing.T) {
		pkcs8, err := x509.MarshalPKCS8PrivateKey(privateKey)
		require.NoError(t, err)
		pkcs8PEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})

		_, err = newAssertionSigner("sa-id", "key-id", pkcs8PEM, time.Hour)
		require.NoError(t, err)
	})

	t.Run("Reject malformed PEM", func(t *testing.T) {
		_, err := newAssertionSigner("sa-id", "key-id", []byte("not a key"), time.Hour)
		assert.ErrorContains(t, err, "failed to decode private key PEM")
	})

	t.Run("Reject a non-RSA key", func(t *testing.T) {
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		pkcs8, err := x509.MarshalPKCS8PrivateKey(ecKey)
		require.NoError(t, err)
		ecPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})

		_, err = newAssertionSigner("sa-id", "key-id", ecPEM, time.Hour)
		assert.ErrorContains(t, err, "private key is not RSA")
	})
}
