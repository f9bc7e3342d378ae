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
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequest(t *testing.T) {
	t.Run("Decode the response body on the expected status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"value": "ok"}`))
		}))
		defer server.Close()

		req := &HttpRequest{Name: "test.get", URL: server.URL, Method: http.MethodGet}

		var body struct {
			Value string `json:"value"`
		}
		err := SendRequest(context.Background(), server.Client(), req).ScanResponse(&body, http.StatusOK)
		require.NoError(t, err)
		assert.Equal(t, "ok", body.Value)
	})

	t.Run("Send a JSON body with the content type set", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		req := &HttpRequest{Name: "test.post", URL: server.URL, Method: http.MethodPost}
		req.SetJSONBody(map[string]string{"key": "value"})

		var body struct{}
		err := SendRequest(context.Background(), server.Client(), req).ScanResponse(&body, http.StatusOK)
		require.NoError(t, err)
	})

	t.Run("Return an HttpError on a status mismatch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadRequest)
		}))
		defer server.Close()

		req := &HttpRequest{Name: "test.get", URL: server.URL, Method: http.MethodGet}

		var body struct{}
		err := SendRequest(context.Background(), server.Client(), req).ScanResponse(&body, http.StatusOK)
		require.Error(t, err)

		var httpErr *HttpError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
		assert.Contains(t, httpErr.Error(), "nope")
	})

	t.Run("Reject a non-pointer decode target", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		req := &HttpRequest{Name: "test.get", URL: server.URL, Method: http.MethodGet}

		var body struct{}
		err := SendRequest(context.Background(), server.Client(), req).ScanResponse(body, http.StatusOK)
		assert.ErrorContains(t, err, "non-nil pointer expected")
	})

	t.Run("Report an invalid response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		req := &HttpRequest{Name: "test.get", URL: server.URL, Method: http.MethodGet}

		var body struct{}
		err := SendRequest(context.Background(), server.Client(), req).ScanResponse(&body, http.StatusOK)
		assert.ErrorContains(t, err, "failed to decode response body")
	})

	t.Run("Report a body that cannot be marshalled", func(t *testing.T) {
		req := &HttpRequest{Name: "test.post", URL: "http://localhost", Method: http.MethodPost}
		req.SetJSONBody(make(chan int))

		var body struct{}
		err := SendRequest(context.Background(), http.DefaultClient, req).ScanResponse(&body, http.StatusOK)
		assert.ErrorContains(t, err, "failed to marshal request body")
	})
}
