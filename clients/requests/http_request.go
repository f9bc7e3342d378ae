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
	"encoding/json"
	"fmt"
	"net/http"
)

// HttpRequest describes an outbound HTTP request. Name identifies the
// request in logs.
type HttpRequest struct {
	Name   string
	URL    string
	Method string

	headers map[string]string
	body    []byte
	bodyErr error
}

// SetHeader sets a request header, replacing any previous value.
func (r *HttpRequest) SetHeader(key, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
}

// SetJSONBody marshals v as the request body and sets the JSON content
// type. A marshal failure is reported by SendRequest.
func (r *HttpRequest) SetJSONBody(v any) {
	body, err := json.Marshal(v)
	if err != nil {
		r.bodyErr = fmt.Errorf("failed to marshal request body: %w", err)
		return
	}
	r.body = body
	r.SetHeader("Content-Type", "application/json")
}

func (r *HttpRequest) buildHttpRequest(ctx context.Context) (*http.Request, error) {
	if r.bodyErr != nil {
		return nil, r.bodyErr
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(r.body))
	if err != nil {
		return nil, err
	}
	for key, value := range r.headers {
		httpReq.Header.Set(key, value)
	}
	return httpReq, nil
}
