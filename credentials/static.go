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

	grpccredentials "google.golang.org/grpc/credentials"
)

type staticCredentials struct {
	token string
}

// Compile-time check that the strategy satisfies the gRPC per-RPC contract
var _ grpccredentials.PerRPCCredentials = (*staticCredentials)(nil)

// NewStaticCredentials returns Credentials that attach the given fixed
// token to every call. No network I/O is performed and calls never fail.
func NewStaticCredentials(token string) Credentials {
	return &staticCredentials{token: token}
}

// GetRequestMetadata returns the fixed token under the auth ticket header.
func (c *staticCredentials) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{AuthTicketHeader: c.token}, nil
}

// RequireTransportSecurity returns false; static tokens may be used
// against insecure local endpoints.
func (c *staticCredentials) RequireTransportSecurity() bool {
	return false
}
