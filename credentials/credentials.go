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

// Package credentials supplies per-call authentication metadata for YDB
// RPC connections.
//
// A Credentials implementation produces the x-ydb-auth-ticket metadata
// entry attached to every outbound call. Two implementations are provided:
// NewStaticCredentials wraps a fixed token, NewIAMCredentials maintains a
// short-lived IAM token obtained through a signed-assertion exchange and
// refreshes it transparently when stale.
//
// Credentials matches the google.golang.org/grpc/credentials
// PerRPCCredentials contract, so either implementation can be passed
// directly to grpc.WithPerRPCCredentials when dialing.
package credentials

import "context"

// AuthTicketHeader is the metadata key the YDB endpoint expects the
// bearer token under.
const AuthTicketHeader = "x-ydb-auth-ticket"

// Credentials provides authentication metadata for a single outbound call.
type Credentials interface {
	// GetRequestMetadata returns the metadata to attach to the call.
	// Implementations may block on network I/O to obtain a valid token.
	GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error)

	// RequireTransportSecurity reports whether the credentials may only
	// be transmitted over a secured connection.
	RequireTransportSecurity() bool
}
