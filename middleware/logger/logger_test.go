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

package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogger(t *testing.T) {
	t.Run("Return the attached logger", func(t *testing.T) {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := WithLogger(context.Background(), log)

		assert.Same(t, log, GetLogger(ctx))
	})

	t.Run("Fall back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), GetLogger(context.Background()))
	})
}
