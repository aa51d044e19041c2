// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LogTestSuite struct {
	suite.Suite

	exitCode     int
	exitCalls    int
	originalExit func(int)
}

func (suite *LogTestSuite) SetupTest() {
	suite.exitCode = 0
	suite.exitCalls = 0
	suite.originalExit = osExit
	osExit = func(code int) {
		suite.exitCode = code
		suite.exitCalls++
	}
}

func (suite *LogTestSuite) TearDownTest() {
	osExit = suite.originalExit
}

func TestLogTestSuite(t *testing.T) {
	suite.Run(t, new(LogTestSuite))
}

func (suite *LogTestSuite) TestLogFatal() {
	_, tzErr := LoadLocation("Mars/Olympus_Mons")
	suite.Require().Error(tzErr)

	tests := []struct {
		name     string
		message  string
		err      error
		kvPairs  []any
		wantKeys map[string]string
		notKeys  []string
	}{
		{
			name:    "when timezone cannot be loaded logs the zone",
			message: "invalid timezone",
			err:     tzErr,
			wantKeys: map[string]string{
				"msg":   "invalid timezone",
				"error": tzErr.Error(),
			},
		},
		{
			name:    "when config cannot be read logs the config file",
			message: "failed to read config",
			err:     fmt.Errorf("open /etc/edgelog/edgelog.yaml: permission denied"),
			kvPairs: []any{"configFile", "/etc/edgelog/edgelog.yaml"},
			wantKeys: map[string]string{
				"msg":        "failed to read config",
				"error":      "open /etc/edgelog/edgelog.yaml: permission denied",
				"configFile": "/etc/edgelog/edgelog.yaml",
			},
		},
		{
			name:    "when query fails logs the environment",
			message: "query failed",
			err:     fmt.Errorf("fetching prod: listing objects: access denied"),
			kvPairs: []any{"env", "prod"},
			wantKeys: map[string]string{
				"msg":   "query failed",
				"error": "fetching prod: listing objects: access denied",
				"env":   "prod",
			},
		},
		{
			name:     "when error is nil omits the error key",
			message:  "invalid environment",
			kvPairs:  []any{"env", "qa"},
			wantKeys: map[string]string{"msg": "invalid environment", "env": "qa"},
			notKeys:  []string{"error"},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			LogFatal(logger, tc.message, tc.err, tc.kvPairs...)

			suite.Equal(1, suite.exitCalls)
			suite.Equal(1, suite.exitCode)

			var entry map[string]any
			suite.Require().NoError(json.Unmarshal(buf.Bytes(), &entry))
			suite.Equal("ERROR", entry["level"])
			for k, v := range tc.wantKeys {
				suite.Equal(v, entry[k], k)
			}
			for _, k := range tc.notKeys {
				suite.NotContains(entry, k)
			}
		})
	}
}
