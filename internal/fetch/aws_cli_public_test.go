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

package fetch_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/edgelog/internal/exec"
	execmocks "github.com/retr0h/edgelog/internal/exec/mocks"
	"github.com/retr0h/edgelog/internal/fetch"
)

type AWSCLIPublicTestSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	mockExec *execmocks.MockManager
	logger   *slog.Logger
	ctx      context.Context
}

func (suite *AWSCLIPublicTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockExec = execmocks.NewMockManager(suite.ctrl)
	suite.logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	suite.ctx = context.Background()
}

func (suite *AWSCLIPublicTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *AWSCLIPublicTestSuite) TestList() {
	tests := []struct {
		name         string
		cfg          fetch.AWSCLIConfig
		setupMock    func()
		validateFunc func(keys []string, err error)
	}{
		{
			name: "when listing succeeds parses keys",
			cfg:  fetch.AWSCLIConfig{Region: "us-east-1", Timeout: 60},
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(
						gomock.Any(),
						"aws",
						[]string{
							"s3", "ls", "s3://edge-logs/cloudfront/", "--recursive",
							"--region", "us-east-1",
						},
						gomock.Nil(),
						60,
					).
					Return(&exec.CmdResult{
						Stdout: "2026-03-01 10:31:02      12345 cloudfront/E2.2026-03-01-10.aaaa.gz\n" +
							"2026-03-01 11:31:02       9876 cloudfront/E2.2026-03-01-11.bbbb.gz\n" +
							"\n",
					}, nil)
			},
			validateFunc: func(keys []string, err error) {
				suite.NoError(err)
				suite.Equal([]string{
					"cloudfront/E2.2026-03-01-10.aaaa.gz",
					"cloudfront/E2.2026-03-01-11.bbbb.gz",
				}, keys)
			},
		},
		{
			name: "when key contains runs of spaces keeps them intact",
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(gomock.Any(), "aws", gomock.Any(), gomock.Nil(), 0).
					Return(&exec.CmdResult{
						Stdout: "2026-03-01 10:31:02      12345 cloudfront/old  logs/E2.2026-03-01-10.aaaa.gz\r\n" +
							"2026-03-01 10:32:02      12345\n",
					}, nil)
			},
			validateFunc: func(keys []string, err error) {
				suite.NoError(err)
				suite.Equal([]string{
					"cloudfront/old  logs/E2.2026-03-01-10.aaaa.gz",
				}, keys)
			},
		},
		{
			name: "when profile and endpoint are set passes them through",
			cfg: fetch.AWSCLIConfig{
				Profile:     "logs-readonly",
				EndpointURL: "http://localhost:9000",
			},
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(
						gomock.Any(),
						"aws",
						[]string{
							"s3", "ls", "s3://edge-logs/cloudfront/", "--recursive",
							"--profile", "logs-readonly",
							"--endpoint-url", "http://localhost:9000",
						},
						gomock.Nil(),
						0,
					).
					Return(&exec.CmdResult{}, nil)
			},
			validateFunc: func(keys []string, err error) {
				suite.NoError(err)
				suite.Empty(keys)
			},
		},
		{
			name: "when aws exits non-zero returns stderr",
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(gomock.Any(), "aws", gomock.Any(), gomock.Nil(), 0).
					Return(&exec.CmdResult{
						ExitCode: 255,
						Stderr:   "An error occurred (AccessDenied)\n",
					}, nil)
			},
			validateFunc: func(keys []string, err error) {
				suite.Nil(keys)
				suite.Error(err)
				suite.Contains(err.Error(), "code 255")
				suite.Contains(err.Error(), "AccessDenied")
			},
		},
		{
			name: "when prefix matches nothing returns no keys",
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(gomock.Any(), "aws", gomock.Any(), gomock.Nil(), 0).
					Return(&exec.CmdResult{ExitCode: 1}, nil)
			},
			validateFunc: func(keys []string, err error) {
				suite.NoError(err)
				suite.Empty(keys)
			},
		},
		{
			name: "when command cannot run returns error",
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(gomock.Any(), "aws", gomock.Any(), gomock.Nil(), 0).
					Return(nil, fmt.Errorf("failed to execute command: not found"))
			},
			validateFunc: func(keys []string, err error) {
				suite.Nil(keys)
				suite.Error(err)
				suite.Contains(err.Error(), "listing s3://edge-logs/cloudfront/")
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			tc.setupMock()

			store := fetch.NewAWSCLI(suite.logger, suite.mockExec, tc.cfg)
			keys, err := store.List(suite.ctx, "edge-logs", "cloudfront/")

			tc.validateFunc(keys, err)
		})
	}
}

func (suite *AWSCLIPublicTestSuite) TestGet() {
	tests := []struct {
		name         string
		setupMock    func()
		validateFunc func(data []byte, err error)
	}{
		{
			name: "when download succeeds returns stdout bytes",
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(
						gomock.Any(),
						"aws",
						[]string{
							"s3", "cp", "s3://edge-logs/cloudfront/E2.2026-03-01-10.aaaa.gz", "-",
							"--only-show-errors",
						},
						gomock.Nil(),
						0,
					).
					Return(&exec.CmdResult{Stdout: "\x1f\x8bpayload"}, nil)
			},
			validateFunc: func(data []byte, err error) {
				suite.NoError(err)
				suite.Equal([]byte("\x1f\x8bpayload"), data)
			},
		},
		{
			name: "when download fails returns error",
			setupMock: func() {
				suite.mockExec.EXPECT().
					RunCmdFull(gomock.Any(), "aws", gomock.Any(), gomock.Nil(), 0).
					Return(&exec.CmdResult{ExitCode: 1, Stderr: "NoSuchKey"}, nil)
			},
			validateFunc: func(data []byte, err error) {
				suite.Nil(data)
				suite.Error(err)
				suite.Contains(err.Error(), "downloading")
				suite.Contains(err.Error(), "NoSuchKey")
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			tc.setupMock()

			store := fetch.NewAWSCLI(suite.logger, suite.mockExec, fetch.AWSCLIConfig{})
			data, err := store.Get(suite.ctx, "edge-logs", "cloudfront/E2.2026-03-01-10.aaaa.gz")

			tc.validateFunc(data, err)
		})
	}
}

func TestAWSCLIPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AWSCLIPublicTestSuite))
}
