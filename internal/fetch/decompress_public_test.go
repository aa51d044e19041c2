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
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/edgelog/internal/fetch"
)

type DecompressPublicTestSuite struct {
	suite.Suite
}

func (suite *DecompressPublicTestSuite) TestDecompress() {
	payload := []byte("2026-03-01\t10:00:00\tIAD89-C1\n")

	tests := []struct {
		name         string
		input        func() []byte
		validateFunc func(out []byte, err error)
	}{
		{
			name: "when data is gzip",
			input: func() []byte {
				var buf bytes.Buffer
				zw := gzip.NewWriter(&buf)
				_, _ = zw.Write(payload)
				_ = zw.Close()
				return buf.Bytes()
			},
			validateFunc: func(out []byte, err error) {
				suite.NoError(err)
				suite.Equal(payload, out)
			},
		},
		{
			name: "when data is zstd",
			input: func() []byte {
				enc, err := zstd.NewWriter(nil)
				suite.Require().NoError(err)
				defer func() { _ = enc.Close() }()
				return enc.EncodeAll(payload, nil)
			},
			validateFunc: func(out []byte, err error) {
				suite.NoError(err)
				suite.Equal(payload, out)
			},
		},
		{
			name:  "when data is plain text returns it unchanged",
			input: func() []byte { return payload },
			validateFunc: func(out []byte, err error) {
				suite.NoError(err)
				suite.Equal(payload, out)
			},
		},
		{
			name:  "when gzip data is truncated returns error",
			input: func() []byte { return []byte{0x1f, 0x8b, 0x08} },
			validateFunc: func(out []byte, err error) {
				suite.Nil(out)
				suite.Error(err)
				suite.Contains(err.Error(), "gzip")
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			out, err := fetch.Decompress(tc.input())
			tc.validateFunc(out, err)
		})
	}
}

func TestDecompressPublicTestSuite(t *testing.T) {
	suite.Run(t, new(DecompressPublicTestSuite))
}
