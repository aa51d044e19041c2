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

package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/retr0h/edgelog/internal/record"
)

// DefaultBatchSize is the number of records written between progress calls.
const DefaultBatchSize = 1000

// Run writes records to the exporter in batches, reporting progress after
// each batch. The exporter is always closed once it has been opened.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	records []record.LogRecord,
	exporter Exporter,
	batchSize int,
	onProgress ProgressFunc,
) (result *Result, err error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := exporter.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening exporter: %w", err)
	}

	defer func() {
		if closeErr := exporter.Close(ctx); closeErr != nil {
			logger.Error("closing exporter", slog.String("error", closeErr.Error()))
			if err == nil {
				err = fmt.Errorf("closing exporter: %w", closeErr)
			}
		}
	}()

	result = &Result{TotalRecords: len(records)}

	for offset := 0; offset < len(records); offset += batchSize {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("export interrupted at offset %d: %w", offset, err)
		}

		end := min(offset+batchSize, len(records))
		for _, rec := range records[offset:end] {
			if err := exporter.Write(ctx, rec); err != nil {
				return result, fmt.Errorf("writing record: %w", err)
			}
			result.ExportedRecords++
		}

		if onProgress != nil {
			onProgress(result.ExportedRecords, result.TotalRecords)
		}
	}

	logger.Debug(
		"export complete",
		slog.Int("exported", result.ExportedRecords),
		slog.Int("total", result.TotalRecords),
	)

	return result, nil
}
