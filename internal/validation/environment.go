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

package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// EnvironmentLister returns the configured environment names.
type EnvironmentLister func() []string

var (
	envMu             sync.RWMutex
	environmentLister EnvironmentLister
)

func init() {
	// Cannot error: tag is non-empty and function is non-nil.
	_ = instance.RegisterValidation("valid_env", validEnv)
}

// RegisterEnvironmentLister sets the source of configured environment names
// used by the valid_env tag. Call it once the configuration is loaded, or in
// test setup to inject fixed names.
func RegisterEnvironmentLister(
	lister EnvironmentLister,
) {
	envMu.Lock()
	defer envMu.Unlock()
	environmentLister = lister
}

// validEnv checks that the field names a configured environment.
func validEnv(fl validator.FieldLevel) bool {
	envMu.RLock()
	lister := environmentLister
	envMu.RUnlock()

	if lister == nil {
		return false
	}

	env := fl.Field().String()
	for _, name := range lister() {
		if name == env {
			return true
		}
	}

	return false
}
