// This file is part of Thumbcore.
//
// Thumbcore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Thumbcore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Thumbcore.  If not, see <https://www.gnu.org/licenses/>.

package logger_test

import (
	"strings"
	"testing"

	"github.com/markspec/thumbcore/logger"
)

func TestLogger(t *testing.T) {
	w := &strings.Builder{}

	logger.Clear()
	logger.Write(w)
	if w.String() != "" {
		t.Errorf("expected empty log, got %q", w.String())
	}

	logger.Log(logger.Allow, "test", "this is a test")
	logger.Write(w)
	if w.String() != "test: this is a test\n" {
		t.Errorf("unexpected log contents: %q", w.String())
	}

	w.Reset()
	logger.Log(logger.Allow, "test2", "this is another test")
	logger.Write(w)
	if w.String() != "test: this is a test\ntest2: this is another test\n" {
		t.Errorf("unexpected log contents: %q", w.String())
	}

	w.Reset()
	logger.Tail(w, 1)
	if w.String() != "test2: this is another test\n" {
		t.Errorf("unexpected tail: %q", w.String())
	}

	w.Reset()
	logger.Tail(w, 0)
	if w.String() != "" {
		t.Errorf("expected empty tail, got %q", w.String())
	}
}

type prohibitLogging struct {
	allowed bool
}

func (p prohibitLogging) AllowLogging() bool {
	return p.allowed
}

func TestPermissions(t *testing.T) {
	w := &strings.Builder{}

	logger.Clear()
	logger.Log(prohibitLogging{allowed: false}, "tag", "detail")
	logger.Write(w)
	if w.String() != "" {
		t.Errorf("expected log entry to be suppressed, got %q", w.String())
	}

	logger.Log(prohibitLogging{allowed: true}, "tag", "detail")
	logger.Write(w)
	if w.String() != "tag: detail\n" {
		t.Errorf("expected log entry to be recorded, got %q", w.String())
	}
}

func TestRepeatedEntriesCollapse(t *testing.T) {
	w := &strings.Builder{}

	logger.Clear()
	logger.Log(logger.Allow, "tag", "detail")
	logger.Log(logger.Allow, "tag", "detail")
	logger.Write(w)
	if w.String() != "tag: detail (repeat x2)\n" {
		t.Errorf("expected repeat collapse, got %q", w.String())
	}
}
