// Package logging tests for the structured logging wrapper.
package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, logrus.DebugLevel)

	Debug("fetch start", Fields{"url": "https://example.com"})
	Info("link created")
	Warn("extraction degraded")
	Error("fetch failed", errors.New("connection refused"), Fields{"url": "https://example.com"})

	out := buf.String()
	for _, want := range []string{
		"fetch start",
		"url=",
		"link created",
		"extraction degraded",
		"fetch failed",
		"connection refused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestInitOnce(t *testing.T) {
	var first bytes.Buffer
	Init(&first, logrus.DebugLevel)

	var second bytes.Buffer
	Init(&second, logrus.DebugLevel) // no-op

	Info("after second init")
	if second.Len() != 0 {
		t.Error("second Init should not replace the configured output")
	}
}
