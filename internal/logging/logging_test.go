/*
Copyright The Launchpad Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	debug := false
	buf := &bytes.Buffer{}
	logger := NewLogger(buf, func() bool { return debug })

	logger.Debug("hidden message")
	logger.Info("visible message", "artifact", "com.example:lib:1.0")
	assert.NotContains(t, buf.String(), "hidden message")
	assert.Contains(t, buf.String(), `msg="visible message" artifact=com.example:lib:1.0`)
	assert.NotContains(t, buf.String(), "time=")

	// The debug setting is consulted at log time.
	debug = true
	logger.With("pass", "p1").Debug("now shown")
	assert.Contains(t, buf.String(), `level=DEBUG msg="now shown" pass=p1`)
}

func TestDebugCheckHandlerWithoutFunc(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf, nil)
	logger.Debug("never")
	assert.Empty(t, buf.String())
}

func TestLogHolder_Logger(t *testing.T) {
	t.Run("should return new logger with a then set handler", func(t *testing.T) {
		holder := &LogHolder{}
		buf := &bytes.Buffer{}
		handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

		holder.SetLogger(handler)
		logger := holder.Logger()

		assert.NotNil(t, logger)

		logger.Info("test message")
		assert.Contains(t, buf.String(), "test message")
	})

	t.Run("should return discard logger when no handler is set", func(t *testing.T) {
		holder := &LogHolder{}
		logger := holder.Logger()

		assert.Equal(t, slog.Handler(slog.DiscardHandler), logger.Handler())
	})
}

func TestLogHolder_SetLogger(t *testing.T) {
	t.Run("sets discard logger with nil handler", func(t *testing.T) {
		holder := &LogHolder{}

		holder.SetLogger(nil)
		logger := holder.Logger()

		assert.NotNil(t, logger)
		assert.Equal(t, slog.Handler(slog.DiscardHandler), logger.Handler())
	})

	t.Run("can replace existing logger", func(t *testing.T) {
		holder := &LogHolder{}

		handler1 := slog.NewTextHandler(&bytes.Buffer{}, nil)
		holder.SetLogger(handler1)
		assert.Equal(t, handler1, holder.Logger().Handler())

		handler2 := slog.NewTextHandler(&bytes.Buffer{}, nil)
		holder.SetLogger(handler2)
		assert.Equal(t, handler2, holder.Logger().Handler())
	})
}
