package errorhandler

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/777genius/sinkswitch/internal/logging"
)

func withExit(t *testing.T) *int {
	t.Helper()
	code := -1
	old := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		exit = old
		Init(true, false, true)
	})
	return &code
}

func TestHandleCriticalErrorLogs(t *testing.T) {
	code := withExit(t)
	var buf bytes.Buffer
	logging.NewWriterLogger(&buf, logging.LevelDebug)
	defer logging.Close()

	Init(false, false, true)
	HandleCriticalError(errors.New("boom"), "Failed to switch")

	assert.Contains(t, buf.String(), "Failed to switch: boom")
	assert.Equal(t, -1, *code)
}

func TestHandleCriticalErrorExits(t *testing.T) {
	code := withExit(t)
	Init(false, true, true)

	HandleCriticalError(errors.New("boom"), "ctx")
	assert.Equal(t, 1, *code)
}

func TestHandleCriticalErrorNil(t *testing.T) {
	code := withExit(t)
	Init(false, true, true)

	HandleCriticalError(nil, "ctx")
	assert.Equal(t, -1, *code)
}

func TestHandlePanicRecovers(t *testing.T) {
	code := withExit(t)
	Init(false, false, true)

	assert.NotPanics(t, func() {
		defer HandlePanic()
		panic("kaboom")
	})
	assert.Equal(t, 2, *code)
}
