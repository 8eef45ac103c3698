package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerSharesSessionID(t *testing.T) {
	a, _ := NewLogger("pipeline")
	b, _ := NewLogger("store")
	defer a.Close()
	defer b.Close()

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEmpty(t, a.SessionID())
	assert.Equal(t, a.SessionID(), b.SessionID(), "components in one process share a session")
}

func TestLoggerDoesNotPanic(t *testing.T) {
	l, _ := NewLogger("test")
	defer l.Close()

	l.Debugf("debug %d", 1)
	l.Infof("info %s", "x")
	l.Warnf("warn")
	l.Errorf("error: %v", assert.AnError)

	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close(), "Close is idempotent")
}
