package stack_error

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBase = errors.New("base")

func TestTrackErrorStack(t *testing.T) {
	te := TrackErrorStack(errBase).AddContext("token", "a.png").AddContext("token", "b.png")
	require.Len(t, te.ErrStack, 1)
	assert.Equal(t, "a.png", te.Context["token"])
	assert.Equal(t, "base", te.Error())
	assert.ErrorIs(t, te, errBase)

	again := TrackErrorStack(te)
	assert.Same(t, te, again)
	assert.Len(t, again.ErrStack, 2)
}

func TestLogNilError(t *testing.T) {
	assert.NotPanics(t, func() {
		Warn("nothing", nil)
		Error("plain", errBase, "key", "value")
		Error("tracked", TrackErrorStack(errBase).AddContext("k", 1))
	})
}
