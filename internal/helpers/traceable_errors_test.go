package helpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNil(t *testing.T) {
	var err error
	assert.True(t, IsNil(err))

	var traceableErr Error = NilError
	assert.True(t, IsNil(traceableErr))

	traceableErr = Errorf("oops")
	assert.False(t, IsNil(traceableErr))
}

var errSentinel = errors.New("sentinel")

func TestWrapKeepsSentinel(t *testing.T) {
	err := Errorf("while doing a thing: %w", errSentinel)
	assert.True(t, errors.Is(err, errSentinel), err)

	wrapped := Wrap(err)
	assert.Equal(t, 1, wrapped.NumErrors())
	assert.True(t, errors.Is(wrapped, errSentinel))

	assert.True(t, Wrap(nil).IsNil())
}

func TestJoin(t *testing.T) {
	assert.True(t, Join(NilError, NilError).IsNil())

	joined := Join(Errorf("a"), NilError, Errorf("b"))
	assert.Equal(t, 2, joined.NumErrors())
	assert.Equal(t, "a\nb", joined.Error())
	assert.Contains(t, joined.String(), "traceable_errors_test.go")
}
