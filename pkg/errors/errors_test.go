package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, Is(e3, e2))
}

func TestWrapDoesNotMutateSentinel(t *testing.T) {
	sentinel := New("not found")
	cause := fmt.Errorf("http status 404")

	wrapped := sentinel.Wrap(cause)
	require.True(t, Is(wrapped, sentinel))
	assert.Equal(t, cause, wrapped.Unwrap())

	// the sentinel itself carries no cause
	assert.Nil(t, sentinel.Unwrap())
}

func TestAs(t *testing.T) {
	inner := New("inner")
	err := fmt.Errorf("outer: %w", inner)

	var target *Error
	require.True(t, As(err, &target))
	assert.Equal(t, "inner", target.Error())
}
