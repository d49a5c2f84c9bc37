package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissing(t *testing.T) {
	s := New()
	v, found, err := s.Get("nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestSetThenGet(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", []byte("v1")))
	require.NoError(t, s.Set("k", []byte("v2")))

	v, found, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", string(v))
	assert.Equal(t, 1, s.Len())
}

func TestValuesAreCopied(t *testing.T) {
	s := New()
	in := []byte("abc")
	require.NoError(t, s.Set("k", in))
	in[0] = 'x'

	out, _, _ := s.Get("k")
	assert.Equal(t, "abc", string(out))
	out[1] = 'y'

	again, _, _ := s.Get("k")
	assert.Equal(t, "abc", string(again))
}
