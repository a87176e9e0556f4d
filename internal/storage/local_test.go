package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Store(ctx, "audits/mrbeast/2025-01-02.json", []byte(`{"a":1}`)))
	require.NoError(t, s.Store(ctx, "audits/mrbeast/2025-01-01.json", []byte(`{"a":0}`)))
	require.NoError(t, s.Store(ctx, "audits/mkbhd/2025-01-01.json", []byte(`{"b":1}`)))

	data, err := s.Retrieve(ctx, "audits/mrbeast/2025-01-02.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	names, err := s.List(ctx, "audits/mrbeast/")
	require.NoError(t, err)
	assert.Equal(t, []string{"audits/mrbeast/2025-01-01.json", "audits/mrbeast/2025-01-02.json"}, names)

	require.NoError(t, s.Delete(ctx, "audits/mrbeast/2025-01-01.json"))
	names, err = s.List(ctx, "audits/")
	require.NoError(t, err)
	assert.Len(t, names, 2)

	_, err = s.Retrieve(ctx, "audits/mrbeast/2025-01-01.json")
	assert.Error(t, err)
}

func TestLocalStorage_RejectsEscapingNames(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../outside.json", "/etc/passwd", "", "a/../../b"} {
		assert.Error(t, s.Store(ctx, name, []byte("x")), name)
	}
}

func TestNewAzureStorage_RequiresAccount(t *testing.T) {
	_, err := NewAzureStorage(context.Background(), "", "audits")
	assert.Error(t, err)
}
