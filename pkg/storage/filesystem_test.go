package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveStreamAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	size, err := store.SaveStream("assets/gig-1/deck.pdf", strings.NewReader("%PDF-1.4 deck"), 1024)
	require.NoError(t, err)
	assert.EqualValues(t, 13, size)

	file, err := store.Open("assets/gig-1/deck.pdf")
	require.NoError(t, err)
	defer file.Close()
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 deck", string(data))

	require.NoError(t, store.Delete("assets/gig-1/deck.pdf"))
	require.NoError(t, store.Delete("assets/gig-1/deck.pdf"))
}

func TestLocalStorageRejectsOversizedStream(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("big.bin", strings.NewReader(strings.Repeat("x", 11)), 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = store.Open("big.bin")
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapingNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../outside.txt", []byte("x"))
	assert.Error(t, err)
	_, err = store.Save("/etc/passwd", []byte("x"))
	assert.Error(t, err)
}
