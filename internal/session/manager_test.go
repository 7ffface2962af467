package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/lairai/internal/errors"
)

func TestManagerOneSessionPerTable(t *testing.T) {
	m := NewManager(&fakeGateway{})
	c := context.Background()

	s, view, err := m.Open(c, 5)
	require.NoError(t, err)
	assert.Equal(t, ModeCreating, view.Mode)

	_, _, err = m.Open(c, 5)
	assert.True(t, errors.Is(err, inErrors.ErrSessionAlreadyOpen))

	_, _, err = m.Open(c, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	got, err := m.Get(5)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestManagerReleasesClosedSessions(t *testing.T) {
	m := NewManager(&fakeGateway{})
	c := context.Background()

	s, _, err := m.Open(c, 5)
	require.NoError(t, err)
	_, err = s.Add(c, phoBo)
	require.NoError(t, err)
	_, err = s.Submit(c)
	require.NoError(t, err)

	_, err = m.Get(5)
	assert.True(t, errors.Is(err, inErrors.ErrSessionNotOpen))

	s, _, err = m.Open(c, 5)
	require.NoError(t, err)
	require.NoError(t, s.Cancel(c))
	assert.Equal(t, 0, m.Len())
}

func TestManagerKeepsFailedHydrationForRetry(t *testing.T) {
	g := &fakeGateway{activeErr: errors.New("timeout")}
	m := NewManager(g)

	s, view, err := m.Open(context.Background(), 5)

	require.Error(t, err)
	require.NotNil(t, s)
	assert.Equal(t, ModeLoadFailed, view.Mode)
	got, err := m.Get(5)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestManagerConcurrentOpen(t *testing.T) {
	m := NewManager(&fakeGateway{})
	c := context.Background()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := m.Open(c, 5); err == nil {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, m.Len())
}
