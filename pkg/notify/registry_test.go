package notify

import (
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConnection(t *testing.T) *Connection {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return newConnection(server)
}

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()
	c := testConnection(t)

	r.Add(c)
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Contains(c.ID()))

	removed, ok := r.Remove(c.ID())
	require.True(t, ok)
	assert.Same(t, c, removed)
	assert.Equal(t, 0, r.Len())

	// second removal reports the connection as already gone
	_, ok = r.Remove(c.ID())
	assert.False(t, ok)
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	a := testConnection(t)
	b := testConnection(t)
	r.Add(a)
	r.Add(b)

	snapshot := r.Snapshot()
	require.Len(t, snapshot, 2)

	r.Remove(a.ID())
	r.Remove(b.ID())

	// the snapshot taken earlier is unaffected by later removals
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 0, r.Len())
}

func TestConnectionIDsAreUniquePerAccept(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		c := newConnection(server)
		_, dup := seen[c.ID()]
		require.False(t, dup, "duplicate connection id %s", c.ID())
		seen[c.ID()] = struct{}{}
	}
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry()
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c := newConnection(server)
				r.Add(c)
				r.Snapshot()
				r.Remove(c.ID())
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len(), fmt.Sprintf("registry should be empty, has %d entries", r.Len()))
}
