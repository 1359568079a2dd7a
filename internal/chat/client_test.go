package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueAfterCloseIsDropped(t *testing.T) {
	c := newTestClient("a")
	assert.True(t, c.Enqueue([]byte("one")))
	c.close()
	assert.False(t, c.Enqueue([]byte("two")))
}

func TestEnqueueDropsWhenQueueIsFull(t *testing.T) {
	c := newTestClient("a")
	for i := 0; i < cap(c.Send); i++ {
		require.True(t, c.Enqueue([]byte("x")))
	}
	assert.False(t, c.Enqueue([]byte("overflow")))
}

func TestWritePumpDrainsAndClosesConn(t *testing.T) {
	conn := &fakeConn{}
	c := NewClient("a", "", conn)
	c.Enqueue([]byte("one"))
	c.Enqueue([]byte("two"))

	done := make(chan struct{})
	go func() {
		c.WritePump()
		close(done)
	}()
	c.close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("write pump did not exit")
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Len(t, conn.written, 2)
	assert.True(t, conn.closed)
}
