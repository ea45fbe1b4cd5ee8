package logwriter

import (
	"bytes"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// nolint: paralleltest
func TestLinePrefix(t *testing.T) {
	out := &syncBuffer{}
	log.SetOutput(out)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	w := LinePrefix("GRPC")

	_, err := w.Write([]byte("first line\nsecond line\n"))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return strings.Count(out.String(), "[GRPC]") == 2
	}, time.Second, time.Millisecond)

	assert.Contains(t, out.String(), "[GRPC] first line")
	assert.Contains(t, out.String(), "[GRPC] second line")
}
