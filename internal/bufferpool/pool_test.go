package bufferpool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/relcore/internal/pagefile"
)

func newTestPool(t *testing.T, numFrames int, policy Policy) *Pool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.page")
	pf, err := pagefile.Create(path)
	require.NoError(t, err)
	require.NoError(t, pf.Close())

	pool, err := Init(path, numFrames, policy)
	require.NoError(t, err)
	return pool
}

func TestPool_EmptyPoolReplay_FIFO(t *testing.T) {
	pool := newTestPool(t, 3, FIFO)

	for page := 0; page <= 3; page++ {
		h, err := pool.Pin(page)
		require.NoError(t, err)
		require.NoError(t, pool.Unpin(h))
	}

	require.Equal(t, 4, pool.NumReadIO())
	require.Equal(t, 0, pool.NumWriteIO())
	require.Equal(t, 3, pool.FrameContents()[0])
}

func TestPool_LRU_Recency(t *testing.T) {
	pool := newTestPool(t, 3, LRU)

	for _, page := range []int{0, 1, 2} {
		h, err := pool.Pin(page)
		require.NoError(t, err)
		require.NoError(t, pool.Unpin(h))
	}
	h0, err := pool.Pin(0)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(h0))

	h3, err := pool.Pin(3)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(h3))

	resident := pool.FrameContents()
	require.ElementsMatch(t, []int{0, 2, 3}, resident)
}

func TestPool_CLOCK_SecondChance(t *testing.T) {
	pool := newTestPool(t, 3, CLOCK)

	for _, page := range []int{0, 1, 2} {
		h, err := pool.Pin(page)
		require.NoError(t, err)
		require.NoError(t, pool.Unpin(h))
	}
	h0, err := pool.Pin(0)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(h0))

	h3, err := pool.Pin(3)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(h3))

	resident := pool.FrameContents()
	require.ElementsMatch(t, []int{0, 2, 3}, resident)
}

func TestPool_DirtyWriteBack(t *testing.T) {
	pool := newTestPool(t, 1, FIFO)

	h0, err := pool.Pin(0)
	require.NoError(t, err)
	buf, err := pool.FrameData(h0)
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 0x7a
	}
	// The frame buffer is reused for page 1 below, so keep a copy of
	// the bytes written to page 0.
	want := append([]byte(nil), buf...)
	require.NoError(t, pool.MarkDirty(h0))
	require.NoError(t, pool.Unpin(h0))

	_, err = pool.Pin(1)
	require.NoError(t, err)

	require.Equal(t, 1, pool.NumWriteIO())

	raw, err := pagefile.Open(pool.path)
	require.NoError(t, err)
	defer raw.Close()
	onDisk := make([]byte, pagefile.PageSize)
	require.NoError(t, raw.ReadBlock(0, onDisk))
	require.Equal(t, want, onDisk)
}

func TestPool_ShutdownWithPins(t *testing.T) {
	pool := newTestPool(t, 1, FIFO)

	h0, err := pool.Pin(0)
	require.NoError(t, err)

	err = pool.Shutdown()
	require.ErrorIs(t, err, ErrPinnedPages)

	require.NoError(t, pool.Unpin(h0))
	require.NoError(t, pool.Shutdown())
}

func TestPool_Pin_NegativePage(t *testing.T) {
	pool := newTestPool(t, 1, FIFO)
	_, err := pool.Pin(-1)
	require.ErrorIs(t, err, ErrReadNonExistingPage)
}

func TestPool_Pin_NoAvailableFrame(t *testing.T) {
	pool := newTestPool(t, 1, FIFO)
	_, err := pool.Pin(0)
	require.NoError(t, err)

	_, err = pool.Pin(1)
	require.ErrorIs(t, err, ErrNoAvailableFrame)
}

func TestPool_RepinDoesNotIncrementReadIO(t *testing.T) {
	pool := newTestPool(t, 2, FIFO)
	h0, err := pool.Pin(0)
	require.NoError(t, err)
	require.Equal(t, 1, pool.NumReadIO())

	h0b, err := pool.Pin(0)
	require.NoError(t, err)
	require.Equal(t, 1, pool.NumReadIO())
	require.Equal(t, 2, pool.FixCounts()[0])

	require.NoError(t, pool.Unpin(h0))
	require.NoError(t, pool.Unpin(h0b))
}

func TestPool_MarkDirty_UnknownPage(t *testing.T) {
	pool := newTestPool(t, 1, FIFO)
	err := pool.MarkDirty(Handle{idx: 0, pageNum: 5})
	require.ErrorIs(t, err, ErrReadNonExistingPage)
}
