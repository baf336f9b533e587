package workerpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchRunsEveryTask(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	const n = 500
	var ran atomic.Int64
	batch := pool.NewBatch()
	for i := 0; i < n; i++ {
		batch.Submit(func() { ran.Add(1) })
	}
	batch.Wait()

	require.EqualValues(t, n, ran.Load())
}

func TestIndexedResultsAreComplete(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	const n = 257
	results := make([]int, n)
	batch := pool.NewBatch()
	for i := 0; i < n; i++ {
		i := i
		batch.Submit(func() { results[i] = i * i })
	}
	batch.Wait()

	for i, got := range results {
		require.Equal(t, i*i, got)
	}
}

func TestIndependentBatchesShareOnePool(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	var a, b atomic.Int64
	ba := pool.NewBatch()
	bb := pool.NewBatch()
	for i := 0; i < 50; i++ {
		ba.Submit(func() { a.Add(1) })
		bb.Submit(func() { b.Add(1) })
	}
	ba.Wait()
	bb.Wait()

	require.EqualValues(t, 50, a.Load())
	require.EqualValues(t, 50, b.Load())
}

func TestDefaultWorkerCount(t *testing.T) {
	pool := New(0)
	defer pool.Close()
	require.Greater(t, pool.Workers(), 0)
}

func TestCloseIsIdempotent(t *testing.T) {
	pool := New(1)
	pool.Close()
	pool.Close()
}
