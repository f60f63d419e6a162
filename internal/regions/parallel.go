package regions

import (
	"runtime"
	"sync"
)

// parallelRows splits the half-open row range [start,end) into contiguous
// bands, runs fn on each band in its own goroutine and waits for all of
// them. fn must only write to pixels within its band.
func parallelRows(start, end int, fn func(y0, y1 int)) {
	rows := end - start
	if rows <= 0 {
		return
	}
	workers := min(runtime.GOMAXPROCS(0), rows)
	if workers <= 1 {
		fn(start, end)
		return
	}

	band := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := start; y0 < end; y0 += band {
		y1 := min(y0+band, end)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
