package wellspace

import "sync"

// task splits data into one contiguous chunk per worker and calls fn on every
// element with its index.
func task[T any](workersCount int, data []T, fn func(i int, item T)) {
	dataSize := len(data)
	if dataSize == 0 {
		return
	}
	workersCount = min(max(1, workersCount), dataSize)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	var wg sync.WaitGroup
	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
		}(start, end)
	}
	wg.Wait()
}
