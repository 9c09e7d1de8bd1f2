package wellspace

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/wellspace/constraint"
	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

// DEFAULT_GRID_CELLS is the number of hash buckets of a broad phase grid.
const DEFAULT_GRID_CELLS = 1024

// CellKey is the integer coordinate of a broad phase cell.
type CellKey struct {
	X, Y, Z int
}

type bucket struct {
	wellIndices []int
}

// SpatialGrid is a uniform hashed grid over well bounding boxes. It culls the
// pairs of wells that cannot be closer than the minimum distance.
type SpatialGrid struct {
	cellSize float64
	cells    []bucket
	cellMask int
}

// NewSpatialGrid returns a grid of numCells buckets, rounded up to a power of
// two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]bucket, numCells)
	for i := range cells {
		cells[i].wellIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

// Insert adds wellIndex to every bucket its box touches.
func (sg *SpatialGrid) Insert(wellIndex int, box well.AABB) {
	minCell := sg.worldToCell(box.Min)
	maxCell := sg.worldToCell(box.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				sg.cells[cellIdx].wellIndices = append(sg.cells[cellIdx].wellIndices, wellIndex)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].wellIndices = sg.cells[i].wellIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].wellIndices) > 1 {
			sort.Ints(sg.cells[i].wellIndices)
		}
	}
}

// FindPairsParallel streams the pairs of overlapping boxes. Each pair is sent
// once, with A < B, in no particular order.
func (sg *SpatialGrid) FindPairsParallel(boxes []well.AABB, numWorkers int) <-chan constraint.Pair {
	var wg sync.WaitGroup
	numWorkers = max(1, min(numWorkers, len(boxes)))
	pairsChan := make(chan constraint.Pair, numWorkers*10)

	perWorker := len(boxes) / numWorkers
	if perWorker == 0 {
		perWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := min(start+perWorker, len(boxes))
		if w == numWorkers-1 {
			end = len(boxes)
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(boxes))
			for a := start; a < end; a++ {
				clear(seen)

				minCell := sg.worldToCell(boxes[a].Min)
				maxCell := sg.worldToCell(boxes[a].Max)
				for x := minCell.X; x <= maxCell.X; x++ {
					for y := minCell.Y; y <= maxCell.Y; y++ {
						for z := minCell.Z; z <= maxCell.Z; z++ {
							for _, b := range sg.cells[sg.hashCell(CellKey{x, y, z})].wellIndices {
								if b <= a || seen[b] {
									continue
								}
								seen[b] = true

								if boxes[a].Overlaps(boxes[b]) {
									pairsChan <- constraint.Pair{A: a, B: b}
								}
							}
						}
					}
				}
			}
		}(start, end)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}

// BroadPhase returns, in sweep order, the pairs of wells whose boxes inflated
// by margin overlap. A margin of d/2 keeps every pair closer than d.
func BroadPhase(sg *SpatialGrid, wells []well.Well, margin float64, workersCount int) []constraint.Pair {
	boxes := make([]well.AABB, len(wells))
	for i, w := range wells {
		boxes[i] = w.AABB().Inflate(margin)
	}

	sg.Clear()
	for i, box := range boxes {
		sg.Insert(i, box)
	}
	sg.SortCells()

	var pairs []constraint.Pair
	for pair := range sg.FindPairsParallel(boxes, workersCount) {
		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}
