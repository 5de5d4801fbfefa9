package pathfinder

import "container/heap"

// frontierItem is one open cell queued by its f-cost
type frontierItem struct {
	At    Point
	F     float64
	Seq   uint64 // insertion order, breaks ties between equal f
	Index int    // Index in the heap
}

// priorityQueue implements heap.Interface ordered by (F, Seq)
type priorityQueue []*frontierItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*frontierItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

// Frontier is the open set. Selection returns the lowest f, and among equal
// f the cell inserted first. Membership is a map lookup.
type Frontier struct {
	queue priorityQueue
	items map[Point]*frontierItem
	seq   uint64
	peak  int
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	f := &Frontier{items: make(map[Point]*frontierItem)}
	heap.Init(&f.queue)
	return f
}

// Insert queues p with priority f. Inserting a cell already queued only
// updates its priority.
func (f *Frontier) Insert(p Point, fCost float64) {
	if item, ok := f.items[p]; ok {
		item.F = fCost
		heap.Fix(&f.queue, item.Index)
		return
	}
	item := &frontierItem{At: p, F: fCost, Seq: f.seq}
	f.seq++
	heap.Push(&f.queue, item)
	f.items[p] = item
	if n := f.queue.Len(); n > f.peak {
		f.peak = n
	}
}

// Update changes the priority of a queued cell, which keeps its place in
// insertion order for tie-breaking. It reports false if p is not queued.
func (f *Frontier) Update(p Point, fCost float64) bool {
	item, ok := f.items[p]
	if !ok {
		return false
	}
	item.F = fCost
	heap.Fix(&f.queue, item.Index)
	return true
}

// Contains reports whether p is queued.
func (f *Frontier) Contains(p Point) bool {
	_, ok := f.items[p]
	return ok
}

// SelectMinimum removes and returns the cell with the smallest f.
func (f *Frontier) SelectMinimum() (Point, bool) {
	if f.queue.Len() == 0 {
		return Point{}, false
	}
	item := heap.Pop(&f.queue).(*frontierItem)
	delete(f.items, item.At)
	return item.At, true
}

// Remove drops p from the frontier, reporting whether it was queued.
func (f *Frontier) Remove(p Point) bool {
	item, ok := f.items[p]
	if !ok {
		return false
	}
	heap.Remove(&f.queue, item.Index)
	delete(f.items, p)
	return true
}

// Len returns the number of queued cells.
func (f *Frontier) Len() int { return f.queue.Len() }

// IsEmpty reports whether nothing is queued.
func (f *Frontier) IsEmpty() bool { return f.queue.Len() == 0 }

// Peak returns the largest size the frontier reached since the last Clear.
func (f *Frontier) Peak() int { return f.peak }

// Clear empties the frontier and restarts insertion order.
func (f *Frontier) Clear() {
	f.queue = nil
	f.items = make(map[Point]*frontierItem)
	f.seq = 0
	f.peak = 0
}
