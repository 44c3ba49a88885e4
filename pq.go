package hpastar

// PriorityQueueItem is one open-list entry. Record indexes the per-query arena.
type PriorityQueueItem struct {
	Record   int
	FCost    float64
	Sequence int
}

// PriorityQueue pops the lowest FCost first, ties going to the earliest
// insertion so that the order is the same as a stable sort of the open list.
type PriorityQueue []PriorityQueueItem

func (queue PriorityQueue) Len() int { return len(queue) }
func (queue PriorityQueue) Less(i, j int) bool {
	if queue[i].FCost != queue[j].FCost {
		return queue[i].FCost < queue[j].FCost
	}
	return queue[i].Sequence < queue[j].Sequence
}
func (queue PriorityQueue) Swap(i, j int) { queue[i], queue[j] = queue[j], queue[i] }

func (queue *PriorityQueue) Push(x any) {
	*queue = append(*queue, x.(PriorityQueueItem))
}

func (queue *PriorityQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	*queue = oldQueue[:n-1]
	return item
}
