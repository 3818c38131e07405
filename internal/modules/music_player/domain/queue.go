package domain

// Queue is the FIFO of tracks waiting to be played.
// Insertion order is play order; the playing track is not part of the queue.
type Queue struct {
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() Queue {
	return Queue{
		tracks: make([]*Track, 0),
	}
}

// Len returns the number of pending tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if no tracks are pending.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Push appends a track and returns its 1-indexed position.
func (q *Queue) Push(track *Track) int {
	q.tracks = append(q.tracks, track)
	return len(q.tracks)
}

// Pop removes and returns the head of the queue, or nil if empty.
func (q *Queue) Pop() *Track {
	if q.IsEmpty() {
		return nil
	}

	head := q.tracks[0]
	q.tracks[0] = nil
	q.tracks = q.tracks[1:]
	return head
}

// Peek returns the head of the queue without removing it, or nil if empty.
func (q *Queue) Peek() *Track {
	if q.IsEmpty() {
		return nil
	}
	return q.tracks[0]
}

// List returns a copy of the pending tracks in play order.
func (q *Queue) List() []*Track {
	result := make([]*Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Clear removes all pending tracks and returns how many were removed.
func (q *Queue) Clear() int {
	n := len(q.tracks)
	q.tracks = make([]*Track, 0)
	return n
}
