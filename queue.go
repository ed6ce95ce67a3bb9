package crossing

import (
	"fmt"
	"io"
	"log/slog"
)

// queueNode is one waiting vehicle, identified by the tick it arrived on
type queueNode struct {
	arrival int
	next    *queueNode
}

// Queue is an unbounded FIFO of arrival ticks for one approach.
// The zero value is an empty queue ready to use.
type Queue struct {
	front *queueNode
	rear  *queueNode
	count int
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a vehicle that arrived on tick t
func (q *Queue) Push(t int) {
	node := &queueNode{arrival: t}
	if q.rear == nil {
		q.front = node
	} else {
		q.rear.next = node
	}
	q.rear = node
	q.count++
}

// Pop removes the vehicle at the head and returns its arrival tick.
// ok is false when the queue is empty.
func (q *Queue) Pop() (t int, ok bool) {
	if q.front == nil {
		return 0, false
	}
	node := q.front
	q.front = node.next
	if q.front == nil {
		q.rear = nil
	}
	node.next = nil
	q.count--
	return node.arrival, true
}

// Peek returns the arrival tick at the head without removing it
func (q *Queue) Peek() (t int, ok bool) {
	if q.front == nil {
		return 0, false
	}
	return q.front.arrival, true
}

// IsEmpty reports whether no vehicle is waiting
func (q *Queue) IsEmpty() bool {
	return q.front == nil
}

// Len returns the number of waiting vehicles
func (q *Queue) Len() int {
	return q.count
}

// Snapshot returns the arrival ticks from head to tail
func (q *Queue) Snapshot() []int {
	out := make([]int, 0, q.count)
	for node := q.front; node != nil; node = node.next {
		out = append(out, node.arrival)
	}
	return out
}

// Dump writes one arrival tick per line from head to tail, then a terminator line
func (q *Queue) Dump(w io.Writer) error {
	for node := q.front; node != nil; node = node.next {
		if _, err := fmt.Fprintf(w, "%d\n", node.arrival); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "Back of the queue\n\n")
	return err
}

// LogValue implements slog.LogValuer
func (q *Queue) LogValue() slog.Value {
	attrs := []slog.Attr{slog.Int("len", q.count)}
	if head, ok := q.Peek(); ok {
		attrs = append(attrs, slog.Int("head", head), slog.Int("tail", q.rear.arrival))
	}
	return slog.GroupValue(attrs...)
}
