package console

import "context"

// lineQueue hands raw input lines from the reader goroutine to the game
// loop. Only the reader closes it.
type lineQueue struct {
	ch chan string
}

func newLineQueue(size int) *lineQueue {
	if size < 1 {
		size = 16
	}
	return &lineQueue{ch: make(chan string, size)}
}

// Enqueue blocks until the line is queued or ctx is done.
func (q *lineQueue) Enqueue(ctx context.Context, line string) bool {
	select {
	case q.ch <- line:
		return true
	case <-ctx.Done():
		return false
	}
}

// Dequeue reports false once the queue is closed and drained or ctx is done.
func (q *lineQueue) Dequeue(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-q.ch:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (q *lineQueue) close() {
	close(q.ch)
}
