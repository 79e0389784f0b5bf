package binary

import "sync"

// lineBuffer collects lines from the stdout reader until a caller drains them. It
// never blocks the reader, so a chatty engine can't stall the pipe.
type lineBuffer struct {
	mutex   sync.Mutex
	lines   []string
	closed  bool
	updated chan struct{}
}

func newLineBuffer() *lineBuffer {
	return &lineBuffer{updated: make(chan struct{}, 1)}
}

func (b *lineBuffer) notify() {
	select {
	case b.updated <- struct{}{}:
	default:
	}
}

func (b *lineBuffer) Push(line string) {
	b.mutex.Lock()
	b.lines = append(b.lines, line)
	b.mutex.Unlock()
	b.notify()
}

// Unread puts lines back at the front of the buffer.
func (b *lineBuffer) Unread(lines []string) {
	if len(lines) == 0 {
		return
	}
	b.mutex.Lock()
	b.lines = append(append([]string{}, lines...), b.lines...)
	b.mutex.Unlock()
	b.notify()
}

func (b *lineBuffer) Close() {
	b.mutex.Lock()
	b.closed = true
	b.mutex.Unlock()
	b.notify()
}

func (b *lineBuffer) Drain() ([]string, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	lines := b.lines
	b.lines = nil
	return lines, b.closed
}

func (b *lineBuffer) Wait() <-chan struct{} {
	return b.updated
}
