package tokenizer

import (
	"errors"
	"sync"
)

var errNilCounter = errors.New("nil tokenizer counter")

// Tally accumulates token counts of the file blocks written during one export.
type Tally struct {
	counter Counter
	mutex   sync.Mutex
	tokens  int
}

// NewTally returns a tally backed by counter. A nil counter yields a tally
// that counts nothing.
func NewTally(counter Counter) *Tally {
	return &Tally{counter: counter}
}

// Add counts content and adds the result to the running total.
func (tally *Tally) Add(content string) (int, error) {
	if tally == nil || tally.counter == nil {
		return 0, nil
	}
	tokens, err := CountString(tally.counter, content)
	if err != nil {
		return 0, err
	}
	tally.mutex.Lock()
	tally.tokens += tokens
	tally.mutex.Unlock()
	return tokens, nil
}

// Total returns the accumulated count.
func (tally *Tally) Total() int {
	if tally == nil {
		return 0
	}
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	return tally.tokens
}

// CountString counts input with counter.
func CountString(counter Counter, input string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	if input == "" {
		return 0, nil
	}
	return counter.CountString(input)
}
