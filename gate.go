package hpastar

import (
	"runtime"
	"sync"
)

// Gate is a ticket-based shared/exclusive gate guarding one graph host.
//
// The ticket is 0 when idle, n > 0 while n readers (searches) hold it and
// -1 while a single writer (a rebake) holds it. Waiters spin cooperatively
// with runtime.Gosched instead of parking on the mutex, which only guards
// the state transition itself.
//
// A reader may enter whenever the ticket is >= 0, including while a writer
// is waiting for the readers to drain. Under continuous reader arrival a
// writer can therefore wait forever. Callers must not rely on writer
// progress while they keep issuing reads.
//
// The zero value is an idle gate ready for use.
type Gate struct {
	mu     sync.Mutex
	ticket int
}

// AcquireRead waits until no writer holds the gate and then registers one reader.
func (gate *Gate) AcquireRead() {
	for !gate.tryAcquireRead() {
		runtime.Gosched()
	}
}

func (gate *Gate) tryAcquireRead() bool {
	gate.mu.Lock()
	defer gate.mu.Unlock()
	if gate.ticket < 0 {
		return false
	}
	gate.ticket++
	return true
}

// ReleaseRead unregisters one reader.
func (gate *Gate) ReleaseRead() {
	gate.mu.Lock()
	defer gate.mu.Unlock()
	if gate.ticket <= 0 {
		panic("hpastar: ReleaseRead of gate without readers")
	}
	gate.ticket--
}

// AcquireWrite waits until the gate is idle and then takes it exclusively.
// Writers are serialized with each other as well as with readers.
func (gate *Gate) AcquireWrite() {
	for !gate.tryAcquireWrite() {
		runtime.Gosched()
	}
}

func (gate *Gate) tryAcquireWrite() bool {
	gate.mu.Lock()
	defer gate.mu.Unlock()
	if gate.ticket != 0 {
		return false
	}
	gate.ticket = -1
	return true
}

// ReleaseWrite returns the gate to idle.
func (gate *Gate) ReleaseWrite() {
	gate.mu.Lock()
	defer gate.mu.Unlock()
	if gate.ticket != -1 {
		panic("hpastar: ReleaseWrite of gate not held by a writer")
	}
	gate.ticket = 0
}

// Ticket reports the current ticket value.
func (gate *Gate) Ticket() int {
	gate.mu.Lock()
	defer gate.mu.Unlock()
	return gate.ticket
}
