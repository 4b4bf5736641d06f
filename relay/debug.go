package relay

import (
	"sync"
)

const (
	EventCorrupted      string = "CORRUPTED"
	EventDropped        string = "DROPPED"
	EventDecodeFailed   string = "DECODE_FAILED"
	EventDelivered      string = "DELIVERED"
	EventDeliveryFailed string = "DELIVERY_FAILED"
)

type DebugInterface interface {
	Emit(string, string)
	Subscribe(string, chan string)
}

// Debugger fans events out to subscribers. A full subscriber channel misses
// the event instead of stalling the transmission.
type Debugger struct {
	mu       sync.RWMutex
	eventMap map[string][]chan string
}

func NewDebugger() *Debugger {
	return &Debugger{
		eventMap: make(map[string][]chan string),
	}
}

func (self *Debugger) Emit(event string, msg string) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	for _, ch := range self.eventMap[event] {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (self *Debugger) Subscribe(event string, callback chan string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.eventMap[event] = append(self.eventMap[event], callback)
}
