package utilities

import "sync"

const EventReportGenerated = "report_generated"

type EventHandler func(interface{})

type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

// Publish runs every handler of event in its own goroutine.
func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		eb.inflight.Add(1)
		go func(h EventHandler) {
			defer eb.inflight.Done()
			h(data)
		}(handler)
	}
}

// Wait blocks until all handlers started so far have returned.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}
