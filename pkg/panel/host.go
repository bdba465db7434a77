// Package panel hosts sidebar panes that follow the inspected element.
package panel

import (
	"sync"

	"csscontexts/pkg/classify"
)

// Host owns the current selection and notifies listeners when it changes.
type Host struct {
	mu        sync.Mutex
	selected  classify.Element
	listeners []*listener
}

type listener struct {
	fn func(classify.Element)
}

// NewHost returns a host with nothing selected.
func NewHost() *Host {
	return &Host{}
}

// Selected returns the current selection, nil when nothing is selected.
func (h *Host) Selected() classify.Element {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selected
}

// Select changes the selection and runs every listener in registration
// order. Listeners run outside the lock and may call back into the host.
func (h *Host) Select(el classify.Element) {
	h.mu.Lock()
	h.selected = el
	listeners := make([]*listener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, l := range listeners {
		l.fn(el)
	}
}

// OnSelectionChanged registers fn and returns a function that removes it.
func (h *Host) OnSelectionChanged(fn func(classify.Element)) (unsubscribe func()) {
	l := &listener{fn: fn}
	h.mu.Lock()
	h.listeners = append(h.listeners, l)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, cur := range h.listeners {
				if cur == l {
					h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
