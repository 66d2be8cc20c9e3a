package anim

import (
	"maps"
	"slices"
	"time"
)

// DefaultItemWidth is the outer width MemorySurface reports for elements.
const DefaultItemWidth = 200

// Element is the state of one element on a MemorySurface.
type Element struct {
	ID         string
	Style      Style
	Transition *Timing
}

// MemorySurface is an in-memory Surface. A style change to a property
// covered by the element's transition emits a completion signal once the
// transition's delay and duration have elapsed on the scheduler. The
// "z-index" property never animates.
type MemorySurface struct {
	sched     Scheduler
	signal    string
	width     float64
	order     []string
	elements  map[string]*Element
	listeners []*listener
	onChange  func()
}

type listener struct {
	ids    map[string]bool
	signal string
	fn     func(string)
	active bool
}

// NewMemorySurface creates a surface that schedules completion signals on
// sched.
func NewMemorySurface(sched Scheduler) *MemorySurface {
	return &MemorySurface{
		sched:    sched,
		signal:   TransitionEnd,
		width:    DefaultItemWidth,
		elements: make(map[string]*Element),
	}
}

// SetSignal changes the concrete name of the emitted completion signal.
func (m *MemorySurface) SetSignal(name string) { m.signal = name }

// SetItemWidth changes the width reported by OuterWidth.
func (m *MemorySurface) SetItemWidth(w float64) { m.width = w }

// OnChange registers fn to run after every visible change.
func (m *MemorySurface) OnChange(fn func()) { m.onChange = fn }

func (m *MemorySurface) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}

// Mount implements Surface.
func (m *MemorySurface) Mount(ids []string) {
	for _, id := range ids {
		if _, ok := m.elements[id]; ok {
			continue
		}
		m.elements[id] = &Element{ID: id, Style: Style{}}
		m.order = append(m.order, id)
	}
	m.changed()
}

// Unmount implements Surface.
func (m *MemorySurface) Unmount(ids []string) {
	for _, id := range ids {
		if _, ok := m.elements[id]; !ok {
			continue
		}
		delete(m.elements, id)
		m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	}
	m.changed()
}

// SetStyle implements Surface.
func (m *MemorySurface) SetStyle(ids []string, style Style) {
	for _, id := range ids {
		el, ok := m.elements[id]
		if !ok {
			continue
		}
		animated := false
		for k, v := range style {
			if el.Style[k] == v {
				continue
			}
			el.Style[k] = v
			if el.Transition != nil && k != "z-index" &&
				(el.Transition.Property == "all" || el.Transition.Property == k) {
				animated = true
			}
		}
		if animated {
			m.sched.AfterFunc(el.Transition.Delay+el.Transition.Speed, func() { m.emit(id) })
		}
	}
	m.changed()
}

// SetTransition implements Surface.
func (m *MemorySurface) SetTransition(ids []string, t Timing) {
	for _, id := range ids {
		if el, ok := m.elements[id]; ok {
			tt := t
			el.Transition = &tt
		}
	}
}

// ResetTransition implements Surface.
func (m *MemorySurface) ResetTransition(ids []string) {
	for _, id := range ids {
		if el, ok := m.elements[id]; ok {
			el.Transition = nil
		}
	}
}

// OnTransitionEnd implements Surface.
func (m *MemorySurface) OnTransitionEnd(ids []string, signal string, fn func(string)) func() {
	l := &listener{ids: make(map[string]bool, len(ids)), signal: signal, fn: fn, active: true}
	for _, id := range ids {
		l.ids[id] = true
	}
	m.listeners = append(m.listeners, l)
	return func() {
		l.active = false
		m.listeners = slices.DeleteFunc(m.listeners, func(x *listener) bool { return x == l })
	}
}

// Listeners returns the number of registered completion listeners.
func (m *MemorySurface) Listeners() int { return len(m.listeners) }

func (m *MemorySurface) emit(id string) {
	if _, ok := m.elements[id]; !ok {
		return
	}
	for _, l := range slices.Clone(m.listeners) {
		if l.active && l.signal == m.signal && l.ids[id] {
			l.fn(id)
		}
	}
}

// OuterWidth implements Measurer.
func (m *MemorySurface) OuterWidth(string) float64 { return m.width }

// Element returns a copy of the element with the given id.
func (m *MemorySurface) Element(id string) (Element, bool) {
	el, ok := m.elements[id]
	if !ok {
		return Element{}, false
	}
	return copyElement(el), true
}

// Elements returns copies of all mounted elements in mount order.
func (m *MemorySurface) Elements() []Element {
	out := make([]Element, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, copyElement(m.elements[id]))
	}
	return out
}

// StyleOf returns one style property of an element.
func (m *MemorySurface) StyleOf(id, prop string) string {
	if el, ok := m.elements[id]; ok {
		return el.Style[prop]
	}
	return ""
}

func copyElement(el *Element) Element {
	out := Element{ID: el.ID, Style: maps.Clone(el.Style)}
	if el.Transition != nil {
		t := *el.Transition
		out.Transition = &t
	}
	return out
}

// Settle returns how long a transition with timing t takes to complete.
func Settle(t Timing) time.Duration { return t.Delay + t.Speed }
