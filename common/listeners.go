package common

// ListenerID identifies a registered callback. The zero value is never issued.
type ListenerID uint64

type listenerEntry[T any] struct {
	id ListenerID
	fn func(T)
}

// Listeners is an observer list for one event channel. Callbacks run in
// insertion order over a snapshot, so a callback may add or remove listeners;
// the change applies from the next Emit.
type Listeners[T any] struct {
	next    ListenerID
	entries []listenerEntry[T]
}

// Add registers fn and returns the handle used to remove it.
func (l *Listeners[T]) Add(fn func(T)) ListenerID {
	if l == nil || fn == nil {
		return 0
	}
	l.next++
	l.entries = append(l.entries, listenerEntry[T]{id: l.next, fn: fn})
	return l.next
}

// Remove unregisters id. Unknown ids are ignored.
func (l *Listeners[T]) Remove(id ListenerID) bool {
	if l == nil || id == 0 {
		return false
	}
	for i, e := range l.entries {
		if e.id != id {
			continue
		}
		out := make([]listenerEntry[T], 0, len(l.entries)-1)
		out = append(out, l.entries[:i]...)
		l.entries = append(out, l.entries[i+1:]...)
		return true
	}
	return false
}

func (l *Listeners[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Emit calls every listener with v.
func (l *Listeners[T]) Emit(v T) {
	if l == nil || len(l.entries) == 0 {
		return
	}
	snap := append([]listenerEntry[T](nil), l.entries...)
	for _, e := range snap {
		e.fn(v)
	}
}
