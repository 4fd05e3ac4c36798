package manager

// FixedUpdater runs on the fixed-step channel.
type FixedUpdater interface {
	FixedUpdate(dt float64)
}

// Updater runs on the variable-step channel.
type Updater interface {
	Update(dt float64)
}

// LateUpdater runs after every Updater of the frame.
type LateUpdater interface {
	LateUpdate(dt float64)
}

// Scheduler fans a frame tick out to the listeners of each channel in
// insertion order. Listeners may opt in or out while a dispatch is running;
// the change takes effect on the next tick.
type Scheduler struct {
	fixed  []FixedUpdater
	update []Updater
	late   []LateUpdater
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// SetFixedUpdating adds or removes u from the fixed channel.
func (s *Scheduler) SetFixedUpdating(u FixedUpdater, on bool) {
	if s == nil || u == nil {
		return
	}
	s.fixed = toggle(s.fixed, u, on)
}

// SetUpdating adds or removes u from the variable channel.
func (s *Scheduler) SetUpdating(u Updater, on bool) {
	if s == nil || u == nil {
		return
	}
	s.update = toggle(s.update, u, on)
}

// SetLateUpdating adds or removes u from the late channel.
func (s *Scheduler) SetLateUpdating(u LateUpdater, on bool) {
	if s == nil || u == nil {
		return
	}
	s.late = toggle(s.late, u, on)
}

func (s *Scheduler) IsFixedUpdating(u FixedUpdater) bool { return s != nil && indexOf(s.fixed, u) >= 0 }
func (s *Scheduler) IsUpdating(u Updater) bool           { return s != nil && indexOf(s.update, u) >= 0 }
func (s *Scheduler) IsLateUpdating(u LateUpdater) bool   { return s != nil && indexOf(s.late, u) >= 0 }

// Tick runs one engine frame: fixed, then variable, then late.
func (s *Scheduler) Tick(dt float64) {
	s.FixedTick(dt)
	s.UpdateTick(dt)
	s.LateTick(dt)
}

func (s *Scheduler) FixedTick(dt float64) {
	if s == nil {
		return
	}
	for _, u := range snapshot(s.fixed) {
		u.FixedUpdate(dt)
	}
}

func (s *Scheduler) UpdateTick(dt float64) {
	if s == nil {
		return
	}
	for _, u := range snapshot(s.update) {
		u.Update(dt)
	}
}

func (s *Scheduler) LateTick(dt float64) {
	if s == nil {
		return
	}
	for _, u := range snapshot(s.late) {
		u.LateUpdate(dt)
	}
}

func toggle[T comparable](list []T, u T, on bool) []T {
	idx := indexOf(list, u)
	switch {
	case on && idx < 0:
		return append(list, u)
	case !on && idx >= 0:
		out := make([]T, 0, len(list)-1)
		out = append(out, list[:idx]...)
		return append(out, list[idx+1:]...)
	}
	return list
}

func indexOf[T comparable](list []T, u T) int {
	for i, v := range list {
		if v == u {
			return i
		}
	}
	return -1
}

func snapshot[T any](list []T) []T {
	if len(list) == 0 {
		return nil
	}
	return append([]T(nil), list...)
}
