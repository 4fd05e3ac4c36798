package manager

import "go.uber.org/zap"

// Guard records that an initialization ran. Repeated calls to Do are no-ops.
type Guard struct {
	inited bool
}

// Do runs fn the first time it is called and reports whether it ran.
func (g *Guard) Do(fn func()) bool {
	if g == nil || g.inited {
		return false
	}
	g.inited = true
	if fn != nil {
		fn()
	}
	return true
}

func (g *Guard) Inited() bool {
	return g != nil && g.inited
}

// Manager is a process-lifetime service set up once by the Root. Init must be
// idempotent; embedding a Guard is the usual way to get that.
type Manager interface {
	Init(root *Root)
}

// Root is the persistent owner of the frame scheduler and of every manager
// registered at startup.
type Root struct {
	guard     Guard
	log       *zap.Logger
	scheduler *Scheduler
	managers  []Manager
	frame     uint64
}

func NewRoot(log *zap.Logger) *Root {
	if log == nil {
		log = zap.NewNop()
	}
	return &Root{log: log}
}

// Init prepares the scheduler. It must run before any manager is registered;
// Register calls it when needed.
func (r *Root) Init() {
	r.guard.Do(func() {
		r.scheduler = NewScheduler()
		r.log.Info("manager root initialized")
	})
}

func (r *Root) Inited() bool {
	return r.guard.Inited()
}

// Register initializes each manager in order. A manager already registered
// is skipped.
func (r *Root) Register(managers ...Manager) {
	r.Init()
	for _, m := range managers {
		if m == nil || r.registered(m) {
			continue
		}
		r.managers = append(r.managers, m)
		m.Init(r)
	}
}

func (r *Root) registered(m Manager) bool {
	for _, existing := range r.managers {
		if existing == m {
			return true
		}
	}
	return false
}

func (r *Root) Scheduler() *Scheduler {
	r.Init()
	return r.scheduler
}

// Frame returns the number of completed ticks.
func (r *Root) Frame() uint64 {
	return r.frame
}

// Tick runs one frame across all channels.
func (r *Root) Tick(dt float64) {
	r.Scheduler().Tick(dt)
	r.frame++
}
