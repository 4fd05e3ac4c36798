package anim

import (
	"errors"
	"fmt"

	"github.com/milk9111/dragon/common"
	"github.com/milk9111/dragon/manager"
	"github.com/milk9111/dragon/prefabs"
)

var ErrUnknownClip = errors.New("anim: unknown clip")

// EventType identifies a playback notification.
type EventType string

const (
	EventFadeInComplete  EventType = "fade_in_complete"
	EventFadeOutComplete EventType = "fade_out_complete"
	EventComplete        EventType = "complete"
)

// Event is raised by LateUpdate after a state crosses a fade or play
// boundary.
type Event struct {
	Type  EventType
	Clip  string
	State *State
}

// Clip is a named animation. PlayTimes 0 loops forever.
type Clip struct {
	Name      string
	Duration  float64
	FadeIn    float64
	PlayTimes int
}

func ClipsFromSpec(spec prefabs.AnimationSpec) []Clip {
	clips := make([]Clip, 0, len(spec.Clips))
	for _, c := range spec.Clips {
		clips = append(clips, Clip{Name: c.Name, Duration: c.Duration, FadeIn: c.FadeIn, PlayTimes: c.PlayTimes})
	}
	return clips
}

// State is one playing instance of a clip.
type State struct {
	Name      string
	TimeScale float64
	Weight    float64
	Time      float64
	PlayTimes int
	Plays     int

	duration   float64
	fade       float64
	fadeTime   float64
	fadingOut  bool
	fadeInDone bool
	completed  bool
}

func (s *State) FadingOut() bool { return s.fadingOut }
func (s *State) Completed() bool { return s.completed }

// Progress is the playhead position within the current play, 0..1.
func (s *State) Progress() float64 {
	if s.duration <= 0 {
		return 0
	}
	return common.Clamp(s.Time/s.duration, 0, 1)
}

// Animator plays one clip at a time, crossfading from the previous one.
type Animator struct {
	guard     manager.Guard
	clips     map[string]Clip
	current   *State
	fading    []*State
	listeners common.Listeners[Event]
}

func NewAnimator(clips []Clip) *Animator {
	a := &Animator{clips: make(map[string]Clip, len(clips))}
	for _, c := range clips {
		a.clips[c.Name] = c
	}
	return a
}

// Init opts the animator into the late channel so playback advances after
// gameplay has picked this frame's cues.
func (a *Animator) Init(root *manager.Root) {
	a.guard.Do(func() {
		root.Scheduler().SetLateUpdating(a, true)
	})
}

func (a *Animator) HasClip(name string) bool {
	_, ok := a.clips[name]
	return ok
}

// FadeIn starts clip name. A negative fadeIn or playTimes uses the clip's
// default. The previous clip fades out over the same time.
func (a *Animator) FadeIn(name string, fadeIn float64, playTimes int) (*State, error) {
	clip, ok := a.clips[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	if fadeIn < 0 {
		fadeIn = clip.FadeIn
	}
	if playTimes < 0 {
		playTimes = clip.PlayTimes
	}

	if prev := a.current; prev != nil {
		prev.fadingOut = true
		prev.fade = fadeIn
		prev.fadeTime = 0
		a.fading = append(a.fading, prev)
	}

	s := &State{
		Name:      name,
		TimeScale: 1,
		PlayTimes: playTimes,
		duration:  clip.Duration,
		fade:      fadeIn,
	}
	if fadeIn <= 0 {
		s.Weight = 1
	}
	a.current = s
	return s, nil
}

// Current is the most recently started state, or nil before the first FadeIn.
func (a *Animator) Current() *State {
	return a.current
}

// CurrentName is the name of the current clip, or "".
func (a *Animator) CurrentName() string {
	if a.current == nil {
		return ""
	}
	return a.current.Name
}

func (a *Animator) AddListener(fn func(Event)) common.ListenerID {
	return a.listeners.Add(fn)
}

func (a *Animator) RemoveListener(id common.ListenerID) {
	a.listeners.Remove(id)
}

// LateUpdate advances fades and playheads, then raises the events collected
// during the step. Listeners may start new clips from their callbacks.
func (a *Animator) LateUpdate(dt float64) {
	var events []Event

	if s := a.current; s != nil {
		if !s.fadeInDone {
			s.fadeTime += dt
			if s.fadeTime >= s.fade {
				s.Weight = 1
				s.fadeInDone = true
				events = append(events, Event{Type: EventFadeInComplete, Clip: s.Name, State: s})
			} else {
				s.Weight = s.fadeTime / s.fade
			}
		}
		if s.advance(dt) {
			events = append(events, Event{Type: EventComplete, Clip: s.Name, State: s})
		}
	}

	remaining := a.fading[:0]
	for _, s := range a.fading {
		s.fadeTime += dt
		if s.fadeTime >= s.fade {
			s.Weight = 0
			events = append(events, Event{Type: EventFadeOutComplete, Clip: s.Name, State: s})
			continue
		}
		s.Weight = 1 - s.fadeTime/s.fade
		remaining = append(remaining, s)
	}
	a.fading = remaining

	for _, evt := range events {
		a.listeners.Emit(evt)
	}
}

// advance moves the playhead and reports whether the state just completed.
func (s *State) advance(dt float64) bool {
	if s.completed || s.duration <= 0 {
		return false
	}
	s.Time += dt * s.TimeScale
	for s.Time >= s.duration {
		if s.PlayTimes > 0 && s.Plays+1 >= s.PlayTimes {
			s.Plays = s.PlayTimes
			s.Time = s.duration
			s.completed = true
			return true
		}
		s.Time -= s.duration
		s.Plays++
	}
	return false
}
