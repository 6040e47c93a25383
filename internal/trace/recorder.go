package trace

import (
	"sync"
	"time"
)

// Timeline is the recorded history of one container instance
type Timeline struct {
	Instance  string
	Container string
	StartTime time.Time
	EndTime   time.Time
	Events    []Event
	Status    string // "live" or "destroyed"
}

// Recorder keeps recent timelines in memory. Safe for concurrent use.
type Recorder struct {
	mu           sync.RWMutex
	timelines    map[string]*Timeline // instance -> Timeline
	recentIDs    []string             // Ring buffer of recent instance IDs
	maxTimelines int                  // Max timelines to keep (default 10)
	maxEvents    int                  // Max events per timeline (default 100)
	onChange     func()               // Callback when a timeline changes
}

var _ Sink = (*Recorder)(nil)

// NewRecorder creates a recorder. Non-positive limits use the defaults.
func NewRecorder(maxTimelines, maxEvents int) *Recorder {
	if maxTimelines <= 0 {
		maxTimelines = 10
	}
	if maxEvents <= 0 {
		maxEvents = 100
	}
	return &Recorder{
		timelines:    make(map[string]*Timeline),
		recentIDs:    make([]string, 0, maxTimelines),
		maxTimelines: maxTimelines,
		maxEvents:    maxEvents,
	}
}

// Emit records an event on its instance's timeline.
func (r *Recorder) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	r.mu.Lock()
	tl, exists := r.timelines[ev.Instance]
	if !exists {
		tl = &Timeline{
			Instance:  ev.Instance,
			Container: ev.Container,
			StartTime: ev.Timestamp,
			Status:    "live",
		}
		r.timelines[ev.Instance] = tl
	}
	r.addToRecentIDs(ev.Instance)

	tl.Events = append(tl.Events, copyEvent(ev))
	if len(tl.Events) > r.maxEvents {
		// Drop oldest events, keep the tail
		tl.Events = append([]Event(nil), tl.Events[len(tl.Events)-r.maxEvents:]...)
	}
	if ev.Type == EventDestroy {
		tl.Status = "destroyed"
		tl.EndTime = ev.Timestamp
	}
	onChange := r.onChange
	r.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func copyEvent(ev Event) Event {
	if ev.Attributes == nil {
		return ev
	}
	attrs := make(map[string]string, len(ev.Attributes))
	for k, v := range ev.Attributes {
		attrs[k] = v
	}
	ev.Attributes = attrs
	return ev
}

// addToRecentIDs moves id to the end of the recent list, evicting old ones if needed
// Must be called with r.mu held
func (r *Recorder) addToRecentIDs(id string) {
	for i, existing := range r.recentIDs {
		if existing == id {
			r.recentIDs = append(append(r.recentIDs[:i], r.recentIDs[i+1:]...), id)
			return
		}
	}

	r.recentIDs = append(r.recentIDs, id)

	if len(r.recentIDs) > r.maxTimelines {
		oldestID := r.recentIDs[0]
		r.recentIDs = r.recentIDs[1:]
		delete(r.timelines, oldestID)
	}
}

// Timeline returns a copy of the timeline for an instance, or nil.
func (r *Recorder) Timeline(instance string) *Timeline {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tl, ok := r.timelines[instance]
	if !ok {
		return nil
	}
	return cloneTimeline(tl)
}

// Recent returns copies of recent timelines (most recently active first)
func (r *Recorder) Recent() []*Timeline {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Timeline, 0, len(r.recentIDs))
	for i := len(r.recentIDs) - 1; i >= 0; i-- {
		if tl, exists := r.timelines[r.recentIDs[i]]; exists {
			result = append(result, cloneTimeline(tl))
		}
	}
	return result
}

// ForContainer returns copies of the timelines recorded for a container identity,
// most recently active first.
func (r *Recorder) ForContainer(identity string) []*Timeline {
	var out []*Timeline
	for _, tl := range r.Recent() {
		if tl.Container == identity {
			out = append(out, tl)
		}
	}
	return out
}

func cloneTimeline(tl *Timeline) *Timeline {
	out := *tl
	out.Events = make([]Event, len(tl.Events))
	copy(out.Events, tl.Events)
	return &out
}

// SetOnChange sets callback for timeline changes (thread-safe).
// The callback runs outside the recorder lock.
func (r *Recorder) SetOnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}
