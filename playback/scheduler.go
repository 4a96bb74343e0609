package playback

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/milk9111/spriteanim/sprite"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSpeed sets the initial speed scale.
func WithSpeed(scale float64) Option {
	return func(s *Scheduler) { s.st.SpeedScale = ClampSpeed(scale) }
}

// WithDirection sets the initial direction.
func WithDirection(dir Direction) Option {
	return func(s *Scheduler) { s.st.Direction = dir }
}

// WithLoop forces every animation to loop (or not) regardless of its meta.
func WithLoop(loop bool) Option {
	return func(s *Scheduler) { s.loop = &loop }
}

// WithDocument sets the initial document.
func WithDocument(doc *sprite.Document) Option {
	return func(s *Scheduler) { s.doc.Store(doc) }
}

// Scheduler plays one animation of a document against a Clock. All methods
// are safe for concurrent use; event handlers run without the scheduler lock
// held and may call back into it.
type Scheduler struct {
	clock Clock
	doc   atomic.Pointer[sprite.Document]
	bus   Bus

	mu        sync.Mutex
	st        State
	loop      *bool
	finished  bool
	handle    Handle
	gen       uint64
	lastTick  time.Time
	lastFrame int
	closed    bool
	events    eventQueue

	// wantPlaying is restored into st.Playing once a forced frame is
	// cleared. st.Playing stays false while a frame is forced.
	wantPlaying bool
}

// New creates a scheduler. A nil clock means a FrameClock at the default
// interval.
func New(clock Clock, opts ...Option) *Scheduler {
	if clock == nil {
		clock = NewFrameClock(0)
	}
	s := &Scheduler{
		clock:     clock,
		st:        State{SpeedScale: DefaultSpeed},
		lastFrame: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if doc := s.doc.Load(); doc != nil {
		s.mu.Lock()
		s.syncDocument(doc)
		s.mu.Unlock()
		s.flush()
	}
	return s
}

// Subscribe registers h for events of type evt.
func (s *Scheduler) Subscribe(evt EventType, h Handler) func() {
	return s.bus.Subscribe(evt, h)
}

// Document returns the document playback reads from.
func (s *Scheduler) Document() *sprite.Document {
	return s.doc.Load()
}

// SetDocument swaps the document. The current animation keeps its position
// unless its sequence changed. With no animation chosen yet, the document's
// autoplay animation is selected and started.
func (s *Scheduler) SetDocument(doc *sprite.Document) {
	s.doc.Store(doc)
	s.mu.Lock()
	s.syncDocument(doc)
	s.mu.Unlock()
	s.flush()
}

func (s *Scheduler) syncDocument(doc *sprite.Document) {
	if s.closed {
		return
	}
	if s.st.ForcedFrame != nil && (doc == nil || *s.st.ForcedFrame >= len(doc.Frames)) {
		s.unforce()
	}
	if s.st.Animation == "" && doc != nil && doc.AutoPlay != "" {
		s.switchAnimation(doc.AutoPlay)
		s.play()
		return
	}
	if s.st.Animation != "" {
		seq := sequenceOf(doc, s.st.Animation)
		if !slices.Equal(seq, s.st.ForwardSequence()) {
			s.reset(seq)
		}
	}
	s.noteFrame()
}

// SetAnimation selects the animation to play. Selecting a different name, or
// the same name whose sequence has changed, resets the cursor. Whether
// playback is running is preserved.
func (s *Scheduler) SetAnimation(name string) {
	s.mu.Lock()
	if !s.closed {
		s.switchAnimation(name)
	}
	s.mu.Unlock()
	s.flush()
}

func (s *Scheduler) switchAnimation(name string) {
	seq := sequenceOf(s.doc.Load(), name)
	if name == s.st.Animation && slices.Equal(seq, s.st.ForwardSequence()) {
		return
	}
	if name != s.st.Animation {
		s.lastFrame = -1
	}
	s.st.Animation = name
	s.reset(seq)
}

// reset installs seq as the forward sequence and rewinds.
func (s *Scheduler) reset(seq []int) {
	s.cancel()
	s.st.Sequence = applyDirection(seq, s.st.Direction)
	s.st.Cursor = 0
	s.st.AccumulatedMs = 0
	s.finished = false
	if len(s.st.Sequence) == 0 {
		s.st.Playing = false
		s.wantPlaying = false
	}
	if s.st.Playing {
		s.arm()
	}
	s.noteFrame()
}

// Play starts or resumes playback. A one-shot animation that already
// finished restarts from the beginning. Play reports whether playback runs.
func (s *Scheduler) Play() bool {
	s.mu.Lock()
	ok := !s.closed && s.play()
	s.mu.Unlock()
	s.flush()
	return ok
}

func (s *Scheduler) play() bool {
	if len(s.st.Sequence) == 0 || s.st.Animation == "" {
		return false
	}
	if s.st.Playing {
		return true
	}
	if s.st.ForcedFrame != nil {
		s.wantPlaying = true
		return true
	}
	if s.finished {
		s.st.Cursor = 0
		s.st.AccumulatedMs = 0
		s.finished = false
		s.noteFrame()
	}
	s.st.Playing = true
	s.arm()
	return true
}

// Pause stops advancing but keeps the position.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	s.st.Playing = false
	s.wantPlaying = false
	s.cancel()
	s.mu.Unlock()
}

// Stop halts playback and rewinds to the first entry.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.closed {
		wasActive := s.st.Playing || s.wantPlaying || s.st.Cursor != 0 || s.st.AccumulatedMs != 0
		s.st.Playing = false
		s.wantPlaying = false
		s.st.Cursor = 0
		s.st.AccumulatedMs = 0
		s.finished = false
		s.cancel()
		if wasActive {
			s.events.push(s.event(EventHalted))
		}
		s.noteFrame()
	}
	s.mu.Unlock()
	s.flush()
}

// Seek moves to a position in the forward sequence, clamped to its bounds.
func (s *Scheduler) Seek(cursor int) {
	s.mu.Lock()
	if n := len(s.st.Sequence); n > 0 && !s.closed {
		cursor = max(0, min(cursor, n-1))
		s.st.Cursor = s.st.forward(cursor)
		s.st.AccumulatedMs = 0
		s.finished = false
		s.noteFrame()
	}
	s.mu.Unlock()
	s.flush()
}

// SetSpeed changes the speed scale. It is clamped to [MinSpeed, MaxSpeed].
func (s *Scheduler) SetSpeed(scale float64) {
	s.mu.Lock()
	s.st.SpeedScale = ClampSpeed(scale)
	s.mu.Unlock()
}

// SetDirection changes the play direction. The sequence is replaced by its
// reverse, so the cursor resets.
func (s *Scheduler) SetDirection(dir Direction) {
	s.mu.Lock()
	if dir != s.st.Direction && !s.closed {
		seq := s.st.ForwardSequence()
		s.st.Direction = dir
		s.reset(seq)
	}
	s.mu.Unlock()
	s.flush()
}

// SetForcedFrame pins the displayed frame to a frame-array position,
// overriding the sequence until cleared. Playback stops while a frame is
// forced; Play and Pause only record whether it should resume afterwards.
// Out-of-range positions are ignored.
func (s *Scheduler) SetForcedFrame(frameIndex int) bool {
	doc := s.doc.Load()
	if doc == nil || frameIndex < 0 || frameIndex >= len(doc.Frames) {
		return false
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.st.ForcedFrame == nil {
		s.wantPlaying = s.st.Playing
	}
	s.st.ForcedFrame = &frameIndex
	s.st.Playing = false
	s.cancel()
	s.noteFrame()
	s.mu.Unlock()
	s.flush()
	return true
}

// ClearForcedFrame returns to sequence playback, resuming it if it was
// running when the frame was forced or Play was called since.
func (s *Scheduler) ClearForcedFrame() {
	s.mu.Lock()
	if s.st.ForcedFrame != nil && !s.closed {
		s.unforce()
		s.noteFrame()
	}
	s.mu.Unlock()
	s.flush()
}

func (s *Scheduler) unforce() {
	s.st.ForcedFrame = nil
	if s.wantPlaying {
		s.wantPlaying = false
		s.play()
	}
}

// Tick advances playback by deltaMs. Hosts driving their own loop can call
// it directly instead of relying on the clock.
func (s *Scheduler) Tick(deltaMs float64) StepResult {
	s.mu.Lock()
	res := s.advance(deltaMs)
	s.mu.Unlock()
	s.flush()
	return res
}

func (s *Scheduler) advance(deltaMs float64) StepResult {
	if s.closed {
		return StepResult{}
	}
	t := TimingFor(s.doc.Load(), s.st.Animation, s.loop)
	next, res := Step(s.st, t, deltaMs)
	s.st = next
	if res.Finished {
		s.finished = true
		s.cancel()
	}
	s.noteFrame()
	if res.Finished {
		s.events.push(s.event(EventFinished))
		s.events.push(s.event(EventHalted))
	}
	return res
}

// State returns a copy of the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// FrameIndex is the frame-array position currently shown, or -1.
func (s *Scheduler) FrameIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FrameIndex()
}

// Close cancels any pending tick. The scheduler ignores further commands.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.st.Playing = false
	s.wantPlaying = false
	s.cancel()
	s.mu.Unlock()
}

func (s *Scheduler) arm() {
	s.cancel()
	s.gen++
	gen := s.gen
	s.lastTick = s.clock.Now()
	s.handle = s.clock.Schedule(func(now time.Time) { s.onClock(gen, now) })
}

func (s *Scheduler) cancel() {
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.gen++
}

func (s *Scheduler) onClock(gen uint64, now time.Time) {
	s.mu.Lock()
	if gen != s.gen || s.closed || !s.st.Playing {
		s.mu.Unlock()
		return
	}
	delta := float64(now.Sub(s.lastTick)) / float64(time.Millisecond)
	s.lastTick = now
	s.handle = nil
	s.advance(delta)
	if s.st.Playing {
		next := s.gen
		s.handle = s.clock.Schedule(func(now time.Time) { s.onClock(next, now) })
	}
	s.mu.Unlock()
	s.flush()
}

// noteFrame queues a frame change when the shown frame index differs from
// the last one announced.
func (s *Scheduler) noteFrame() {
	fi := s.st.FrameIndex()
	if fi == s.lastFrame {
		return
	}
	s.lastFrame = fi
	s.events.push(s.event(EventFrameChanged))
}

func (s *Scheduler) event(t EventType) Event {
	return Event{
		Type:       t,
		Animation:  s.st.Animation,
		Cursor:     s.st.ForwardCursor(),
		FrameIndex: s.st.FrameIndex(),
	}
}

// flush emits queued events. It must be called without s.mu held.
func (s *Scheduler) flush() {
	s.mu.Lock()
	evts := s.events.drain()
	s.mu.Unlock()
	for _, evt := range evts {
		s.bus.Emit(evt)
	}
}

func sequenceOf(doc *sprite.Document, name string) []int {
	if doc == nil || name == "" {
		return nil
	}
	seq, ok := doc.Animations[name]
	if !ok {
		return nil
	}
	return seq.Filter(len(doc.Frames))
}
