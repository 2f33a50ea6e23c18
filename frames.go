package portal

import (
	"fmt"
	"sort"
)

// KeyOptions configures what happens to the frame when a key is
// inserted, mirroring the Animation settings section. When both
// Duplicate and InsertNewLayer are set, the content is duplicated
// first and the new layer goes on top of the copy.
type KeyOptions struct {
	// Duplicate copies the content of the frame currently resolved at
	// the keyed index into the new key frame.
	Duplicate bool
	// HideCurrent hides the previously active layer of the new key
	// frame.
	HideCurrent bool
	// InsertNewLayer adds a fresh transparent layer on top of the new
	// key frame.
	InsertNewLayer bool
	// MoveToNext makes the keyed frame the current editing target.
	MoveToNext bool
}

// FrameManager stores the ordered frame list and the keyed-frame set,
// and resolves playback indices to keyed frames.
//
// Invariants: at least one frame exists, index 0 is always keyed, and
// every key k satisfies k < len(frames).
type FrameManager struct {
	width  int
	height int
	frames []*Frame
	keys   map[int]struct{}

	current int // current editing frame index

	// FPS is the playback rate in frames per second.
	FPS int
	// PlaybackTotal is the number of timeline slots; playback indices
	// range over [0, PlaybackTotal).
	PlaybackTotal int

	// KeyChanged fires with the sorted key set after any key mutation.
	KeyChanged Signal[[]int]
}

// NewFrameManager creates a manager with a single keyed frame 0.
func NewFrameManager(width, height int) *FrameManager {
	return &FrameManager{
		width:         width,
		height:        height,
		frames:        []*Frame{NewFrame(width, height)},
		keys:          map[int]struct{}{0: {}},
		FPS:           8,
		PlaybackTotal: 8,
	}
}

// Len returns the number of frames.
func (m *FrameManager) Len() int { return len(m.frames) }

// Frame returns the frame at index i.
func (m *FrameManager) Frame(i int) (*Frame, error) {
	if i < 0 || i >= len(m.frames) {
		return nil, fmt.Errorf("frame %d of %d: %w", i, len(m.frames), ErrInvalidIndex)
	}
	return m.frames[i], nil
}

// Frames returns the frame slice. Callers must not modify it.
func (m *FrameManager) Frames() []*Frame { return m.frames }

// CurrentIndex returns the current editing frame index.
func (m *FrameManager) CurrentIndex() int { return m.current }

// SetCurrent changes the current editing frame index.
func (m *FrameManager) SetCurrent(i int) error {
	if i < 0 || i >= len(m.frames) {
		return fmt.Errorf("frame %d of %d: %w", i, len(m.frames), ErrInvalidIndex)
	}
	m.current = i
	return nil
}

// Current returns the frame resolved for the current editing index.
func (m *FrameManager) Current() *Frame {
	return m.frames[m.Resolve(m.current)]
}

// Keys returns the sorted keyed-frame indices.
func (m *FrameManager) Keys() []int {
	out := make([]int, 0, len(m.keys))
	for k := range m.keys {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// IsKey reports whether frame index i is keyed.
func (m *FrameManager) IsKey(i int) bool {
	_, ok := m.keys[i]
	return ok
}

// Resolve maps a playback index to the keyed frame index that is
// displayed for it: the largest key k ≤ p (the hold-last-key rule).
// Negative indices resolve to frame 0.
func (m *FrameManager) Resolve(p int) int {
	best := 0
	for k := range m.keys {
		if k <= p && k > best {
			best = k
		}
	}
	if best >= len(m.frames) {
		best = len(m.frames) - 1
	}
	return best
}

// ResolveFrame returns the frame displayed for playback index p.
func (m *FrameManager) ResolveFrame(p int) *Frame {
	return m.frames[m.Resolve(p)]
}

// growTo appends blank frames until index i exists.
func (m *FrameManager) growTo(i int) {
	for len(m.frames) <= i {
		m.frames = append(m.frames, NewFrame(m.width, m.height))
	}
}

// AddKey marks frame index i as keyed, growing the frame list as
// needed, and applies the configured key-insertion behaviors.
// Keying an already-keyed index only applies the MoveToNext behavior.
func (m *FrameManager) AddKey(i int, opts KeyOptions) error {
	if i < 0 {
		return fmt.Errorf("key %d: %w", i, ErrInvalidIndex)
	}
	m.growTo(i)

	if !m.IsKey(i) {
		if opts.Duplicate {
			m.frames[i] = m.frames[m.Resolve(i)].Clone()
		}
		m.keys[i] = struct{}{}
		frame := m.frames[i]
		prevActive := frame.Layers.ActiveIndex()
		if opts.InsertNewLayer {
			frame.Layers.Add(fmt.Sprintf("Layer %d", frame.Layers.Len()+1))
		}
		if opts.HideCurrent {
			if l, err := frame.Layers.Layer(prevActive); err == nil {
				l.SetVisible(false)
			}
		}
		m.KeyChanged.Emit(m.Keys())
	}
	if opts.MoveToNext {
		m.current = i
	}
	if i >= m.PlaybackTotal {
		m.PlaybackTotal = i + 1
	}
	return nil
}

// RemoveKey unmarks frame index i. Key 0 can never be removed; the
// next lower key takes over playback for the affected range.
func (m *FrameManager) RemoveKey(i int) error {
	if i == 0 {
		return fmt.Errorf("key 0: %w", ErrLastFrame)
	}
	if !m.IsKey(i) {
		return fmt.Errorf("key %d: %w", i, ErrInvalidIndex)
	}
	delete(m.keys, i)
	m.KeyChanged.Emit(m.Keys())
	return nil
}

// MoveKeys shifts the given keyed indices by delta. All targets must
// be ≥ 0 and must not collide with keys that are not being moved;
// on any conflict nothing moves and ErrKeyConflict is returned.
// Key 0 cannot be moved.
func (m *FrameManager) MoveKeys(indices []int, delta int) error {
	if delta == 0 || len(indices) == 0 {
		return nil
	}
	moving := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i == 0 {
			return fmt.Errorf("key 0: %w", ErrKeyConflict)
		}
		if !m.IsKey(i) {
			return fmt.Errorf("key %d: %w", i, ErrInvalidIndex)
		}
		moving[i] = struct{}{}
	}

	targets := make(map[int]struct{}, len(moving))
	for i := range moving {
		t := i + delta
		if t < 0 {
			return fmt.Errorf("key %d to %d: %w", i, t, ErrKeyConflict)
		}
		if _, dup := targets[t]; dup {
			return fmt.Errorf("key target %d duplicated: %w", t, ErrKeyConflict)
		}
		if _, moved := moving[t]; !moved && m.IsKey(t) {
			return fmt.Errorf("key %d to %d: %w", i, t, ErrKeyConflict)
		}
		targets[t] = struct{}{}
	}

	// All-or-nothing: relocate frames and keys together.
	movedFrames := make(map[int]*Frame, len(moving))
	for i := range moving {
		movedFrames[i+delta] = m.frames[i]
		m.frames[i] = NewFrame(m.width, m.height)
		delete(m.keys, i)
	}
	for t, f := range movedFrames {
		m.growTo(t)
		m.frames[t] = f
		m.keys[t] = struct{}{}
		if t >= m.PlaybackTotal {
			m.PlaybackTotal = t + 1
		}
	}
	m.KeyChanged.Emit(m.Keys())
	return nil
}

// InsertFrameAfter inserts a new frame after frameIndex holding a deep
// copy of the frame resolved just past the insert point, and shifts
// keys at or above the insert point up by one.
func (m *FrameManager) InsertFrameAfter(frameIndex int) error {
	if frameIndex < 0 || frameIndex >= len(m.frames) {
		return fmt.Errorf("frame %d of %d: %w", frameIndex, len(m.frames), ErrInvalidIndex)
	}
	at := frameIndex + 1
	src := m.frames[m.Resolve(minInt(at, len(m.frames)-1))]
	frame := src.Clone()

	m.frames = append(m.frames, nil)
	copy(m.frames[at+1:], m.frames[at:])
	m.frames[at] = frame

	keys := map[int]struct{}{}
	for k := range m.keys {
		if k >= at {
			keys[k+1] = struct{}{}
		} else {
			keys[k] = struct{}{}
		}
	}
	m.keys = keys
	if m.current >= at {
		m.current++
	}
	m.PlaybackTotal++
	m.KeyChanged.Emit(m.Keys())
	return nil
}

// DeleteFrame removes the frame at frameIndex. Frame 0 is never
// deletable. Keys above the removed index shift down; a key landing
// exactly on the removed frame is dropped.
func (m *FrameManager) DeleteFrame(frameIndex int) error {
	if frameIndex == 0 || len(m.frames) == 1 {
		return fmt.Errorf("frame %d: %w", frameIndex, ErrLastFrame)
	}
	if frameIndex < 0 || frameIndex >= len(m.frames) {
		return fmt.Errorf("frame %d of %d: %w", frameIndex, len(m.frames), ErrInvalidIndex)
	}
	m.frames = append(m.frames[:frameIndex], m.frames[frameIndex+1:]...)

	keys := map[int]struct{}{}
	for k := range m.keys {
		switch {
		case k < frameIndex:
			keys[k] = struct{}{}
		case k == frameIndex:
			// dropped with the frame
		default:
			keys[k-1] = struct{}{}
		}
	}
	keys[0] = struct{}{}
	m.keys = keys
	if m.current >= len(m.frames) {
		m.current = len(m.frames) - 1
	}
	m.KeyChanged.Emit(m.Keys())
	return nil
}

// Clone returns a deep copy of the manager and all frames.
func (m *FrameManager) Clone() *FrameManager {
	out := &FrameManager{
		width:         m.width,
		height:        m.height,
		keys:          map[int]struct{}{},
		current:       m.current,
		FPS:           m.FPS,
		PlaybackTotal: m.PlaybackTotal,
	}
	for _, f := range m.frames {
		out.frames = append(out.frames, f.Clone())
	}
	for k := range m.keys {
		out.keys[k] = struct{}{}
	}
	return out
}
