package portal

// Player is a pure playback stepper over the document timeline. The
// host owns the clock: it calls Advance once per tick at the frame
// manager's FPS and renders the returned playback index. The player
// itself never touches a timer and never mutates the document.
type Player struct {
	frames *FrameManager

	playing bool
	index   int

	// FrameChanged fires with the new playback index after each
	// Advance or Seek.
	FrameChanged Signal[int]
}

// NewPlayer creates a stopped player at playback index 0.
func NewPlayer(frames *FrameManager) *Player {
	return &Player{frames: frames}
}

// Playing reports whether the player is running.
func (p *Player) Playing() bool { return p.playing }

// Index returns the current playback index.
func (p *Player) Index() int { return p.index }

// Play starts playback from the current index.
func (p *Player) Play() { p.playing = true }

// Stop halts playback and rewinds to index 0.
func (p *Player) Stop() {
	p.playing = false
	p.Seek(0)
}

// Pause halts playback without rewinding.
func (p *Player) Pause() { p.playing = false }

// Seek jumps to a playback index, wrapped into the timeline.
func (p *Player) Seek(i int) {
	total := p.frames.PlaybackTotal
	if total < 1 {
		total = 1
	}
	p.index = ((i % total) + total) % total
	p.FrameChanged.Emit(p.index)
}

// Advance steps to the next playback index, wrapping at the timeline
// end, and returns the frame index resolved for it. No-op while
// stopped.
func (p *Player) Advance() int {
	if p.playing {
		p.Seek(p.index + 1)
	}
	return p.frames.Resolve(p.index)
}
