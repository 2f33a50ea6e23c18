package portal

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Settings is the persisted editor configuration, one struct field per
// INI key. Unknown keys are ignored on load; missing keys fall back to
// defaults.
type Settings struct {
	General struct {
		// NumberOfUndos bounds the command history. Takes effect on
		// the next session.
		NumberOfUndos uint
		// MirrorAroundPixelCenter is loaded and saved with the other
		// keys; the rasterizer does not read it and always mirrors to
		// (W-1-x, H-1-y).
		MirrorAroundPixelCenter bool
	}
	NewDocument struct {
		Width               int
		Height              int
		PixelSize           int
		Layers              int
		FirstLayerFillColor Color
	}
	Animation struct {
		FPS         int
		TotalFrames int
		// Key insertion behaviors; see KeyOptions.
		KeyMoveToNext     bool
		KeyHideCurrent    bool
		KeyDuplicate      bool
		KeyInsertNewLayer bool
	}
	AI struct {
		LastPrompt string
	}
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.General.NumberOfUndos = DefaultHistoryLimit
	s.NewDocument.Width = 64
	s.NewDocument.Height = 64
	s.NewDocument.PixelSize = 8
	s.NewDocument.Layers = 1
	s.NewDocument.FirstLayerFillColor = Transparent
	s.Animation.FPS = 8
	s.Animation.TotalFrames = 8
	s.Animation.KeyDuplicate = true
	return s
}

// KeyOptions converts the animation behaviors into frame manager key
// options.
func (s *Settings) KeyOptions() KeyOptions {
	return KeyOptions{
		MoveToNext:     s.Animation.KeyMoveToNext,
		HideCurrent:    s.Animation.KeyHideCurrent,
		Duplicate:      s.Animation.KeyDuplicate,
		InsertNewLayer: s.Animation.KeyInsertNewLayer,
	}
}

// LoadSettings reads an INI settings file. A missing or malformed file
// is reported as an error, returned together with the defaults.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	cfg, err := ini.Load(path)
	if err != nil {
		return s, fmt.Errorf("load settings %q: %w", path, err)
	}

	gen := cfg.Section("General")
	s.General.NumberOfUndos = gen.Key("number_of_undos").MustUint(s.General.NumberOfUndos)
	s.General.MirrorAroundPixelCenter = gen.Key("mirror_around_pixel_center").MustBool(s.General.MirrorAroundPixelCenter)

	nd := cfg.Section("New Document")
	s.NewDocument.Width = nd.Key("width").MustInt(s.NewDocument.Width)
	s.NewDocument.Height = nd.Key("height").MustInt(s.NewDocument.Height)
	s.NewDocument.PixelSize = nd.Key("pixel_size").MustInt(s.NewDocument.PixelSize)
	s.NewDocument.Layers = nd.Key("layers").MustInt(s.NewDocument.Layers)
	if v := nd.Key("first_layer_fill_color").String(); v != "" {
		s.NewDocument.FirstLayerFillColor = Hex(v)
	}

	anim := cfg.Section("Animation")
	s.Animation.FPS = anim.Key("fps").MustInt(s.Animation.FPS)
	s.Animation.TotalFrames = anim.Key("total_frames").MustInt(s.Animation.TotalFrames)
	s.Animation.KeyMoveToNext = anim.Key("move_to_next").MustBool(s.Animation.KeyMoveToNext)
	s.Animation.KeyHideCurrent = anim.Key("hide_current").MustBool(s.Animation.KeyHideCurrent)
	s.Animation.KeyDuplicate = anim.Key("duplicate").MustBool(s.Animation.KeyDuplicate)
	s.Animation.KeyInsertNewLayer = anim.Key("insert_new_layer").MustBool(s.Animation.KeyInsertNewLayer)

	s.AI.LastPrompt = cfg.Section("AI").Key("last_prompt").MustString(s.AI.LastPrompt)
	return s, nil
}

// Save writes the settings as an INI file.
func (s *Settings) Save(path string) error {
	cfg := ini.Empty()

	gen := cfg.Section("General")
	gen.Key("number_of_undos").SetValue(fmt.Sprint(s.General.NumberOfUndos))
	gen.Key("mirror_around_pixel_center").SetValue(fmt.Sprint(s.General.MirrorAroundPixelCenter))

	nd := cfg.Section("New Document")
	nd.Key("width").SetValue(fmt.Sprint(s.NewDocument.Width))
	nd.Key("height").SetValue(fmt.Sprint(s.NewDocument.Height))
	nd.Key("pixel_size").SetValue(fmt.Sprint(s.NewDocument.PixelSize))
	nd.Key("layers").SetValue(fmt.Sprint(s.NewDocument.Layers))
	nd.Key("first_layer_fill_color").SetValue(s.NewDocument.FirstLayerFillColor.HexString())

	anim := cfg.Section("Animation")
	anim.Key("fps").SetValue(fmt.Sprint(s.Animation.FPS))
	anim.Key("total_frames").SetValue(fmt.Sprint(s.Animation.TotalFrames))
	anim.Key("move_to_next").SetValue(fmt.Sprint(s.Animation.KeyMoveToNext))
	anim.Key("hide_current").SetValue(fmt.Sprint(s.Animation.KeyHideCurrent))
	anim.Key("duplicate").SetValue(fmt.Sprint(s.Animation.KeyDuplicate))
	anim.Key("insert_new_layer").SetValue(fmt.Sprint(s.Animation.KeyInsertNewLayer))

	cfg.Section("AI").Key("last_prompt").SetValue(s.AI.LastPrompt)

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("save settings %q: %w", path, err)
	}
	return nil
}

// NewDocumentFromSettings creates a document using the New Document
// section: dimensions, layer count, and the first-layer fill color.
func NewDocumentFromSettings(s *Settings) *Document {
	w, h := s.NewDocument.Width, s.NewDocument.Height
	if w <= 0 {
		w = 64
	}
	if h <= 0 {
		h = 64
	}
	doc := NewDocument(w, h)
	stack := doc.Frames.Current().Layers
	if s.NewDocument.FirstLayerFillColor.A != 0 {
		stack.Active().Image.Clear(s.NewDocument.FirstLayerFillColor)
	}
	for i := 1; i < s.NewDocument.Layers; i++ {
		stack.Add(fmt.Sprintf("Layer %d", i+1))
	}
	doc.Frames.FPS = s.Animation.FPS
	doc.Frames.PlaybackTotal = s.Animation.TotalFrames
	return doc
}
