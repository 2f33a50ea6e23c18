package portal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSettingsRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.General.NumberOfUndos = 40
	s.General.MirrorAroundPixelCenter = true
	s.NewDocument.Width = 128
	s.NewDocument.Height = 96
	s.NewDocument.PixelSize = 4
	s.NewDocument.Layers = 3
	s.NewDocument.FirstLayerFillColor = Color{10, 20, 30, 255}
	s.Animation.FPS = 24
	s.Animation.TotalFrames = 48
	s.Animation.KeyMoveToNext = true
	s.Animation.KeyInsertNewLayer = true
	s.AI.LastPrompt = "tiny knight, pixel art"

	path := filepath.Join(t.TempDir(), "settings.ini")
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("settings round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsMissingFileYieldsDefaults(t *testing.T) {
	got, err := LoadSettings(filepath.Join(t.TempDir(), "absent.ini"))
	if err == nil {
		t.Error("expected an error for a missing file")
	}
	if diff := cmp.Diff(DefaultSettings(), got); diff != "" {
		t.Errorf("fallback settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	content := "[General]\nnumber_of_undos = 7\n\n[AI]\nlast_prompt = slime\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.General.NumberOfUndos != 7 {
		t.Errorf("number_of_undos = %d, want 7", got.General.NumberOfUndos)
	}
	if got.AI.LastPrompt != "slime" {
		t.Errorf("last_prompt = %q, want slime", got.AI.LastPrompt)
	}
	// Untouched keys keep defaults.
	if got.NewDocument.Width != DefaultSettings().NewDocument.Width {
		t.Errorf("width = %d, want default", got.NewDocument.Width)
	}
}

func TestNewDocumentFromSettings(t *testing.T) {
	s := DefaultSettings()
	s.NewDocument.Width = 10
	s.NewDocument.Height = 12
	s.NewDocument.Layers = 2
	s.NewDocument.FirstLayerFillColor = White
	s.Animation.FPS = 6
	s.Animation.TotalFrames = 20

	doc := NewDocumentFromSettings(s)
	if doc.Width() != 10 || doc.Height() != 12 {
		t.Fatalf("dims = %dx%d, want 10x12", doc.Width(), doc.Height())
	}
	stack := doc.Frames.Current().Layers
	if stack.Len() != 2 {
		t.Fatalf("layer count = %d, want 2", stack.Len())
	}
	bottom, _ := stack.Layer(0)
	if got := bottom.Image.GetPixel(0, 0); got != White {
		t.Errorf("background pixel = %v, want white fill", got)
	}
	if doc.Frames.FPS != 6 || doc.Frames.PlaybackTotal != 20 {
		t.Errorf("playback = (%d, %d), want (6, 20)", doc.Frames.FPS, doc.Frames.PlaybackTotal)
	}
}
