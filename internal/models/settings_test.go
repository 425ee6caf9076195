package models

import "testing"

func TestDefaultSettings(t *testing.T) {
	desktop := DefaultSettings(false)
	if desktop.StarCount != 250 || desktop.PerformanceMode {
		t.Errorf("desktop defaults = %+v", desktop)
	}
	if desktop.FogIntensity != 50 || desktop.NeonIntensity != 70 {
		t.Errorf("intensity defaults = %+v", desktop)
	}
	if desktop.CustomFPS != 60 || desktop.GlowQuality != GlowHigh {
		t.Errorf("rendering defaults = %+v", desktop)
	}
	if !desktop.AutoStars || !desktop.EnableAnimations {
		t.Errorf("flag defaults = %+v", desktop)
	}

	compact := DefaultSettings(true)
	if compact.StarCount != 150 {
		t.Errorf("compact StarCount = %d, want 150", compact.StarCount)
	}
	if !compact.PerformanceMode {
		t.Error("compact devices should default to performance mode")
	}
}

func TestSettings_Clamp(t *testing.T) {
	s := Settings{
		FogIntensity:  150,
		NeonIntensity: -5,
		StarCount:     -1,
		CustomFPS:     5,
		GlowQuality:   "ultra",
	}
	s.Clamp()

	if s.FogIntensity != 100 || s.NeonIntensity != 0 {
		t.Errorf("intensity clamp = %+v", s)
	}
	if s.StarCount != 0 {
		t.Errorf("StarCount = %d, want 0", s.StarCount)
	}
	if s.CustomFPS != 15 {
		t.Errorf("CustomFPS = %d, want 15", s.CustomFPS)
	}
	if s.GlowQuality != GlowHigh {
		t.Errorf("GlowQuality = %q, want fallback to high", s.GlowQuality)
	}
}

func TestSettings_Merge_partialKeepsDefaults(t *testing.T) {
	s := DefaultSettings(false)

	// A backup written before customFPS existed.
	err := s.Merge([]byte(`{"fogIntensity": 20, "darkMode": true}`))
	if err != nil {
		t.Fatalf("Merge error = %v", err)
	}

	if s.FogIntensity != 20 || !s.DarkMode {
		t.Errorf("merged fields = %+v", s)
	}
	if s.CustomFPS != 60 {
		t.Errorf("CustomFPS = %d, absent fields must keep defaults", s.CustomFPS)
	}
	if s.GlowQuality != GlowHigh {
		t.Errorf("GlowQuality = %q, absent fields must keep defaults", s.GlowQuality)
	}
}

func TestSettings_Merge_invalidJSON(t *testing.T) {
	s := DefaultSettings(false)
	if err := s.Merge([]byte("not json")); err == nil {
		t.Error("Merge should reject malformed input")
	}
}
