package models

import "encoding/json"

// GlowQuality controls the rendering cost of the starfield glow effect.
type GlowQuality string

const (
	GlowNone   GlowQuality = "none"
	GlowLow    GlowQuality = "low"
	GlowMedium GlowQuality = "medium"
	GlowHigh   GlowQuality = "high"
)

// Valid reports whether the value is part of the glow quality enumeration.
func (q GlowQuality) Valid() bool {
	switch q {
	case GlowNone, GlowLow, GlowMedium, GlowHigh:
		return true
	}
	return false
}

// Settings is the single record of user-tunable visual and rendering
// options. It always exists; a default is synthesized when storage has none.
type Settings struct {
	DarkMode         bool        `json:"darkMode"`
	FogIntensity     int         `json:"fogIntensity"`
	NeonIntensity    int         `json:"neonIntensity"`
	StarCount        int         `json:"starCount"`
	AutoStars        bool        `json:"autoStars"`
	PerformanceMode  bool        `json:"performanceMode"`
	CustomFPS        int         `json:"customFPS"`
	GlowQuality      GlowQuality `json:"glowQuality"`
	EnableAnimations bool        `json:"enableAnimations"`
}

// DefaultSettings returns the startup defaults. Compact devices get a lower
// star count and performance mode pre-enabled.
func DefaultSettings(compact bool) Settings {
	starCount := 250
	if compact {
		starCount = 150
	}
	return Settings{
		DarkMode:         false,
		FogIntensity:     50,
		NeonIntensity:    70,
		StarCount:        starCount,
		AutoStars:        true,
		PerformanceMode:  compact,
		CustomFPS:        60,
		GlowQuality:      GlowHigh,
		EnableAnimations: true,
	}
}

// Clamp normalizes out-of-range values in place.
func (s *Settings) Clamp() {
	s.FogIntensity = clampInt(s.FogIntensity, 0, 100)
	s.NeonIntensity = clampInt(s.NeonIntensity, 0, 100)
	s.CustomFPS = clampInt(s.CustomFPS, 15, 60)
	if s.StarCount < 0 {
		s.StarCount = 0
	}
	if !s.GlowQuality.Valid() {
		s.GlowQuality = GlowHigh
	}
}

// Merge applies a partial settings document over the current record.
// Fields absent from the JSON keep their current values, which is what lets
// older backups restore cleanly after the settings schema grows.
func (s *Settings) Merge(partial []byte) error {
	if err := json.Unmarshal(partial, s); err != nil {
		return err
	}
	s.Clamp()
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
