// Package plan holds the declarative description of a short video: the
// ordered scene list submitted by the front end, the render settings that
// apply to the whole video, and the edit-plan translation built from them.
package plan

import "strings"

// Default values applied to scenes that omit optional fields.
const (
	DefaultSceneDuration      = 5.0
	DefaultTransitionType     = "cut"
	DefaultTransitionDuration = 0.5
	DefaultMediaType          = "image"
	DefaultAudioVolume        = 1.0
	DefaultMusicVolume        = 0.5
)

// MediaItem is a visual asset reference within a scene.
type MediaItem struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"` // "image" or "video"
}

// Scene is one ordered unit of the target video. Order within the request
// is significant and preserved through the whole pipeline.
type Scene struct {
	Script             string      `json:"script,omitempty"`
	Duration           float64     `json:"duration,omitempty"` // seconds
	Media              []MediaItem `json:"media,omitempty"`
	AudioURL           string      `json:"audio_url,omitempty"` // narration
	AudioVolume        float64     `json:"audio_volume,omitempty"`
	TransitionType     string      `json:"transition_type,omitempty"`
	TransitionDuration float64     `json:"transition_duration,omitempty"`
}

// Visual returns the scene's visual asset reference. A scene without one is
// degenerate: the pipeline skips it rather than failing the whole job.
func (s Scene) Visual() (MediaItem, bool) {
	for _, m := range s.Media {
		if strings.TrimSpace(m.URL) != "" {
			return m, true
		}
	}
	return MediaItem{}, false
}

// HasNarration reports whether the scene carries a narration asset reference.
func (s Scene) HasNarration() bool {
	return strings.TrimSpace(s.AudioURL) != ""
}

// SoundEffect is a globally positioned audio effect.
type SoundEffect struct {
	URL         string  `json:"url"`
	Description string  `json:"description,omitempty"`
	Volume      float64 `json:"volume,omitempty"`
	StartTime   float64 `json:"start_time,omitempty"` // seconds from video start
}

// RenderSettings are the video-wide options of a request. Background music
// and sound effects are carried through the plan but not yet mixed into the
// output; they are pipeline extension points.
type RenderSettings struct {
	VideoDuration         float64       `json:"video_duration,omitempty"`
	Language              string        `json:"language,omitempty"`
	Niche                 string        `json:"niche,omitempty"`
	Resolution            string        `json:"resolution,omitempty"`
	InputType             string        `json:"input_type,omitempty"`
	AIEnhancements        bool          `json:"ai_enhancements,omitempty"`
	BackgroundMusicURL    string        `json:"background_music_url,omitempty"`
	BackgroundMusicVolume float64       `json:"background_music_volume,omitempty"`
	SoundEffects          []SoundEffect `json:"sound_effects,omitempty"`
}

// Request is the inbound render request body.
type Request struct {
	Scenes         []Scene        `json:"scenes"`
	RenderSettings RenderSettings `json:"renderSettings"`
}

// Normalize fills the defaults the front end is allowed to omit. It returns
// the receiver's scenes in place; call it once at submission time.
func (r *Request) Normalize() {
	for i := range r.Scenes {
		s := &r.Scenes[i]
		if s.Duration <= 0 {
			s.Duration = DefaultSceneDuration
		}
		if s.AudioVolume <= 0 {
			s.AudioVolume = DefaultAudioVolume
		}
		if strings.TrimSpace(s.TransitionType) == "" {
			s.TransitionType = DefaultTransitionType
		}
		if s.TransitionDuration <= 0 {
			s.TransitionDuration = DefaultTransitionDuration
		}
		for j := range s.Media {
			if strings.TrimSpace(s.Media[j].Type) == "" {
				s.Media[j].Type = DefaultMediaType
			}
		}
	}
	if r.RenderSettings.BackgroundMusicURL != "" && r.RenderSettings.BackgroundMusicVolume <= 0 {
		r.RenderSettings.BackgroundMusicVolume = DefaultMusicVolume
	}
	for i := range r.RenderSettings.SoundEffects {
		if r.RenderSettings.SoundEffects[i].Volume <= 0 {
			r.RenderSettings.SoundEffects[i].Volume = DefaultAudioVolume
		}
	}
}

// RenderableScenes counts the scenes that carry a visual asset reference.
func RenderableScenes(scenes []Scene) int {
	n := 0
	for _, s := range scenes {
		if _, ok := s.Visual(); ok {
			n++
		}
	}
	return n
}

// TotalDuration sums the nominal scene durations in seconds.
func TotalDuration(scenes []Scene) float64 {
	total := 0.0
	for _, s := range scenes {
		total += s.Duration
	}
	return total
}
