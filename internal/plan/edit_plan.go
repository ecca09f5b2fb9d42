package plan

import (
	"fmt"
	"strings"
)

// EditPlan is the structured editing-instruction document translated from a
// raw front-end request. It is a pure data transformation: no I/O, no state.
type EditPlan struct {
	ProjectSettings ProjectSettings `json:"project_settings"`
	MediaAssets     []MediaAsset    `json:"media_assets"`
	AudioTracks     AudioTracks     `json:"audio_tracks"`
	Timeline        []TimelineScene `json:"timeline"`
}

type ProjectSettings struct {
	DurationSeconds       float64 `json:"duration_seconds"`
	Language              string  `json:"language"`
	Niche                 string  `json:"niche"`
	Resolution            string  `json:"resolution"`
	InputType             string  `json:"input_type"`
	AIEnhancementsEnabled bool    `json:"ai_enhancements_enabled"`
}

type MediaAsset struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

type AudioTracks struct {
	Voiceover       []VoiceoverTrack      `json:"voiceover"`
	BackgroundMusic *BackgroundMusicTrack `json:"background_music"`
	SoundEffects    []SoundEffectTrack    `json:"sound_effects"`
}

type VoiceoverTrack struct {
	ID               string  `json:"id"`
	TextSegment      string  `json:"text_segment"`
	URL              string  `json:"url"`
	StartTimeSeconds float64 `json:"start_time_seconds"`
	DurationSeconds  float64 `json:"duration_seconds"`
}

type BackgroundMusicTrack struct {
	AssetID string  `json:"asset_id"`
	URL     string  `json:"url"`
	Volume  float64 `json:"volume"`
}

type SoundEffectTrack struct {
	AssetID          string  `json:"asset_id"`
	URL              string  `json:"url"`
	Description      string  `json:"description"`
	Volume           float64 `json:"volume"`
	StartTimeSeconds float64 `json:"start_time_seconds"`
}

type TimelineScene struct {
	Type                  string          `json:"type"`
	ID                    string          `json:"id"`
	StartTimeSeconds      float64         `json:"start_time_seconds"`
	DurationSeconds       float64         `json:"duration_seconds"`
	Script                string          `json:"script"`
	VisualElements        []VisualElement `json:"visual_elements"`
	AudioElements         []AudioElement  `json:"audio_elements"`
	TransitionToNextScene Transition      `json:"transition_to_next_scene"`
}

type VisualElement struct {
	AssetID          string  `json:"asset_id"`
	Type             string  `json:"type"`
	StartTimeInScene float64 `json:"start_time_in_scene"`
	DurationInScene  float64 `json:"duration_in_scene"`
	Effect           string  `json:"effect"`
}

type AudioElement struct {
	AssetID          string  `json:"asset_id"`
	Type             string  `json:"type"`
	StartTimeInScene float64 `json:"start_time_in_scene"`
	Volume           float64 `json:"volume"`
}

type Transition struct {
	Type            string  `json:"type"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// BuildEditPlan translates a normalized request into an EditPlan. Scene
// order is preserved; timeline offsets accumulate the nominal durations.
func BuildEditPlan(req Request) EditPlan {
	settings := req.RenderSettings

	out := EditPlan{
		ProjectSettings: ProjectSettings{
			DurationSeconds:       defaultFloat(settings.VideoDuration, 60),
			Language:              defaultString(settings.Language, "es"),
			Niche:                 defaultString(settings.Niche, "General"),
			Resolution:            defaultString(settings.Resolution, "1080p"),
			InputType:             defaultString(settings.InputType, "script"),
			AIEnhancementsEnabled: settings.AIEnhancements,
		},
		MediaAssets: []MediaAsset{},
		AudioTracks: AudioTracks{
			Voiceover:    []VoiceoverTrack{},
			SoundEffects: []SoundEffectTrack{},
		},
		Timeline: []TimelineScene{},
	}

	assetCounter := 1
	voiceoverCounter := 1
	sfxCounter := 1

	if strings.TrimSpace(settings.BackgroundMusicURL) != "" {
		id := fmt.Sprintf("bg_music_%d", assetCounter)
		out.MediaAssets = append(out.MediaAssets, MediaAsset{ID: id, Type: "audio", URL: settings.BackgroundMusicURL})
		out.AudioTracks.BackgroundMusic = &BackgroundMusicTrack{
			AssetID: id,
			URL:     settings.BackgroundMusicURL,
			Volume:  defaultFloat(settings.BackgroundMusicVolume, DefaultMusicVolume),
		}
		assetCounter++
	}

	for _, sfx := range settings.SoundEffects {
		if strings.TrimSpace(sfx.URL) == "" {
			continue
		}
		id := fmt.Sprintf("sfx_%d", sfxCounter)
		out.MediaAssets = append(out.MediaAssets, MediaAsset{ID: id, Type: "audio", URL: sfx.URL})
		out.AudioTracks.SoundEffects = append(out.AudioTracks.SoundEffects, SoundEffectTrack{
			AssetID:          id,
			URL:              sfx.URL,
			Description:      sfx.Description,
			Volume:           defaultFloat(sfx.Volume, DefaultAudioVolume),
			StartTimeSeconds: sfx.StartTime,
		})
		sfxCounter++
	}

	currentTime := 0.0
	for i, scene := range req.Scenes {
		duration := defaultFloat(scene.Duration, DefaultSceneDuration)

		ts := TimelineScene{
			Type:             "scene",
			ID:               fmt.Sprintf("scene_%d", i+1),
			StartTimeSeconds: currentTime,
			DurationSeconds:  duration,
			Script:           scene.Script,
			VisualElements:   []VisualElement{},
			AudioElements:    []AudioElement{},
			TransitionToNextScene: Transition{
				Type:            defaultString(scene.TransitionType, DefaultTransitionType),
				DurationSeconds: defaultFloat(scene.TransitionDuration, DefaultTransitionDuration),
			},
		}

		for _, media := range scene.Media {
			if strings.TrimSpace(media.URL) == "" {
				continue
			}
			id := fmt.Sprintf("media_%d", assetCounter)
			out.MediaAssets = append(out.MediaAssets, MediaAsset{
				ID:   id,
				Type: defaultString(media.Type, DefaultMediaType),
				URL:  media.URL,
			})
			ts.VisualElements = append(ts.VisualElements, VisualElement{
				AssetID:         id,
				Type:            "main_clip",
				DurationInScene: duration,
				Effect:          "none",
			})
			assetCounter++
		}

		if scene.HasNarration() {
			id := fmt.Sprintf("vo_%d", voiceoverCounter)
			out.MediaAssets = append(out.MediaAssets, MediaAsset{ID: id, Type: "audio", URL: scene.AudioURL})
			out.AudioTracks.Voiceover = append(out.AudioTracks.Voiceover, VoiceoverTrack{
				ID:               id,
				TextSegment:      scene.Script,
				URL:              scene.AudioURL,
				StartTimeSeconds: currentTime,
				DurationSeconds:  duration,
			})
			ts.AudioElements = append(ts.AudioElements, AudioElement{
				AssetID: id,
				Type:    "voiceover",
				Volume:  defaultFloat(scene.AudioVolume, DefaultAudioVolume),
			})
			voiceoverCounter++
		}

		out.Timeline = append(out.Timeline, ts)
		currentTime += duration
	}

	return out
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func defaultFloat(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
