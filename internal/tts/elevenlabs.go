package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	elevenLabsURL   = "https://api.elevenlabs.io"
	elevenLabsModel = "eleven_monolingual_v1"

	DefaultElevenLabsVoice = "21m00Tcm4TlvDq8ikWAM"
)

type elevenLabsRequest struct {
	Text          string                `json:"text"`
	ModelID       string                `json:"model_id"`
	VoiceSettings elevenLabsVoiceParams `json:"voice_settings"`
}

type elevenLabsVoiceParams struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// ElevenLabs synthesizes speech with the ElevenLabs cloud API.
type ElevenLabs struct {
	apiKey  string
	voiceID string
	baseURL string

	client *http.Client
	player Player
}

func NewElevenLabs(apiKey, voiceID string, client *http.Client, player Player) *ElevenLabs {
	if voiceID == "" {
		voiceID = DefaultElevenLabsVoice
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ElevenLabs{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: elevenLabsURL,
		client:  client,
		player:  player,
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

func (e *ElevenLabs) Speak(ctx context.Context, text string) error {
	audio, err := e.synthesize(ctx, text)
	if err != nil {
		return err
	}

	if err := e.player.PlayMP3(ctx, bytes.NewReader(audio)); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

func (e *ElevenLabs) synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: elevenLabsModel,
		VoiceSettings: elevenLabsVoiceParams{
			Stability:       0.4,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := e.baseURL + "/v1/text-to-speech/" + e.voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("elevenlabs: %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("elevenlabs: empty audio")
	}

	return audio, nil
}
