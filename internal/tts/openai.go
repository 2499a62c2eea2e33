package tts

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"
)

const openAISpeechVoice = openai.AudioSpeechNewParamsVoiceAlloy

// OpenAI synthesizes speech with the OpenAI audio API.
type OpenAI struct {
	client openai.Client
	voice  openai.AudioSpeechNewParamsVoice
	player Player
}

func NewOpenAI(client openai.Client, voice string, player Player) *OpenAI {
	v := openai.AudioSpeechNewParamsVoice(voice)
	if voice == "" {
		v = openAISpeechVoice
	}
	return &OpenAI{client: client, voice: v, player: player}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Speak(ctx context.Context, text string) error {
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return fmt.Errorf("audio speech: %w", err)
	}
	defer resp.Body.Close()

	if err := o.player.PlayMP3(ctx, resp.Body); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
