package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	openAISpeechURL        = "https://api.openai.com/v1/audio/speech"
	openAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"
	elevenLabsSpeechURL    = "https://api.elevenlabs.io/v1/text-to-speech/%s"

	// ElevenLabs voice used when the configured voice is an OpenAI name.
	defaultElevenLabsVoiceID = "21m00Tcm4TlvDq8ikWAM"
)

// SpeechService synthesizes interviewer questions to audio and transcribes
// candidate answers. Synthesis results are cached so repeated questions
// (fallback bank, retries) do not re-bill the provider.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) ([]byte, string, error)
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	Voices() []Voice
	Enabled() bool
}

// Voice describes a selectable interviewer voice.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Active   bool   `json:"active"`
}

var openAIVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

type speechService struct {
	provider         string
	openAIAPIKey     string
	elevenLabsAPIKey string
	voice            string
	client           *http.Client
	cache            *lru.Cache[string, []byte]
}

func NewSpeechService(provider, openAIAPIKey, elevenLabsAPIKey, voice string, cacheSize int) (SpeechService, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech cache: %w", err)
	}

	return &speechService{
		provider:         provider,
		openAIAPIKey:     openAIAPIKey,
		elevenLabsAPIKey: elevenLabsAPIKey,
		voice:            voice,
		client:           &http.Client{Timeout: 60 * time.Second},
		cache:            cache,
	}, nil
}

// Enabled reports whether any provider is configured. Callers skip audio
// generation entirely when it returns false.
func (s *speechService) Enabled() bool {
	switch s.provider {
	case "elevenlabs":
		return s.elevenLabsAPIKey != ""
	default:
		return s.openAIAPIKey != ""
	}
}

// Voices lists the voices the configured provider offers.
func (s *speechService) Voices() []Voice {
	if s.provider == "elevenlabs" {
		voiceID := s.voice
		name := voiceID
		if len(voiceID) < 12 {
			voiceID = defaultElevenLabsVoiceID
			name = "Rachel"
		}
		return []Voice{{ID: voiceID, Name: name, Provider: "elevenlabs", Active: true}}
	}

	voices := make([]Voice, 0, len(openAIVoices))
	for _, name := range openAIVoices {
		voices = append(voices, Voice{
			ID:       name,
			Name:     name,
			Provider: "openai",
			Active:   name == s.voice,
		})
	}
	return voices
}

// Synthesize implements SpeechService. Returns the audio bytes and the
// file extension for the produced format.
func (s *speechService) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if !s.Enabled() {
		return nil, "", fmt.Errorf("no speech provider configured")
	}

	key := cacheKey(text, s.voice)
	if audio, ok := s.cache.Get(key); ok {
		return audio, ".mp3", nil
	}

	var audio []byte
	var err error
	switch s.provider {
	case "elevenlabs":
		audio, err = s.synthesizeElevenLabs(ctx, text)
	default:
		audio, err = s.synthesizeOpenAI(ctx, text)
	}
	if err != nil {
		return nil, "", err
	}

	s.cache.Add(key, audio)
	return audio, ".mp3", nil
}

func (s *speechService) synthesizeOpenAI(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model":           "tts-1",
		"input":           text,
		"voice":           s.voice,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode TTS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAISpeechURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.openAIAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("TTS request failed with status %d: %s", resp.StatusCode, string(detail))
	}

	return io.ReadAll(resp.Body)
}

func (s *speechService) synthesizeElevenLabs(ctx context.Context, text string) ([]byte, error) {
	voiceID := s.voice
	// OpenAI voice names are not ElevenLabs voice IDs
	if len(voiceID) < 12 {
		voiceID = defaultElevenLabsVoiceID
	}

	body, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode TTS request: %w", err)
	}

	url := fmt.Sprintf(elevenLabsSpeechURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS request: %w", err)
	}
	req.Header.Set("xi-api-key", s.elevenLabsAPIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("TTS request failed with status %d: %s", resp.StatusCode, string(detail))
	}

	return io.ReadAll(resp.Body)
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe implements SpeechService using the Whisper API. Transcription
// always goes through OpenAI regardless of the synthesis provider.
func (s *speechService) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if s.openAIAPIKey == "" {
		return "", fmt.Errorf("transcription requires an OpenAI API key")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if err := writer.WriteField("model", "whisper-1"); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAITranscriptionURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.openAIAPIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("transcription failed with status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	log.Printf("🎤 Transcribed %d bytes of audio into %d characters", len(audio), len(parsed.Text))
	return parsed.Text, nil
}

func cacheKey(text, voice string) string {
	sum := sha256.Sum256([]byte(text + "|" + voice))
	return hex.EncodeToString(sum[:])
}
