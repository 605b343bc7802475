package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// voices maps the user's numeric voice setting to a synthesis voice.
var voices = map[int]openai.SpeechVoice{
	1: openai.VoiceEcho,
	2: openai.VoiceAlloy,
	3: openai.VoiceFable,
	4: openai.VoiceOnyx,
	5: openai.VoiceNova,
	6: openai.VoiceShimmer,
}

// Service wraps the speech synthesis and transcription pass-throughs.
type Service struct {
	client   *openai.Client
	audioDir string
	logger   *zap.Logger
}

func NewService(apiKey, audioDir string, logger *zap.Logger) *Service {
	return &Service{
		client:   openai.NewClient(apiKey),
		audioDir: audioDir,
		logger:   logger,
	}
}

// Synthesize renders text to an mp3 file in the audio directory and returns
// the generated file name. voiceSetting falls back to echo when unmapped.
func (s *Service) Synthesize(ctx context.Context, text string, voiceSetting int, speed float64) (string, error) {
	voice, ok := voices[voiceSetting]
	if !ok {
		voice = openai.VoiceEcho
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Voice: voice,
		Input: text,
		Speed: speed,
	})
	if err != nil {
		return "", fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer resp.Close()

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	fileName := fmt.Sprintf("speech_%s.mp3", uuid.New().String())
	filePath := filepath.Join(s.audioDir, fileName)

	out, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	s.logger.Info("Synthesized speech",
		zap.String("file", fileName),
		zap.String("voice", string(voice)),
		zap.Float64("speed", speed))
	return fileName, nil
}

// Transcribe runs speech-to-text on an uploaded voice memo.
func (s *Service) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, nil
}
