// Package google provides speech synthesis backed by Google Cloud
// Text-to-Speech. It implements the synth.Synthesizer interface.
package google

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/synth"
)

const serviceName = "Google Text-to-Speech"

const (
	defaultVoice        = "ja-JP-Wavenet-A"
	defaultLanguage     = "ja-JP"
	defaultSpeakingRate = 1.0
	urlPrefix           = "/uploads/audio/"
)

// Option is a functional option for configuring the Synthesizer.
type Option func(*Synthesizer)

// WithVoice selects the voice name (default "ja-JP-Wavenet-A").
func WithVoice(name string) Option {
	return func(s *Synthesizer) {
		s.voice = name
	}
}

// WithSpeakingRate adjusts playback speed; 1.0 is normal.
func WithSpeakingRate(rate float64) Option {
	return func(s *Synthesizer) {
		s.speakingRate = rate
	}
}

// Synthesizer implements synth.Synthesizer backed by Google Cloud TTS,
// writing MP3 files into a local upload directory.
type Synthesizer struct {
	client       *texttospeech.Client
	uploadDir    string
	voice        string
	speakingRate float64
}

var _ synth.Synthesizer = (*Synthesizer)(nil)

// New creates a Synthesizer. uploadDir is created if missing. credentialsFile
// may be empty to use ambient application default credentials.
func New(ctx context.Context, credentialsFile, uploadDir string, opts ...Option) (*Synthesizer, error) {
	if uploadDir == "" {
		return nil, capability.Misconfigured(serviceName, "upload directory must not be empty")
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, capability.Misconfigured(serviceName, fmt.Sprintf("create upload directory: %v", err))
	}

	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := texttospeech.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, capability.Misconfigured(serviceName, fmt.Sprintf("create client: %v", err))
	}

	s := &Synthesizer{
		client:       client,
		uploadDir:    uploadDir,
		voice:        defaultVoice,
		speakingRate: defaultSpeakingRate,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Synthesize renders text as MP3, writes <interactionID>_response.mp3 into
// the upload directory, and returns the serving path.
func (s *Synthesizer) Synthesize(ctx context.Context, text, interactionID string) (string, error) {
	if text == "" {
		return "", capability.Execution(serviceName, "empty synthesis text", nil)
	}

	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: defaultLanguage,
			Name:         s.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  s.speakingRate,
		},
	})
	if err != nil {
		return "", capability.Execution(serviceName, "synthesize speech", err)
	}

	filename := interactionID + "_response.mp3"
	if err := os.WriteFile(filepath.Join(s.uploadDir, filename), resp.AudioContent, 0o644); err != nil {
		return "", capability.Execution(serviceName, "write audio file", err)
	}
	return urlPrefix + filename, nil
}

// Close releases the underlying gRPC connection.
func (s *Synthesizer) Close() error {
	return s.client.Close()
}
