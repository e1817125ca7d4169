// Package google provides a Transcriber backed by the Google Cloud
// Speech-to-Text v1 batch recognition API.
package google

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/stt"
)

// serviceName identifies this capability in classified errors.
const serviceName = "Google Speech-to-Text"

const (
	defaultLanguage   = "ja-JP"
	defaultSampleRate = 16000
)

// Option is a functional option for configuring the Transcriber.
type Option func(*Transcriber)

// WithLanguage sets the primary recognition language (BCP-47). Default "ja-JP".
func WithLanguage(lang string) Option {
	return func(t *Transcriber) { t.language = lang }
}

// WithAlternativeLanguages sets additional candidate languages the recognizer
// may fall back to (e.g. "en-US" for mixed-language utterances).
func WithAlternativeLanguages(langs ...string) Option {
	return func(t *Transcriber) { t.altLanguages = langs }
}

// WithSampleRate overrides the expected sample rate for headerless encodings.
// Default 16000 Hz, which matches the mobile client's recording format.
func WithSampleRate(hz int) Option {
	return func(t *Transcriber) { t.sampleRate = hz }
}

// Transcriber implements [stt.Transcriber] using Google Cloud Speech-to-Text.
// It is read-only after construction and safe for concurrent use.
type Transcriber struct {
	client       *speech.Client
	language     string
	altLanguages []string
	sampleRate   int
}

var _ stt.Transcriber = (*Transcriber)(nil)

// New constructs a Transcriber. credentialsFile may be empty, in which case
// the client falls back to GOOGLE_APPLICATION_CREDENTIALS / ambient auth.
func New(ctx context.Context, credentialsFile string, opts ...Option) (*Transcriber, error) {
	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := speech.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, capability.Misconfigured(serviceName, fmt.Sprintf("create client: %v", err))
	}

	t := &Transcriber{
		client:     client,
		language:   defaultLanguage,
		sampleRate: defaultSampleRate,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Transcribe sends the complete audio payload through batch recognition and
// returns the top alternative of the first result.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (stt.Transcript, error) {
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encodingFor(filename),
			SampleRateHertz:            int32(t.sampleRate),
			LanguageCode:               t.language,
			AlternativeLanguageCodes:   t.altLanguages,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := t.client.Recognize(ctx, req)
	if err != nil {
		return stt.Transcript{}, capability.Execution(serviceName, "recognize", err)
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return stt.Transcript{}, capability.Execution(serviceName, "no recognizable speech in audio", nil)
	}

	result := resp.Results[0]
	alt := result.Alternatives[0]
	return stt.Transcript{
		Text:       alt.Transcript,
		Language:   result.LanguageCode,
		Confidence: float64(alt.Confidence),
	}, nil
}

// Close releases the underlying gRPC connection.
func (t *Transcriber) Close() error { return t.client.Close() }

// encodingFor maps an upload's file extension to the recognition encoding.
// WAV containers carry their own header, so LINEAR16 with the configured
// sample rate is used; compressed formats get their dedicated encodings.
// Unknown extensions fall back to ENCODING_UNSPECIFIED and let the service
// sniff the container.
func encodingFor(filename string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case ".flac":
		return speechpb.RecognitionConfig_FLAC
	case ".mp3":
		return speechpb.RecognitionConfig_MP3
	case ".ogg":
		return speechpb.RecognitionConfig_OGG_OPUS
	case ".amr":
		return speechpb.RecognitionConfig_AMR
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
