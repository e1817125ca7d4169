// Package azure provides pronunciation assessment backed by the Azure Speech
// short-audio REST API. It implements the assess.Assessor interface.
package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/kaiwalab/kaiwa/pkg/capability"
	"github.com/kaiwalab/kaiwa/pkg/capability/assess"
)

const serviceName = "Azure Pronunciation Assessment"

const (
	endpointFmt     = "https://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1"
	defaultLanguage = "ja-JP"
	defaultTimeout  = 30 * time.Second
)

// Option is a functional option for configuring the Assessor.
type Option func(*Assessor)

// WithLanguage sets the assessment language (default "ja-JP").
func WithLanguage(lang string) Option {
	return func(a *Assessor) {
		a.language = lang
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Assessor) {
		a.httpClient = c
	}
}

// WithEndpoint overrides the regional endpoint URL. Intended for tests.
func WithEndpoint(url string) Option {
	return func(a *Assessor) {
		a.endpoint = url
	}
}

// Assessor implements assess.Assessor against the Azure Speech service.
type Assessor struct {
	key        string
	language   string
	endpoint   string
	httpClient *http.Client
}

var _ assess.Assessor = (*Assessor)(nil)

// New creates an Assessor for the given subscription key and region. Both
// must be non-empty.
func New(key, region string, opts ...Option) (*Assessor, error) {
	if key == "" {
		return nil, capability.Misconfigured(serviceName, "subscription key must not be empty")
	}
	if region == "" {
		return nil, capability.Misconfigured(serviceName, "region must not be empty")
	}
	a := &Assessor{
		key:        key,
		language:   defaultLanguage,
		endpoint:   fmt.Sprintf(endpointFmt, region),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// ---- request/response types ----

// assessmentParams is the JSON payload carried base64-encoded in the
// Pronunciation-Assessment header.
type assessmentParams struct {
	ReferenceText string `json:"ReferenceText"`
	GradingSystem string `json:"GradingSystem"`
	Granularity   string `json:"Granularity"`
	EnableMiscue  bool   `json:"EnableMiscue"`
}

type recognitionResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	NBest             []struct {
		Display                 string `json:"Display"`
		PronunciationAssessment struct {
			AccuracyScore      float64 `json:"AccuracyScore"`
			FluencyScore       float64 `json:"FluencyScore"`
			CompletenessScore  float64 `json:"CompletenessScore"`
			PronunciationScore float64 `json:"PronScore"`
		} `json:"PronunciationAssessment"`
		Words []struct {
			Word                    string `json:"Word"`
			PronunciationAssessment struct {
				AccuracyScore float64 `json:"AccuracyScore"`
				ErrorType     string  `json:"ErrorType"`
			} `json:"PronunciationAssessment"`
		} `json:"Words"`
	} `json:"NBest"`
}

// Assess sends the audio to the short-audio recognition endpoint with
// pronunciation assessment enabled and maps the NBest result into a ScoreSet.
func (a *Assessor) Assess(ctx context.Context, audio []byte, filename, referenceText string) (assess.ScoreSet, error) {
	if len(audio) == 0 {
		return assess.ScoreSet{}, capability.Execution(serviceName, "empty audio payload", nil)
	}

	params, err := json.Marshal(assessmentParams{
		ReferenceText: referenceText,
		GradingSystem: "HundredMark",
		Granularity:   "Phoneme",
		EnableMiscue:  true,
	})
	if err != nil {
		return assess.ScoreSet{}, capability.Execution(serviceName, "encode assessment params", err)
	}

	url := a.endpoint + "?language=" + a.language + "&format=detailed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return assess.ScoreSet{}, capability.Execution(serviceName, "build request", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)
	req.Header.Set("Pronunciation-Assessment", base64.StdEncoding.EncodeToString(params))
	req.Header.Set("Content-Type", contentTypeFor(filename))
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return assess.ScoreSet{}, capability.Unavailable(serviceName, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return assess.ScoreSet{}, capability.Execution(serviceName, "read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return assess.ScoreSet{}, capability.Misconfigured(serviceName, "subscription key rejected")
	case resp.StatusCode >= 500:
		return assess.ScoreSet{}, capability.Unavailable(serviceName, fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return assess.ScoreSet{}, capability.Execution(serviceName, fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(body, 200)), nil)
	}

	var rec recognitionResponse
	if err := json.Unmarshal(body, &rec); err != nil {
		return assess.ScoreSet{}, capability.Execution(serviceName, "decode response", err)
	}
	if rec.RecognitionStatus != "Success" || len(rec.NBest) == 0 {
		return assess.ScoreSet{}, capability.Execution(serviceName, fmt.Sprintf("recognition status %q", rec.RecognitionStatus), nil)
	}

	best := rec.NBest[0]
	set := assess.ScoreSet{
		Accuracy:      roundScore(best.PronunciationAssessment.AccuracyScore),
		Pronunciation: roundScore(best.PronunciationAssessment.PronunciationScore),
		Completeness:  roundScore(best.PronunciationAssessment.CompletenessScore),
		Fluency:       roundScore(best.PronunciationAssessment.FluencyScore),
	}
	for _, w := range best.Words {
		set.Words = append(set.Words, assess.WordScore{
			Word:      w.Word,
			Accuracy:  roundScore(w.PronunciationAssessment.AccuracyScore),
			ErrorType: w.PronunciationAssessment.ErrorType,
		})
	}
	return set, nil
}

// contentTypeFor maps the upload extension to the Content-Type the
// short-audio endpoint expects. WAV carries its sample rate in the header so
// no codec parameters are needed for it.
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return "audio/wav; codecs=audio/pcm"
	case ".ogg":
		return "audio/ogg; codecs=opus"
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/wav; codecs=audio/pcm"
	}
}

func roundScore(f float64) int {
	n := int(math.Round(f))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
