package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cuecraft/internal/services"
	"cuecraft/internal/timecode"
)

// RemoteConfig captures the settings of the hosted transcription endpoint.
// An empty URL means the secondary engine is not configured.
type RemoteConfig struct {
	URL    string
	APIKey string
	Model  string
}

// RemoteSource uploads audio to a hosted speech-to-text endpoint speaking the
// audio/transcriptions protocol with verbose JSON responses. It is the
// secondary variant: lower quality than the local model but no local
// dependency beyond network access.
type RemoteSource struct {
	cfg    RemoteConfig
	client *http.Client
}

// NewRemoteSource creates the secondary transcript source. The client's
// timeout governs the whole upload-and-transcribe round trip; pass nil to use
// http.DefaultClient.
func NewRemoteSource(cfg RemoteConfig, client *http.Client) *RemoteSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteSource{cfg: cfg, client: client}
}

// Variant identifies this source as the secondary engine.
func (s *RemoteSource) Variant() Variant { return VariantSecondaryEngine }

type remoteSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type remoteResponse struct {
	Text     string          `json:"text"`
	Segments []remoteSegment `json:"segments"`
}

// Transcribe uploads the audio file and converts the response segments. An
// unconfigured endpoint is unavailability; a rejected or failed request is an
// extraction failure; a cancelled or expired context is a timeout.
func (s *RemoteSource) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	if strings.TrimSpace(s.cfg.URL) == "" {
		return nil, services.Wrap(services.ErrUnavailable, "remote", "transcribe",
			"remote endpoint not configured", nil)
	}

	body, contentType, err := buildUpload(audioPath, s.cfg.Model)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, body)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "remote", "transcribe", s.cfg.URL, err)
	}
	req.Header.Set("Content-Type", contentType)
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "remote", "transcribe", s.cfg.URL, err)
		}
		return nil, services.Wrap(services.ErrExtraction, "remote", "transcribe", s.cfg.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, services.Wrap(services.ErrExtraction, "remote", "transcribe",
			fmt.Sprintf("%s returned %d: %s", s.cfg.URL, resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	var parsed remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, services.Wrap(services.ErrExtraction, "remote", "transcribe", "decode response", err)
	}
	segments := convertRemote(parsed)
	if len(segments) == 0 {
		return nil, services.Wrap(services.ErrExtraction, "remote", "transcribe",
			"response carried no usable segments", nil)
	}
	return segments, nil
}

func buildUpload(audioPath, model string) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", services.Wrap(services.ErrExtraction, "remote", "upload", audioPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if model != "" {
		if err := mw.WriteField("model", model); err != nil {
			return nil, "", services.Wrap(services.ErrExtraction, "remote", "upload", "model field", err)
		}
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, "", services.Wrap(services.ErrExtraction, "remote", "upload", "format field", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", services.Wrap(services.ErrExtraction, "remote", "upload", audioPath, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, "", services.Wrap(services.ErrExtraction, "remote", "upload", audioPath, err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", services.Wrap(services.ErrExtraction, "remote", "upload", audioPath, err)
	}
	return &body, mw.FormDataContentType(), nil
}

func convertRemote(parsed remoteResponse) []Segment {
	segments := make([]Segment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:       text,
			Start:      timecode.FromSeconds(seg.Start),
			End:        timecode.FromSeconds(seg.End),
			Confidence: 1,
		})
	}
	if len(segments) == 0 && strings.TrimSpace(parsed.Text) != "" {
		// Plain-text responses carry no timings; surface one untimed segment
		// and let duration estimation place it.
		segments = append(segments, Segment{Text: strings.TrimSpace(parsed.Text), Confidence: 1})
	}
	return segments
}
