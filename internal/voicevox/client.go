// Package voicevox is a client for a VOICEVOX-compatible synthesis engine.
// Rendering is a two-stage pipeline: CreateAudioQuery builds the synthesis
// parameters for a text, Synthesis turns those parameters into WAV bytes.
package voicevox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultSpeaker is Zundamon's normal style, the voice used when a request
// does not pick one.
const DefaultSpeaker = 3

// AudioQuery is the engine's synthesis-parameter document. It is produced by
// stage one and consumed verbatim by stage two; nothing here inspects it, so
// an engine swap only touches the two stage methods.
type AudioQuery []byte

// EngineError is any failure talking to the engine: connection errors and
// non-2xx responses both end up here. StatusCode is zero when the request
// never got a response.
type EngineError struct {
	Stage      string // audio_query, synthesis, speakers
	StatusCode int
	Err        error
}

func (e *EngineError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("voicevox %s: status %d", e.Stage, e.StatusCode)
	}
	return fmt.Sprintf("voicevox %s: %v", e.Stage, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateAudioQuery runs stage one: it asks the engine to build synthesis
// parameters for the text and speaker.
func (c *Client) CreateAudioQuery(ctx context.Context, text string, speaker int) (AudioQuery, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("speaker", strconv.Itoa(speaker))

	body, err := c.post(ctx, "audio_query", q, "", nil)
	if err != nil {
		return nil, err
	}
	return AudioQuery(body), nil
}

// Synthesis runs stage two: it renders the audio-query parameters into raw
// WAV bytes.
func (c *Client) Synthesis(ctx context.Context, query AudioQuery, speaker int) ([]byte, error) {
	q := url.Values{}
	q.Set("speaker", strconv.Itoa(speaker))

	return c.post(ctx, "synthesis", q, "application/json", bytes.NewReader(query))
}

type SpeakerStyle struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

type Speaker struct {
	Name        string         `json:"name"`
	SpeakerUUID string         `json:"speaker_uuid"`
	Styles      []SpeakerStyle `json:"styles"`
}

// Speakers returns the engine's voice catalogue.
func (c *Client) Speakers(ctx context.Context) ([]Speaker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/speakers", nil)
	if err != nil {
		return nil, &EngineError{Stage: "speakers", Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &EngineError{Stage: "speakers", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &EngineError{Stage: "speakers", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &EngineError{Stage: "speakers", StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(body)))}
	}

	var speakers []Speaker
	if err := json.Unmarshal(body, &speakers); err != nil {
		return nil, &EngineError{Stage: "speakers", Err: fmt.Errorf("decode speakers: %w", err)}
	}
	return speakers, nil
}

func (c *Client) post(ctx context.Context, stage string, query url.Values, contentType string, body io.Reader) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, stage, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, &EngineError{Stage: stage, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &EngineError{Stage: stage, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &EngineError{Stage: stage, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &EngineError{Stage: stage, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(respBody)))}
	}
	return respBody, nil
}
