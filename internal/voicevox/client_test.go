package voicevox

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateAudioQuerySendsTextAndSpeaker(t *testing.T) {
	var gotText, gotSpeaker string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/audio_query" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotText = r.URL.Query().Get("text")
		gotSpeaker = r.URL.Query().Get("speaker")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"accent_phrases":[],"speedScale":1.0}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	query, err := client.CreateAudioQuery(context.Background(), "おはよう", 3)
	if err != nil {
		t.Fatalf("CreateAudioQuery() error = %v", err)
	}
	if gotText != "おはよう" {
		t.Fatalf("text param = %q, want おはよう", gotText)
	}
	if gotSpeaker != "3" {
		t.Fatalf("speaker param = %q, want 3", gotSpeaker)
	}
	if string(query) != `{"accent_phrases":[],"speedScale":1.0}` {
		t.Fatalf("query = %s, want engine response verbatim", query)
	}
}

func TestSynthesisPostsQueryBody(t *testing.T) {
	wantQuery := `{"accent_phrases":[]}`
	wantAudio := "RIFF-fake-wav-bytes"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesis" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("speaker"); got != "8" {
			t.Errorf("speaker param = %q, want 8", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != wantQuery {
			t.Errorf("body = %s, want the audio query verbatim", body)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		io.WriteString(w, wantAudio)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	audio, err := client.Synthesis(context.Background(), AudioQuery(wantQuery), 8)
	if err != nil {
		t.Fatalf("Synthesis() error = %v", err)
	}
	if string(audio) != wantAudio {
		t.Fatalf("audio = %q, want %q", audio, wantAudio)
	}
}

func TestNon2xxBecomesEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "detail: invalid speaker", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateAudioQuery(context.Background(), "hello", 99999)
	if err == nil {
		t.Fatal("CreateAudioQuery() error = nil, want EngineError")
	}

	var engineErr *EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("error type = %T, want *EngineError", err)
	}
	if engineErr.Stage != "audio_query" {
		t.Fatalf("Stage = %q, want audio_query", engineErr.Stage)
	}
	if engineErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("StatusCode = %d, want 422", engineErr.StatusCode)
	}
}

func TestConnectionFailureBecomesEngineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(server.URL)
	_, err := client.Synthesis(context.Background(), AudioQuery(`{}`), 3)
	if err == nil {
		t.Fatal("Synthesis() error = nil, want EngineError")
	}

	var engineErr *EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("error type = %T, want *EngineError", err)
	}
	if engineErr.Stage != "synthesis" {
		t.Fatalf("Stage = %q, want synthesis", engineErr.Stage)
	}
	if engineErr.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0 for connection failure", engineErr.StatusCode)
	}
	if engineErr.Unwrap() == nil {
		t.Fatal("EngineError carries no cause")
	}
}

func TestSpeakers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/speakers" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"name":"ずんだもん","speaker_uuid":"388f246b","styles":[{"name":"ノーマル","id":3},{"name":"あまあま","id":1}]}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	speakers, err := client.Speakers(context.Background())
	if err != nil {
		t.Fatalf("Speakers() error = %v", err)
	}
	if len(speakers) != 1 {
		t.Fatalf("got %d speakers, want 1", len(speakers))
	}
	if speakers[0].Name != "ずんだもん" {
		t.Fatalf("Name = %q, want ずんだもん", speakers[0].Name)
	}
	if len(speakers[0].Styles) != 2 || speakers[0].Styles[0].ID != 3 {
		t.Fatalf("Styles = %+v, want normal style id 3 first", speakers[0].Styles)
	}
}
