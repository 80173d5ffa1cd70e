package elevenlabs_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"contentgen/internal/services"
	"contentgen/internal/services/elevenlabs"
)

func TestSynthesizeSendsVoiceAndModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/voice-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "el-key" {
			t.Errorf("api key header = %q", got)
		}
		var body struct {
			Text    string `json:"text"`
			ModelID string `json:"model_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Text != "hello world" || body.ModelID != "eleven_multilingual_v2" {
			t.Errorf("body = %+v", body)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	client := elevenlabs.NewClient(elevenlabs.Config{APIKey: "el-key", BaseURL: server.URL})
	audio, err := client.Synthesize(context.Background(), "hello world", "voice-123")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("audio = %q", audio)
	}
}

func TestSynthesizeDefaultVoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/"+elevenlabs.DefaultVoiceID {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("x"))
	}))
	defer server.Close()

	client := elevenlabs.NewClient(elevenlabs.Config{APIKey: "el-key", BaseURL: server.URL})
	if _, err := client.Synthesize(context.Background(), "hi", ""); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
}

func TestSynthesizeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid voice"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := elevenlabs.NewClient(elevenlabs.Config{APIKey: "el-key", BaseURL: server.URL})
	_, err := client.Synthesize(context.Background(), "hi", "bad-voice")
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
	var provErr *services.ProviderError
	if !errors.As(err, &provErr) || provErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("provider error = %+v", provErr)
	}
}

func TestSynthesizeRequiresKey(t *testing.T) {
	client := elevenlabs.NewClient(elevenlabs.Config{})
	if client.Configured() {
		t.Fatal("client without key reports configured")
	}
	_, err := client.Synthesize(context.Background(), "hi", "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestVoicesCatalogCopied(t *testing.T) {
	voices := elevenlabs.Voices()
	if len(voices) == 0 {
		t.Fatal("empty catalog")
	}
	voices[0].Name = "mutated"
	if elevenlabs.Voices()[0].Name == "mutated" {
		t.Fatal("catalog aliased by callers")
	}
}
