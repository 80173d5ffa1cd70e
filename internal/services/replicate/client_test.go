package replicate_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contentgen/internal/services"
	"contentgen/internal/services/replicate"
)

func TestGenerateImagePollsToSuccess(t *testing.T) {
	var serverURL string
	var polls int
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/black-forest-labs/flux-schnell/predictions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer rep-token" {
			t.Errorf("authorization = %q", got)
		}
		var body struct {
			Input map[string]any `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Input["prompt"] != "a sunrise" {
			t.Errorf("prompt = %v", body.Input["prompt"])
		}
		if body.Input["width"] != float64(720) || body.Input["height"] != float64(1280) {
			t.Errorf("dimensions = %vx%v", body.Input["width"], body.Input["height"])
		}
		fmt.Fprint(w, `{"id":"pred-1","status":"starting"}`)
	})
	mux.HandleFunc("/v1/predictions/pred-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls < 2 {
			fmt.Fprint(w, `{"id":"pred-1","status":"processing"}`)
			return
		}
		fmt.Fprintf(w, `{"id":"pred-1","status":"succeeded","output":["%s/out.png"]}`, serverURL)
	})
	mux.HandleFunc("/out.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	serverURL = server.URL

	var slept []time.Duration
	client := replicate.NewClient(replicate.Config{
		APIToken:            "rep-token",
		BaseURL:             server.URL,
		PollIntervalSeconds: 2,
	}, replicate.WithSleeper(func(d time.Duration) { slept = append(slept, d) }))

	data, err := client.GenerateImage(context.Background(), "a sunrise", 720, 1280)
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("image = %q", data)
	}
	for _, d := range slept {
		if d != 2*time.Second {
			t.Fatalf("sleep = %v, want 2s", d)
		}
	}
}

func TestGenerateImageSingleStringOutput(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/black-forest-labs/flux-schnell/predictions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"pred-2","status":"starting"}`)
	})
	mux.HandleFunc("/v1/predictions/pred-2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":"pred-2","status":"succeeded","output":"%s/single.png"}`, serverURL)
	})
	mux.HandleFunc("/single.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	serverURL = server.URL

	client := replicate.NewClient(replicate.Config{APIToken: "rep-token", BaseURL: server.URL},
		replicate.WithSleeper(func(time.Duration) {}))
	if _, err := client.GenerateImage(context.Background(), "p", 0, 0); err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
}

func TestGenerateImageFailedPrediction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/black-forest-labs/flux-schnell/predictions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"pred-3","status":"starting"}`)
	})
	mux.HandleFunc("/v1/predictions/pred-3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"pred-3","status":"failed","error":"NSFW content detected"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := replicate.NewClient(replicate.Config{APIToken: "rep-token", BaseURL: server.URL},
		replicate.WithSleeper(func(time.Duration) {}))
	_, err := client.GenerateImage(context.Background(), "p", 0, 0)
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}

func TestGenerateImageTimesOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/black-forest-labs/flux-schnell/predictions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"pred-4","status":"starting"}`)
	})
	mux.HandleFunc("/v1/predictions/pred-4", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"pred-4","status":"processing"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := replicate.NewClient(replicate.Config{
		APIToken:        "rep-token",
		BaseURL:         server.URL,
		PollMaxAttempts: 3,
	}, replicate.WithSleeper(func(time.Duration) {}))
	_, err := client.GenerateImage(context.Background(), "p", 0, 0)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestGenerateImageRequiresToken(t *testing.T) {
	client := replicate.NewClient(replicate.Config{})
	if client.Configured() {
		t.Fatal("client without token reports configured")
	}
	_, err := client.GenerateImage(context.Background(), "p", 0, 0)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}
