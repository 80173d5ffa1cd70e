package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "contentgen.toml")
	content := fmt.Sprintf("[paths]\nstorage_root = %q\nlog_dir = %q\n",
		filepath.Join(dir, "storage"), filepath.Join(dir, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("output = %q", output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	// A second init without --overwrite must refuse.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestProjectAndVideoCommands(t *testing.T) {
	configPath := writeTestConfig(t)

	output, err := runCommand(t, "--config", configPath, "project", "add", "Fitness Shorts",
		"--niche", "fitness", "--platform", "tiktok")
	if err != nil {
		t.Fatalf("project add: %v", err)
	}
	if !strings.Contains(output, "Created project 1") {
		t.Fatalf("output = %q", output)
	}

	output, err = runCommand(t, "--config", configPath, "project", "list", "--json")
	if err != nil {
		t.Fatalf("project list: %v", err)
	}
	var projects []map[string]any
	if err := json.Unmarshal([]byte(output), &projects); err != nil {
		t.Fatalf("decode projects: %v (output %q)", err, output)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d", len(projects))
	}

	output, err = runCommand(t, "--config", configPath, "video", "add", "1",
		"--title", "Morning Routine", "--type", "short")
	if err != nil {
		t.Fatalf("video add: %v", err)
	}
	if !strings.Contains(output, "Created video 1") {
		t.Fatalf("output = %q", output)
	}

	output, err = runCommand(t, "--config", configPath, "video", "list", "--json")
	if err != nil {
		t.Fatalf("video list: %v", err)
	}
	var videos []map[string]any
	if err := json.Unmarshal([]byte(output), &videos); err != nil {
		t.Fatalf("decode videos: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("videos = %d", len(videos))
	}
}

func TestVideoAddRejectsUnknownProject(t *testing.T) {
	configPath := writeTestConfig(t)
	_, err := runCommand(t, "--config", configPath, "video", "add", "42", "--title", "Nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestVideoAddRejectsBadType(t *testing.T) {
	configPath := writeTestConfig(t)
	_, err := runCommand(t, "--config", configPath, "video", "add", "1", "--title", "X", "--type", "medium")
	if err == nil || !strings.Contains(err.Error(), "invalid content type") {
		t.Fatalf("err = %v", err)
	}
}

func TestVoicesCommand(t *testing.T) {
	output, err := runCommand(t, "voices", "--provider", "elevenlabs")
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	if !strings.Contains(output, "Rachel") {
		t.Fatalf("output = %q", output)
	}
	if strings.Contains(output, "MiniMax:") {
		t.Fatal("minimax catalog printed despite filter")
	}
}
