package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hardsub/internal/services"
)

// stubBinary drops an executable shell stub into a temp dir and prepends it
// to PATH so LookPath finds it.
func stubBinary(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return path
}

func writeSegmentsJSON(t *testing.T, path string) {
	t.Helper()
	content := `{"segments":[{"start":0.5,"end":2.0,"text":"hello"},{"start":2.0,"end":3.5,"text":"world"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write segments: %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	cases := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"whisperx", "whisperx", false},
		{"whisper", "whisper", false},
		{" WhisperX ", "whisperx", false},
		{"deepgram", "", true},
	}
	for _, tc := range cases {
		engine, err := NewProvider(tc.name, Config{})
		if tc.wantErr {
			if err == nil {
				t.Errorf("NewProvider(%q) expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewProvider(%q): %v", tc.name, err)
			continue
		}
		if engine.Name() != tc.wantName {
			t.Errorf("NewProvider(%q).Name() = %q, want %q", tc.name, engine.Name(), tc.wantName)
		}
	}
}

func TestResolvePrefersFirstAvailable(t *testing.T) {
	uvx := stubBinary(t, "uvx")
	engine, err := Resolve([]string{"whisperx", "whisper"}, Config{UVXBinary: uvx})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if engine.Name() != "whisperx" {
		t.Fatalf("Resolve picked %q, want whisperx", engine.Name())
	}
}

func TestResolveFallsBackInOrder(t *testing.T) {
	whisper := stubBinary(t, "whisper")
	cfg := Config{UVXBinary: "/nonexistent/uvx", WhisperBinary: whisper}
	engine, err := Resolve([]string{"whisperx", "whisper"}, cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if engine.Name() != "whisper" {
		t.Fatalf("Resolve picked %q, want whisper", engine.Name())
	}
}

func TestResolveNoneAvailable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := Resolve(nil, Config{})
	if err == nil {
		t.Fatal("expected error when no provider is installed")
	}
	if !errors.Is(err, services.ErrSetup) {
		t.Fatalf("expected setup error, got %v", err)
	}
	if !strings.Contains(err.Error(), "whisperx") || !strings.Contains(err.Error(), "whisper") {
		t.Fatalf("error should name the tried providers: %v", err)
	}
}

func TestResolveUnknownProvider(t *testing.T) {
	_, err := Resolve([]string{"deepgram"}, Config{})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestWhisperXTranscribe(t *testing.T) {
	workDir := t.TempDir()
	audioPath := filepath.Join(workDir, "audio.wav")

	var gotName string
	var gotArgs []string
	engine := NewWhisperX(Config{Model: "medium", UVXBinary: "uvx"})
	engine.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		writeSegmentsJSON(t, filepath.Join(workDir, "audio.json"))
		return nil
	})

	segments, err := engine.Transcribe(context.Background(), audioPath, workDir, "English", "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if gotName != "uvx" {
		t.Fatalf("launcher = %q, want uvx", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"whisperx " + audioPath,
		"--model medium",
		"--output_format json",
		"--device cpu",
		"--language en",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestWhisperXTranscribeAutoDetectOmitsLanguage(t *testing.T) {
	workDir := t.TempDir()
	audioPath := filepath.Join(workDir, "audio.wav")

	var gotArgs []string
	engine := NewWhisperX(Config{})
	engine.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		writeSegmentsJSON(t, filepath.Join(workDir, "audio.json"))
		return nil
	})
	if _, err := engine.Transcribe(context.Background(), audioPath, workDir, "", ""); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if strings.Contains(strings.Join(gotArgs, " "), "--language") {
		t.Fatalf("auto-detect must omit --language: %v", gotArgs)
	}
}

func TestWhisperXTranscribeJobModelOverridesConfigured(t *testing.T) {
	workDir := t.TempDir()
	audioPath := filepath.Join(workDir, "audio.wav")

	var gotArgs []string
	engine := NewWhisperX(Config{Model: "small"})
	engine.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		writeSegmentsJSON(t, filepath.Join(workDir, "audio.json"))
		return nil
	})
	if _, err := engine.Transcribe(context.Background(), audioPath, workDir, "", "large"); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--model large") {
		t.Fatalf("job model should win over configured: %s", joined)
	}
	if strings.Contains(joined, "--model small") {
		t.Fatalf("configured model leaked into args: %s", joined)
	}
}

func TestWhisperCLITranscribe(t *testing.T) {
	workDir := t.TempDir()
	audioPath := filepath.Join(workDir, "speech.wav")

	var gotArgs []string
	engine := NewWhisperCLI(Config{WhisperBinary: "whisper"})
	engine.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		writeSegmentsJSON(t, filepath.Join(workDir, "speech.json"))
		return nil
	})

	segments, err := engine.Transcribe(context.Background(), audioPath, workDir, "ja", "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--model small") {
		t.Errorf("default model should be small: %s", joined)
	}
	if !strings.Contains(joined, "--language ja") {
		t.Errorf("args missing language hint: %s", joined)
	}
}

func TestTranscribeRequiresAudioPath(t *testing.T) {
	engine := NewWhisperX(Config{})
	if _, err := engine.Transcribe(context.Background(), "", t.TempDir(), "", ""); err == nil {
		t.Fatal("expected error for empty audio path")
	}
}

func TestTranscribeSurfacesToolFailure(t *testing.T) {
	cause := errors.New("exit status 1")
	engine := NewWhisperCLI(Config{})
	engine.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return cause
	})
	_, err := engine.Transcribe(context.Background(), filepath.Join(t.TempDir(), "audio.wav"), "", "", "")
	if err == nil || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped tool error, got %v", err)
	}
}
