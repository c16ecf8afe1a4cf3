package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hardsub/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured command detail, got %#v", results[2])
	}
}

func TestRequirementsUseConfiguredTools(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = "/opt/ffmpeg/bin/ffmpeg"
	reqs := Requirements(&cfg)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected configured ffmpeg path, got %s", reqs[0].Command)
	}
	if reqs[0].Optional {
		t.Fatal("ffmpeg must not be optional")
	}
	if !reqs[1].Optional || !reqs[2].Optional {
		t.Fatal("transcription providers should be optional individually")
	}
}

func TestCheckFFmpegReportsVersion(t *testing.T) {
	binDir := t.TempDir()
	ffmpeg := filepath.Join(binDir, "ffmpeg")
	script := []byte("#!/bin/sh\necho 'ffmpeg version 7.1 Copyright (c) 2000-2024'\n")
	if err := os.WriteFile(ffmpeg, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := CheckFFmpeg(context.Background(), ffmpeg)
	if !status.Available {
		t.Fatalf("expected stub ffmpeg to be available, detail %q", status.Detail)
	}
	if status.Detail != "ffmpeg version 7.1 Copyright (c) 2000-2024" {
		t.Fatalf("unexpected version detail: %q", status.Detail)
	}
}

func TestCheckFFmpegMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	status := CheckFFmpeg(context.Background(), "definitely-not-ffmpeg")
	if status.Available {
		t.Fatal("expected missing ffmpeg to be unavailable")
	}
	if status.Detail == "" {
		t.Fatal("expected detail for missing ffmpeg")
	}
}
