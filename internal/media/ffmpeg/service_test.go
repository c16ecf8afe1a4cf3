package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hardsub/internal/subtitles"
)

type recordedCall struct {
	name string
	args []string
}

func newRecordingService(t *testing.T, binary string, err error) (*Service, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	svc := NewService(binary)
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return err
	})
	return svc, calls
}

func TestNewServiceDefaultsBinary(t *testing.T) {
	if got := NewService("").Binary(); got != DefaultBinary {
		t.Fatalf("Binary() = %q, want %q", got, DefaultBinary)
	}
	if got := NewService("/opt/ffmpeg/bin/ffmpeg").Binary(); got != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("Binary() = %q", got)
	}
}

func TestExtractAudioArguments(t *testing.T) {
	svc, calls := newRecordingService(t, "ffmpeg", nil)
	if err := svc.ExtractAudio(context.Background(), "/videos/in.mkv", "/staging/audio.wav"); err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(*calls))
	}
	args := (*calls)[0].args
	joined := strings.Join(args, " ")
	for _, want := range []string{"-i /videos/in.mkv", "-ac 1", "-ar 16000", "-c:a pcm_s16le", "-vn"} {
		if !strings.Contains(joined, want) {
			t.Errorf("extract args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "/staging/audio.wav" {
		t.Errorf("destination must be the final argument, got %q", args[len(args)-1])
	}
}

func TestBurnInArguments(t *testing.T) {
	svc, calls := newRecordingService(t, "ffmpeg", nil)
	style := subtitles.Style{FontSize: 28, FontColor: "FFFF00", Position: subtitles.PositionTop}
	err := svc.BurnIn(context.Background(), "/videos/in.mp4", "/staging/subs.srt", "/out/final.mp4", style)
	if err != nil {
		t.Fatalf("BurnIn: %v", err)
	}
	args := (*calls)[0].args
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-c:a copy") {
		t.Errorf("burn-in must copy the audio stream: %s", joined)
	}
	wantFilter := "subtitles='/staging/subs.srt':force_style='Fontsize=28,PrimaryColour=&H0000FFFF&,Alignment=8'"
	if !strings.Contains(joined, wantFilter) {
		t.Errorf("burn-in args missing filter %q: %s", wantFilter, joined)
	}
}

func TestRunFailureSurfacesError(t *testing.T) {
	cause := errors.New("exit status 1")
	svc, _ := newRecordingService(t, "ffmpeg", cause)
	err := svc.ExtractAudio(context.Background(), "in.mkv", "out.wav")
	if err == nil || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ffmpeg extract") {
		t.Fatalf("error should name the operation: %v", err)
	}
}

func TestProbeUsesVersionFlag(t *testing.T) {
	svc, calls := newRecordingService(t, "ffmpeg", nil)
	if err := svc.Probe(context.Background()); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	args := (*calls)[0].args
	if len(args) != 1 || args[0] != "-version" {
		t.Fatalf("Probe args = %v, want [-version]", args)
	}
}
