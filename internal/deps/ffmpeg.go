package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CheckFFmpeg resolves the configured FFmpeg binary and records its version
// string so status output can show exactly which build the pipeline runs.
func CheckFFmpeg(ctx context.Context, binary string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Extracts audio and burns subtitles into video",
	}

	name := strings.TrimSpace(binary)
	if name == "" {
		name = "ffmpeg"
	}
	resolved, err := exec.LookPath(name)
	if err != nil {
		result.Command = name
		result.Detail = fmt.Sprintf("binary %q not found", name)
		return result
	}
	result.Command = resolved
	result.Available = true

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, resolved, "-version").Output()
	if err != nil {
		result.Available = false
		result.Detail = fmt.Sprintf("failed to run %q: %v", resolved, err)
		return result
	}
	result.Detail = firstLine(string(out))
	return result
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
