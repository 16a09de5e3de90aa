package deps

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// MediaRequirements lists the binaries the compositor shells out to.
func MediaRequirements(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ResolveBinary(ffmpegBinary, "ffmpeg"),
			Description: "Required for compositing caption overlays",
		},
		{
			Name:        "FFprobe",
			Command:     ResolveBinary(ffprobeBinary, "ffprobe"),
			Description: "Required for media inspection",
		},
	}
}

// ResolveBinary returns the absolute path of command when PATH lookup
// succeeds and the command as configured otherwise. An empty command falls
// back to fallback.
func ResolveBinary(command, fallback string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		command = fallback
	}
	if filepath.IsAbs(command) {
		return command
	}
	if resolved, err := exec.LookPath(command); err == nil {
		return resolved
	}
	return command
}
