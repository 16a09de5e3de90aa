package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"reelcap/internal/services"
	"reelcap/internal/textutil"
)

// ResolveVideo returns the path of a base video. An existing path is used as
// given; otherwise name is looked up in videoDir.
func ResolveVideo(name, videoDir string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", services.Wrap(services.ErrConfiguration, "workflow", "resolve video", "no base video configured", nil)
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return filepath.Abs(name)
	}
	if videoDir != "" {
		candidate := filepath.Join(videoDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "workflow", "resolve video", fmt.Sprintf("video %q not found", name), nil)
}

// OutputPathFor returns where a run titled title writes its video.
func OutputPathFor(outputDir, title string) (string, error) {
	name := textutil.SanitizeFileName(title)
	if name == "" {
		return "", services.Wrap(services.ErrValidation, "workflow", "output path", "title has no usable characters", nil)
	}
	return filepath.Join(outputDir, name+".mp4"), nil
}

func requireFile(kind, path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return services.Wrap(services.ErrNotFound, "workflow", "inputs", fmt.Sprintf("%s %q not found", kind, path), nil)
	case err != nil:
		return services.Wrap(services.ErrConfiguration, "workflow", "inputs", fmt.Sprintf("stat %s", kind), err)
	case info.IsDir():
		return services.Wrap(services.ErrValidation, "workflow", "inputs", fmt.Sprintf("%s %q is a directory", kind, path), nil)
	}
	return nil
}
