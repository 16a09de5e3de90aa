package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"reelcap/internal/decoration"
)

// WritePNG saves the decoration bitmap to path, creating parent directories.
func WritePNG(d decoration.Decoration, path string) error {
	if d.Bitmap == nil {
		return fmt.Errorf("write %s: decoration has no bitmap", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create png directory: %w", err)
	}
	if err := imaging.Save(d.Bitmap, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
