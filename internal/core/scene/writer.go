package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AlexGameTester/2016-solar-project/internal/core/physics"
)

// Write serializes s in the format Loader reads. Numbers carry 17
// significant digits so a reloaded scene is bit-identical. It must not run
// while the scene is being advanced.
func Write(w io.Writer, s physics.Scene) error {
	bw := bufio.NewWriter(w)
	for i, b := range s {
		if b == nil {
			return fmt.Errorf("body %d: %w", i, physics.ErrNilBody)
		}
		color := b.Color
		if color == "" {
			color = "white"
		}
		if _, err := fmt.Fprintf(bw, "%s %.16e %s %.16e %.16e %.16e %.16e %.16e\n",
			b.Kind, b.Radius, color, b.Mass, b.X, b.Y, b.Vx, b.Vy); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes s to path through a temporary file so a reader never sees
// a partial scene.
func WriteFile(path string, s physics.Scene) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create scene file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("write scene: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close scene file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
