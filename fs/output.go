package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// NextOutputName returns the first name of the form prefix + NN + ext that
// does not exist in dir, where NN starts at 01 and is zero-padded to two
// digits. Numbers above 99 keep growing in width.
func NextOutputName(dir, prefix, ext string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s%02d%s", prefix, n, ext)
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return name
		}
	}
}
