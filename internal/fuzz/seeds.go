package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var builtinSeeds = []string{
	"",
	" ",
	"\n",
	"a \n",
	"a\t\r\nb  \rc \t",
	"x := 1 // c \n",
	"/* a  \n b */  \n",
	"s = '''keep  \n'''  \n",
	"`raw  \nraw`  \n",
	"\"open  \nnext \n",
	"\xff  \n",
	"\xef\xbb\xbfbom  \n",
}

// addCorpusSeeds adds the built-in inputs plus every file under the
// repository testdata directory, if it exists.
func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}

	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
