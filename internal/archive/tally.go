// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"os"
	"path/filepath"

	"github.com/pdiddy/news-archive/internal/record"
)

// Tally counts what an archive directory holds.
type Tally struct {
	Archives   int
	Articles   int
	Unresolved int // archives with at least one Unknown metadata field
	Unreadable []string
}

// TallyDir parses every .txt archive directly inside dir. Archives that do
// not parse are listed in Unreadable rather than failing the tally.
func TallyDir(dir string) (Tally, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return Tally{}, err
	}

	var t Tally
	for _, path := range paths {
		arc, err := readArchive(path)
		if err != nil {
			t.Unreadable = append(t.Unreadable, filepath.Base(path))
			continue
		}
		t.Archives++
		t.Articles += len(arc.Articles)
		if len(arc.Header.Metadata.Unresolved()) > 0 {
			t.Unresolved++
		}
	}
	return t, nil
}

func readArchive(path string) (*record.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return record.Parse(f)
}
