// Package archive produces the archival handoff record for a run
// folder: a manifest of every file under the folder, uploaded to S3
// when the folder reaches outgoing.
package archive

import (
	"io/fs"
	"path/filepath"
	"time"
)

// ManifestEntry describes one file inside a run folder.
type ManifestEntry struct {
	// Path is relative to the run folder root, slash-separated.
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Manifest is the archival record for one run folder.
type Manifest struct {
	RunFolder string          `json:"run_folder"`
	CreatedAt time.Time       `json:"created_at"`
	FileCount int             `json:"file_count"`
	TotalSize int64           `json:"total_size"`
	Entries   []ManifestEntry `json:"entries"`
}

// BuildManifest walks the run folder at path and collects every
// regular file. Entries come back in the deterministic order WalkDir
// visits them.
func BuildManifest(path string) (*Manifest, error) {
	m := &Manifest{
		RunFolder: filepath.Base(path),
		CreatedAt: time.Now().UTC(),
	}

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		m.Entries = append(m.Entries, ManifestEntry{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime().UTC(),
		})
		m.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.FileCount = len(m.Entries)
	return m, nil
}
