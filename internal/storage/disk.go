package storage

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// Files lists the on-disk artifacts a backend keeps for path. Badger stores a
// directory; SQLite may leave -wal and -shm siblings next to the database.
func Files(backend, path string) []string {
	if path == "" {
		return nil
	}
	switch backend {
	case BackendSQLite:
		return []string{path, path + "-wal", path + "-shm"}
	default:
		return []string{path}
	}
}

// DiskUsage sums the bytes held by a backend's files. Artifacts that do not
// exist yet count as zero.
func DiskUsage(backend, path string) (int64, error) {
	var total int64
	for _, p := range Files(backend, path) {
		n, err := pathSize(p)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func pathSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
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
		total += info.Size()
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	return total, err
}

