package dedup

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	apperrors "go-jobsift/internal/errors"
)

// FileStore is the default Store: a UTF-8 text file with one id per line.
// A missing file is an empty store. Writes only ever append.
type FileStore struct {
	filePath string
}

func NewFileStore(filePath string) *FileStore {
	return &FileStore{filePath: filePath}
}

func (fs *FileStore) Path() string {
	return fs.filePath
}

// Load reads every id in the file. Blank lines and surrounding whitespace are ignored.
func (fs *FileStore) Load(ctx context.Context) (mapset.Set[string], error) {
	seen := mapset.NewThreadUnsafeSet[string]()

	f, err := os.Open(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return seen, nil
		}
		return nil, apperrors.StoreIO("open seen ids file "+fs.filePath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		seen.Add(id)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.StoreIO("read seen ids file "+fs.filePath, err)
	}

	return seen, nil
}

// Append writes each id followed by a newline and syncs before returning
func (fs *FileStore) Append(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	if dir := filepath.Dir(fs.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.StoreIO("create seen ids directory", err)
		}
	}

	f, err := os.OpenFile(fs.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return apperrors.StoreIO("open seen ids file for append "+fs.filePath, err)
	}

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(id)
		sb.WriteString("\n")
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return apperrors.StoreIO("append seen ids", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return apperrors.StoreIO("sync seen ids file", err)
	}
	if err := f.Close(); err != nil {
		return apperrors.StoreIO("close seen ids file", err)
	}
	return nil
}

func (fs *FileStore) Close() error { return nil }
