package audio

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Cache maps synthesis requests to files on disk so repeated drills do not
// synthesize the same text twice.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Path returns the file for req produced by a provider with the given
// settings. The first two hash characters form a subdirectory.
func (c *Cache) Path(settings string, req Request, ext string) string {
	h := md5.New()
	h.Write([]byte(req.Text))
	h.Write([]byte{0})
	h.Write([]byte(req.Lang))
	h.Write([]byte{0})
	h.Write([]byte(fmt.Sprintf("%.2f", req.Rate)))
	h.Write([]byte{0})
	h.Write([]byte(settings))
	hash := hex.EncodeToString(h.Sum(nil))

	return filepath.Join(c.dir, hash[:2], hash[2:]+"."+ext)
}

// Has reports whether a non-empty file exists at path.
func (c *Cache) Has(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Stats returns the number and total size of cached files.
func (c *Cache) Stats() (fileCount int, totalSize int64, err error) {
	err = filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
			totalSize += info.Size()
		}
		return nil
	})
	return fileCount, totalSize, err
}

// Clear removes all cached audio files.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.dir)
}
