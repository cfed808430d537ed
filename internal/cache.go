package internal

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	tt "github.com/gnolang/totality/internal/types"
)

type cacheEntry struct {
	Hash   string
	Issues []tt.Issue
}

// Cache remembers the issues of a package directory together with a hash
// of its Go files. An entry is valid while none of those files change.
type Cache struct {
	entries map[string]cacheEntry
	mutex   sync.RWMutex
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached issues of dir if its Go files are unchanged.
func (c *Cache) Get(dir string) ([]tt.Issue, bool) {
	hash, err := getPackageHash(dir)
	if err != nil {
		return nil, false
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[dir]
	if !exists || entry.Hash != hash {
		return nil, false
	}
	return entry.Issues, true
}

// Set records issues for the current content of dir.
func (c *Cache) Set(dir string, issues []tt.Issue) error {
	hash, err := getPackageHash(dir)
	if err != nil {
		return fmt.Errorf("failed to hash package: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[dir] = cacheEntry{Hash: hash, Issues: issues}
	return nil
}

func (c *Cache) Invalidate(dir string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, dir)
}

// getPackageHash hashes the names and contents of the Go files in dir.
func getPackageHash(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	hash := md5.New()
	for _, name := range files {
		if err := hashFile(hash, name); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func hashFile(w io.Writer, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(w, "%s\x00", filepath.Base(filename))
	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("failed to calculate hash: %w", err)
	}
	return nil
}
