// Package cache stores per-file lint outcomes keyed by file path and
// content hash, so unchanged files skip rule evaluation on the next
// run. Keying by path keeps identical-content files apart, since
// diagnostics embed the path. Entries are invalidated by any change to
// the rule set via the rules hash baked into the key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"winter/internal/diag"
	"winter/internal/rules"
)

// Entry is the cached per-file outcome. Timings are not cached; a
// cache hit contributes no evaluation time.
type Entry struct {
	Diagnostics  []diag.Diagnostic
	ErrorCount   int
	WarningCount int
	InfoCount    int
}

type Cache struct {
	dir       string
	rulesHash [32]byte
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "winter")
	}
	return filepath.Join(base, "winter")
}

// Open creates the cache directory if needed.
func Open(dir string, rulesHash [32]byte) (*Cache, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, rulesHash: rulesHash}, nil
}

// RulesHash fingerprints the rule set: any change to a rule's
// condition, severity, target or enablement produces a new hash.
func RulesHash(rs []*rules.Rule) [32]byte {
	h := sha256.New()
	for _, r := range rs {
		fmt.Fprintf(h, "%s\x00%s\x00%d\x00%s\x00%s\x00%s\x00%v\n",
			r.ID, r.Condition, r.Severity, r.Target.Kind, r.Target.Name, r.Target.Parent, r.Enabled)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (c *Cache) path(filePath string, contentHash [32]byte) string {
	pathHash := sha256.Sum256([]byte(filePath))
	name := hex.EncodeToString(pathHash[:8]) + "-" +
		hex.EncodeToString(contentHash[:]) + "-" +
		hex.EncodeToString(c.rulesHash[:8]) + ".bin"
	return filepath.Join(c.dir, name)
}

// Get returns the cached entry for a file, if present and readable.
// Corrupt entries read as misses.
func (c *Cache) Get(filePath string, contentHash [32]byte) (*Entry, bool) {
	data, err := os.ReadFile(c.path(filePath, contentHash))
	if err != nil {
		return nil, false
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &e, true
}

// Put stores an entry; failures are returned but safe to ignore.
func (c *Cache) Put(filePath string, contentHash [32]byte, e *Entry) error {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	dst := c.path(filePath, contentHash)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

// Prune removes entries older than maxAge.
func (c *Cache) Prune(maxAge time.Duration) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, ent := range entries {
		info, err := ent.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(c.dir, ent.Name()))
		}
	}
	return nil
}
