package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileFlags encodes metadata about how a file was loaded.
type FileFlags uint8

const (
	// FileVirtual indicates content supplied from memory (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileTranscoded
)

// File is a loaded source file with precomputed line index. Content is
// normalized (no BOM, LF endings, UTF-8) and never mutated after load,
// so a File can be shared across goroutines.
type File struct {
	Path    string
	Content []byte
	lineIdx []uint32 // byte offset of each '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// Load reads a file from disk and normalizes BOM, CRLF and UTF-16.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, content), nil
}

// New builds a File from raw bytes, applying the same normalization
// Load performs.
func New(path string, content []byte) *File {
	flags := FileFlags(0)

	content, transcoded := decodeUTF16(content)
	if transcoded {
		flags |= FileTranscoded
	}
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}

	return &File{
		Path:    normalizePath(path),
		Content: content,
		lineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// NewVirtual builds an in-memory File.
func NewVirtual(name string, content []byte) *File {
	f := New(name, content)
	f.Flags |= FileVirtual
	return f
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	n := len(f.lineIdx)
	if f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// GetLine returns the 1-based line without its trailing newline.
// Out-of-range lines return "".
func (f *File) GetLine(lineNum int) string {
	if lineNum < 1 {
		return ""
	}
	num, err := safecast.Conv[uint32](lineNum)
	if err != nil {
		return ""
	}
	lenIdx, err := safecast.Conv[uint32](len(f.lineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start uint32
	switch {
	case num == 1:
		start = 0
	case num-2 < lenIdx:
		start = f.lineIdx[num-2] + 1
	default:
		return ""
	}

	end := lenContent
	if num-1 < lenIdx {
		end = f.lineIdx[num-1]
	}
	if start >= lenContent || start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// ReplaceLine returns the file content with the 1-based line swapped for
// text. Used when applying fixes; the file itself is not mutated.
func (f *File) ReplaceLine(lineNum int, text string) ([]byte, bool) {
	if lineNum < 1 || lineNum > f.LineCount() {
		return nil, false
	}
	num := uint32(lineNum)
	lenIdx := uint32(len(f.lineIdx))
	lenContent := uint32(len(f.Content))

	var start uint32
	if num > 1 {
		start = f.lineIdx[num-2] + 1
	}
	end := lenContent
	if num-1 < lenIdx {
		end = f.lineIdx[num-1]
	}

	out := make([]byte, 0, len(f.Content)+len(text))
	out = append(out, f.Content[:start]...)
	out = append(out, text...)
	out = append(out, f.Content[end:]...)
	return out, true
}

// OffsetPos converts a byte offset into a 1-based line and column.
func (f *File) OffsetPos(off int) (line, col int) {
	if off < 0 {
		off = 0
	}
	target, err := safecast.Conv[uint32](off)
	if err != nil {
		return 1, 1
	}
	// binary search: greatest lineIdx[i] < target
	lo, hi := 0, len(f.lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if f.lineIdx[mid] < target {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if hi < 0 {
		return 1, int(target) + 1
	}
	return hi + 2, int(target-f.lineIdx[hi]-1) + 1
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
