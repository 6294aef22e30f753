package source

import (
	"bytes"
	"slices"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// normalizeCRLF replaces \r\n with \n, leaving lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false
	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// decodeUTF16 converts UTF-16 content (detected by BOM) to UTF-8.
// Installer authoring tools on Windows commonly emit UTF-16 sources.
func decodeUTF16(content []byte) ([]byte, bool) {
	if len(content) < 2 {
		return content, false
	}
	var enc unicode.Endianness
	switch {
	case content[0] == 0xFF && content[1] == 0xFE:
		enc = unicode.LittleEndian
	case content[0] == 0xFE && content[1] == 0xFF:
		enc = unicode.BigEndian
	default:
		return content, false
	}

	decoder := unicode.UTF16(enc, unicode.UseBOM).NewDecoder()
	decoded, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return content, false
	}
	return decoded, true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}
