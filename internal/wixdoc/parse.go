package wixdoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"winter/internal/source"
)

// ParseError reports a malformed source document.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

var disableRe = regexp.MustCompile(`winter-disable(-next-line|-file)?\s*([\w\-,\s]*)`)

// Parse builds the element arena from a normalized source file.
// InputOffset before each Token call is the byte offset where that
// token starts.
func Parse(f *source.File) (*Document, error) {
	doc := &Document{
		Path:     f.Path,
		Root:     NoParent,
		file:     f,
		disables: make(map[int]disable),
	}

	dec := xml.NewDecoder(bytes.NewReader(f.Content))
	var stack []int

	for {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, parseError(f, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, col := f.OffsetPos(offset)
			idx := len(doc.Elements)
			parent := NoParent
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			doc.Elements = append(doc.Elements, Element{
				Name:       t.Name.Local,
				Attributes: attrMap(t.Attr),
				Parent:     parent,
				Line:       line,
				Column:     col,
				ByteOffset: offset,
			})
			if parent == NoParent {
				if doc.Root == NoParent {
					doc.Root = idx
				}
			} else {
				doc.Elements[parent].Children = append(doc.Elements[parent].Children, idx)
			}
			stack = append(stack, idx)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				if text := strings.TrimSpace(string(t)); text != "" {
					cur := stack[len(stack)-1]
					if doc.Elements[cur].Text != "" {
						doc.Elements[cur].Text += " "
					}
					doc.Elements[cur].Text += text
				}
			}

		case xml.Comment:
			line, _ := f.OffsetPos(offset)
			scanDisable(doc, string(t), line)
		}
	}

	if doc.Root == NoParent {
		return nil, &ParseError{Path: f.Path, Line: 1, Msg: "document has no root element"}
	}
	return doc, nil
}

func parseError(f *source.File, err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{Path: f.Path, Line: syn.Line, Msg: syn.Msg}
	}
	return &ParseError{Path: f.Path, Line: 1, Msg: err.Error()}
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		m[a.Name.Local] = a.Value
	}
	return m
}

func scanDisable(doc *Document, comment string, line int) {
	m := disableRe.FindStringSubmatch(comment)
	if m == nil {
		return
	}
	names := strings.TrimSpace(m[2])

	if m[1] == "-file" {
		if names == "" {
			doc.fileAll = true
			return
		}
		for _, r := range strings.Split(names, ",") {
			r = strings.TrimSpace(r)
			switch r {
			case "":
			case "all":
				doc.fileAll = true
			default:
				if doc.fileDisables == nil {
					doc.fileDisables = make(map[string]struct{})
				}
				doc.fileDisables[r] = struct{}{}
			}
		}
		return
	}

	dis := disable{nextLine: m[1] == "-next-line"}
	if names != "" {
		dis.rules = make(map[string]struct{})
		for _, r := range strings.Split(names, ",") {
			if r = strings.TrimSpace(r); r != "" {
				dis.rules[r] = struct{}{}
			}
		}
	}
	doc.disables[line] = dis
}
