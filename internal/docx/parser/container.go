package parser

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/slowsoftst-star/dethitoan2026thuan201/internal/exam"
)

const (
	documentPath = "word/document.xml"
	relsPath     = "word/_rels/document.xml.rels"
	mediaPrefix  = "word/media/"
)

// ErrNoDocument is returned when the container has no word/document.xml.
// This is the only fatal condition in the parser: everything else degrades.
var ErrNoDocument = errors.New("docx: word/document.xml not found in container")

// Container is an opened .docx package: the main document markup, the
// relationship manifest and the embedded media files.
type Container struct {
	DocumentXML string
	// Rels maps relationship IDs (rId4, ...) to media filenames.
	Rels   map[string]string
	Images []exam.ImageRecord
}

type relationships struct {
	XMLName xml.Name `xml:"Relationships"`
	Rels    []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// Open reads a .docx container from raw bytes. A missing main document is
// fatal; relationship or media trouble is logged and leaves the container
// with fewer (or zero) images.
func Open(raw []byte) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("docx: open container: %w", err)
	}

	c := &Container{Rels: map[string]string{}}

	doc, err := readEntry(zr, documentPath)
	if err != nil {
		return nil, ErrNoDocument
	}
	c.DocumentXML = string(doc)

	if rels, err := readEntry(zr, relsPath); err == nil {
		var parsed relationships
		if err := xml.Unmarshal(rels, &parsed); err != nil {
			log.Printf("docx: relationship manifest unreadable: %v", err)
		} else {
			for _, r := range parsed.Rels {
				if strings.Contains(r.Target, "media/") {
					c.Rels[r.ID] = path.Base(r.Target)
				}
			}
		}
	}

	c.Images = extractImages(zr, c.Rels)
	return c, nil
}

// extractImages walks word/media/ and produces one ImageRecord per file,
// resolving each back to a relationship ID by filename (first match wins).
func extractImages(zr *zip.Reader, rels map[string]string) []exam.ImageRecord {
	var names []string
	byName := map[string]*zip.File{}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, mediaPrefix) && !f.FileInfo().IsDir() {
			names = append(names, f.Name)
			byName[f.Name] = f
		}
	}
	sort.Strings(names)

	var images []exam.ImageRecord
	for _, name := range names {
		data, err := readZipFile(byName[name])
		if err != nil {
			log.Printf("docx: skipping media %s: %v", name, err)
			continue
		}
		filename := path.Base(name)
		images = append(images, exam.ImageRecord{
			ID:          fmt.Sprintf("img_%d", len(images)),
			Filename:    filename,
			Base64:      base64.StdEncoding.EncodeToString(data),
			ContentType: contentTypeFor(filename),
			RelID:       relIDFor(rels, filename),
		})
	}
	return images
}

func relIDFor(rels map[string]string, filename string) string {
	// map iteration order is random; pick the smallest matching rId so the
	// choice is stable across runs
	var ids []string
	for rid, fname := range rels {
		if fname == filename {
			ids = append(ids, rid)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

func contentTypeFor(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "image/png"
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return readZipFile(f)
		}
	}
	return nil, fmt.Errorf("entry %s not found", name)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
