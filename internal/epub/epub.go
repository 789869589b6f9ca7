// Package epub reads an EPUB archive into memory, exposes its XHTML parts and
// package metadata, and writes the possibly-mutated archive back out. Entries
// that are never mutated are preserved byte-for-byte; a markup part is
// re-serialized (and so normalized) only when one of its paragraphs is
// replaced.
package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// entry is one file inside the archive, held fully in memory for the run.
type entry struct {
	name string
	data []byte
}

// Document is an opened EPUB. It owns its entries for the duration of a
// translation run; Parts mutate entry contents in place and Write persists
// the whole archive.
type Document struct {
	entries []*entry
	opfIdx  int // index of the package document, -1 if absent
	title   string
	creator string
}

// Open reads the archive at path into memory and resolves package metadata.
func Open(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening epub %s: %w", path, err)
	}
	defer r.Close()

	doc := &Document{opfIdx: -1}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		doc.entries = append(doc.entries, &entry{name: f.Name, data: data})
	}

	doc.resolvePackage()
	return doc, nil
}

// Title returns the dc:title from the package document, or "".
func (d *Document) Title() string { return d.title }

// Creator returns the dc:creator from the package document, or "".
func (d *Document) Creator() string { return d.creator }

// SetTitle overwrites the dc:title element in the package document. A missing
// element is left alone; callers resolve display metadata separately.
func (d *Document) SetTitle(title string) {
	d.title = title
	d.rewriteMetadata("title", title)
}

// SetCreator overwrites the dc:creator element in the package document.
func (d *Document) SetCreator(creator string) {
	d.creator = creator
	d.rewriteMetadata("creator", creator)
}

// Parts returns the document's markup parts in archive order.
func (d *Document) Parts() []*Part {
	var parts []*Part
	for _, e := range d.entries {
		if isMarkupEntry(e.name) {
			parts = append(parts, &Part{entry: e})
		}
	}
	return parts
}

// Write serializes the archive to outputPath. The mimetype entry is written
// first and uncompressed, as the container format requires.
func (d *Document) Write(outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := d.writeTo(f); err != nil {
		return fmt.Errorf("writing epub %s: %w", outputPath, err)
	}
	return nil
}

func (d *Document) writeTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	for _, e := range d.entries {
		if e.name == "mimetype" {
			header := &zip.FileHeader{Name: e.name, Method: zip.Store}
			ew, err := zw.CreateHeader(header)
			if err != nil {
				return err
			}
			if _, err := ew.Write(e.data); err != nil {
				return err
			}
			break
		}
	}

	for _, e := range d.entries {
		if e.name == "mimetype" {
			continue
		}
		ew, err := zw.Create(e.name)
		if err != nil {
			return err
		}
		if _, err := ew.Write(e.data); err != nil {
			return err
		}
	}

	return zw.Close()
}

// containerXML mirrors META-INF/container.xml.
type containerXML struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// opfPackage mirrors the metadata section of the package document.
type opfPackage struct {
	Metadata struct {
		Titles   []string `xml:"title"`
		Creators []string `xml:"creator"`
	} `xml:"metadata"`
}

// resolvePackage locates the OPF via container.xml and reads dc:title and
// dc:creator. Archives without a resolvable package document still open;
// metadata stays empty and callers fall back accordingly.
func (d *Document) resolvePackage() {
	container := d.lookup("META-INF/container.xml")
	if container == nil {
		return
	}

	var c containerXML
	if err := xml.Unmarshal(container.data, &c); err != nil || len(c.Rootfiles) == 0 {
		return
	}

	for i, e := range d.entries {
		if e.name == c.Rootfiles[0].FullPath {
			d.opfIdx = i
			break
		}
	}
	if d.opfIdx < 0 {
		return
	}

	var pkg opfPackage
	if err := xml.Unmarshal(d.entries[d.opfIdx].data, &pkg); err != nil {
		return
	}
	if len(pkg.Metadata.Titles) > 0 {
		d.title = strings.TrimSpace(pkg.Metadata.Titles[0])
	}
	if len(pkg.Metadata.Creators) > 0 {
		d.creator = strings.TrimSpace(pkg.Metadata.Creators[0])
	}
}

// rewriteMetadata replaces the text content of the first dc:<element> in the
// package document.
func (d *Document) rewriteMetadata(element, value string) {
	if d.opfIdx < 0 {
		return
	}
	pattern := regexp.MustCompile(`(<dc:` + element + `[^>]*>)(?s:.*?)(</dc:` + element + `>)`)
	opf := d.entries[d.opfIdx]
	replaced := false
	opf.data = pattern.ReplaceAllFunc(opf.data, func(m []byte) []byte {
		if replaced {
			return m
		}
		replaced = true
		sub := pattern.FindSubmatch(m)
		var buf bytes.Buffer
		buf.Write(sub[1])
		xml.EscapeText(&buf, []byte(value))
		buf.Write(sub[2])
		return buf.Bytes()
	})
}

func (d *Document) lookup(name string) *entry {
	for _, e := range d.entries {
		if e.name == name {
			return e
		}
	}
	return nil
}

func isMarkupEntry(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xhtml", ".html", ".htm":
		return true
	default:
		return false
	}
}
