package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Book contains the metadata needed for epub generation.
type Book struct {
	Title      string
	Author     string
	Language   string // ISO 639-1 code (e.g., "en")
	Identifier string // Optional; a urn:uuid is generated when empty
}

// Chapter is one content file: a title and its paragraphs in order.
type Chapter struct {
	Title      string
	Paragraphs []string
}

// Builder creates ePub 3.0 files from plain chapter text. It exists for
// fixtures and for assembling documents that Open can then mutate; it is not
// a general-purpose authoring tool.
type Builder struct {
	book     Book
	chapters []Chapter
}

// NewBuilder creates a new epub builder.
func NewBuilder(book Book, chapters []Chapter) *Builder {
	return &Builder{
		book:     book,
		chapters: chapters,
	}
}

// Build generates the epub and writes it to the specified path.
func (b *Builder) Build(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return b.WriteTo(f)
}

// WriteTo writes the epub to a writer.
func (b *Builder) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	// 1. Write mimetype (must be first, uncompressed)
	if err := b.writeMimetype(zw); err != nil {
		return err
	}

	// 2. Write META-INF/container.xml
	if err := b.writeContainer(zw); err != nil {
		return err
	}

	// 3. Write OEBPS/content.opf (package document)
	if err := b.writeEntry(zw, "OEBPS/content.opf", b.generatePackage()); err != nil {
		return err
	}

	// 4. Write OEBPS/nav.xhtml (navigation)
	if err := b.writeEntry(zw, "OEBPS/nav.xhtml", b.generateNavigation()); err != nil {
		return err
	}

	// 5. Write OEBPS/styles/style.css
	if err := b.writeEntry(zw, "OEBPS/styles/style.css", defaultStylesheet); err != nil {
		return err
	}

	// 6. Write chapter files
	for i, ch := range b.chapters {
		name := chapterPath(i)
		if err := b.writeEntry(zw, name, generateChapterXHTML(ch)); err != nil {
			return fmt.Errorf("failed to write chapter %s: %w", name, err)
		}
	}

	return nil
}

// BuildToBuffer generates the epub and returns it as a byte buffer.
func (b *Builder) BuildToBuffer() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := b.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeMimetype writes the mimetype file (must be first and uncompressed).
func (b *Builder) writeMimetype(zw *zip.Writer) error {
	// Create with Store method (no compression) as required by ePub spec
	header := &zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create mimetype: %w", err)
	}
	_, err = w.Write([]byte("application/epub+zip"))
	return err
}

// writeContainer writes META-INF/container.xml.
func (b *Builder) writeContainer(zw *zip.Writer) error {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
	return b.writeEntry(zw, "META-INF/container.xml", content)
}

func (b *Builder) writeEntry(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	_, err = w.Write([]byte(content))
	return err
}

// generatePackage renders OEBPS/content.opf.
func (b *Builder) generatePackage() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="3.0" unique-identifier="bookid">
  <metadata>
`)
	fmt.Fprintf(&sb, "    <dc:identifier id=\"bookid\">%s</dc:identifier>\n", EscapeText(b.identifier()))
	fmt.Fprintf(&sb, "    <dc:title>%s</dc:title>\n", EscapeText(b.book.Title))
	fmt.Fprintf(&sb, "    <dc:creator>%s</dc:creator>\n", EscapeText(b.book.Author))
	fmt.Fprintf(&sb, "    <dc:language>%s</dc:language>\n", EscapeText(b.book.Language))
	fmt.Fprintf(&sb, "    <meta property=\"dcterms:modified\">%s</meta>\n", time.Now().UTC().Format("2006-01-02T15:04:05Z"))
	sb.WriteString(`  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="css" href="styles/style.css" media-type="text/css"/>
`)
	for i := range b.chapters {
		fmt.Fprintf(&sb, "    <item id=\"%s\" href=\"chapters/%s.xhtml\" media-type=\"application/xhtml+xml\"/>\n",
			chapterID(i), chapterID(i))
	}
	sb.WriteString("  </manifest>\n  <spine>\n")
	for i := range b.chapters {
		fmt.Fprintf(&sb, "    <itemref idref=\"%s\"/>\n", chapterID(i))
	}
	sb.WriteString("  </spine>\n</package>\n")
	return sb.String()
}

// generateNavigation renders OEBPS/nav.xhtml.
func (b *Builder) generateNavigation() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
  <title>Contents</title>
</head>
<body>
  <nav epub:type="toc">
    <ol>
`)
	for i, ch := range b.chapters {
		title := ch.Title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		fmt.Fprintf(&sb, "      <li><a href=\"chapters/%s.xhtml\">%s</a></li>\n", chapterID(i), EscapeText(title))
	}
	sb.WriteString(`    </ol>
  </nav>
</body>
</html>
`)
	return sb.String()
}

// generateChapterXHTML renders one chapter file with one <p> per paragraph.
// Empty paragraphs are kept as empty elements so document positions survive
// the round trip.
func generateChapterXHTML(ch Chapter) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
`)
	fmt.Fprintf(&sb, "  <title>%s</title>\n", EscapeText(ch.Title))
	sb.WriteString(`  <link rel="stylesheet" type="text/css" href="../styles/style.css"/>
</head>
<body>
`)
	if ch.Title != "" {
		fmt.Fprintf(&sb, "  <h1>%s</h1>\n", EscapeText(ch.Title))
	}
	for _, p := range ch.Paragraphs {
		fmt.Fprintf(&sb, "  <p>%s</p>\n", EscapeText(p))
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func (b *Builder) identifier() string {
	if b.book.Identifier != "" {
		return b.book.Identifier
	}
	return "urn:uuid:" + uuid.New().String()
}

func chapterID(index int) string {
	return fmt.Sprintf("chapter_%03d", index+1)
}

func chapterPath(index int) string {
	return fmt.Sprintf("OEBPS/chapters/%s.xhtml", chapterID(index))
}

const defaultStylesheet = `/* Glosa ePub Stylesheet */

body {
  font-family: Georgia, "Times New Roman", serif;
  font-size: 1em;
  line-height: 1.6;
  margin: 1em;
  text-align: justify;
}

h1, h2, h3 {
  font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  font-weight: bold;
  margin-top: 1.5em;
  margin-bottom: 0.5em;
  text-align: left;
}

p {
  margin: 0.5em 0;
  text-indent: 1.5em;
}

p:first-of-type,
h1 + p, h2 + p, h3 + p {
  text-indent: 0;
}
`
