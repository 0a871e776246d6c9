package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyStem is returned when a Document has no stem.
var ErrEmptyStem = errors.New("artifact stem is empty")

// Paths are the files written for one crawl. Raw and Links are empty when
// the artifact was not written.
type Paths struct {
	Primary string
	Raw     string
	Links   string
}

// WriteError reports a failed artifact write.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// FileWriter writes artifact families into an output directory.
type FileWriter struct {
	dir string
}

// NewFileWriter creates a FileWriter rooted at dir.
func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir}
}

// Dir returns the output directory.
func (w *FileWriter) Dir() string {
	return w.dir
}

// Prepare creates the output directory and the raw capture subdirectory.
// It is idempotent.
func (w *FileWriter) Prepare() error {
	for _, dir := range []string{w.dir, filepath.Join(w.dir, RawDirName)} {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return &WriteError{Path: dir, Err: err}
		}
	}
	return nil
}

// Write renders doc and writes its artifacts: the raw capture when
// requested and present, the link index when requested and non-empty,
// then the primary document. When any write fails the files already
// written for doc are removed.
func (w *FileWriter) Write(doc *Document) (Paths, error) {
	if doc.Stem == "" {
		return Paths{}, ErrEmptyStem
	}
	if err := w.Prepare(); err != nil {
		return Paths{}, err
	}

	var (
		paths   Paths
		written []string
	)
	fail := func(err error) (Paths, error) {
		for _, p := range written {
			_ = os.Remove(p) //nolint:errcheck // best effort cleanup
		}
		return Paths{}, err
	}

	if doc.SaveRawCapture && doc.RawHTML != "" {
		path := filepath.Join(w.dir, RawDirName, RawName(doc.Stem))
		if err := writeFile(path, []byte(doc.RawHTML)); err != nil {
			return fail(err)
		}
		written = append(written, path)
		paths.Raw = path
	}

	if doc.SaveLinks && len(doc.Links) > 0 {
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(NewLinkIndex(doc.URL, doc.Links)); err != nil {
			return fail(fmt.Errorf("failed to encode link index: %w", err))
		}
		path := filepath.Join(w.dir, LinksName(doc.Stem))
		if err := writeFile(path, buf.Bytes()); err != nil {
			return fail(err)
		}
		written = append(written, path)
		paths.Links = path
	}

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(doc); err != nil {
		return fail(fmt.Errorf("failed to render markdown: %w", err))
	}
	path := filepath.Join(w.dir, PrimaryName(doc.Stem))
	if err := writeFile(path, buf.Bytes()); err != nil {
		return fail(err)
	}
	paths.Primary = path

	return paths, nil
}

// writeFile writes data to a temporary file next to path and renames it
// into place, so readers never observe a partial file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()        //nolint:errcheck // already failing
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best effort cleanup
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// baseWriter holds the destination shared by the renderers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
