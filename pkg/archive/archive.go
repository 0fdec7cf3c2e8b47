// Package archive gives read access to zip containers whose entry names may
// be stored in a legacy 8-bit encoding.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

const zipMimeType = "application/zip"

var (
	ErrNotArchive      = errors.New("archive: not a zip container")
	ErrUnknownEncoding = errors.New("archive: unknown name encoding")
)

// ResolveEncoding looks up a character encoding by its IANA name or alias
// (e.g. "cp866", "IBM866", "windows-1251"), falling back to WHATWG labels.
func ResolveEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(ErrUnknownEncoding, "empty encoding name")
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, errors.Wrapf(ErrUnknownEncoding, "%q", name)
}

// Entry is a non-directory member of an open Archive. Its reader is only
// usable while the Archive is open.
type Entry struct {
	Name string
	Size uint64

	file *zip.File
}

func (e *Entry) Open() (io.ReadCloser, error) {
	rc, err := e.file.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive entry %s", e.Name)
	}
	return rc, nil
}

type Archive struct {
	Path string

	f       *os.File
	reader  *zip.Reader
	decoder *encoding.Decoder
}

// Open opens the zip container at path. Entry names without the UTF-8 flag
// are decoded with the named encoding.
func Open(path, nameEncoding string) (*Archive, error) {
	enc, err := ResolveEncoding(nameEncoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	a, err := newArchive(f, path, enc)
	if err != nil {
		f.Close()
		return nil, err
	}
	return a, nil
}

func newArchive(f *os.File, path string, enc encoding.Encoding) (*Archive, error) {
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !isZip(mtype) {
		return nil, errors.Wrapf(ErrNotArchive, "%s is %s", path, mtype.String())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.WithStack(err)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r, err := zip.NewReader(f, stat.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read zip %s", path)
	}

	return &Archive{
		Path:    path,
		f:       f,
		reader:  r,
		decoder: enc.NewDecoder(),
	}, nil
}

// isZip reports whether m is a zip container or a format built on one.
func isZip(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(zipMimeType) {
			return true
		}
	}
	return false
}

// Entries lists the non-directory entries accepted by keep, in archive order.
// A nil keep accepts everything.
func (a *Archive) Entries(keep func(name string) bool) []*Entry {
	entries := make([]*Entry, 0, len(a.reader.File))
	for _, f := range a.reader.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := a.decodeName(f)
		if keep != nil && !keep(name) {
			continue
		}
		entries = append(entries, &Entry{
			Name: name,
			Size: f.UncompressedSize64,
			file: f,
		})
	}
	return entries
}

func (a *Archive) decodeName(f *zip.File) string {
	if !f.NonUTF8 {
		return f.Name
	}
	name, err := a.decoder.String(f.Name)
	if err != nil {
		return f.Name
	}
	return name
}

func (a *Archive) Close() error {
	return errors.WithStack(a.f.Close())
}

// With opens the archive, calls fn and closes the archive again, whatever fn
// returns.
func With(path, nameEncoding string, fn func(*Archive) error) (err error) {
	a, err := Open(path, nameEncoding)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

// EntryPath is the catalog identity of an archive member.
func EntryPath(archiveRelPath, entryName string) string {
	return archiveRelPath + "/" + entryName
}
