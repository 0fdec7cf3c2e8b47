package testgen

import (
	"archive/zip"
	"bytes"
	"testing"

	"golang.org/x/text/encoding"
)

type ZipEntry struct {
	Name string
	Data []byte
}

// WriteZip writes a zip archive holding entries to path. Entry names are
// stored as UTF-8.
func WriteZip(t testing.TB, path string, entries ...ZipEntry) {
	t.Helper()
	WriteFile(t, path, buildZip(t, nil, entries))
}

// WriteLegacyZip writes a zip archive whose entry names are encoded with enc
// and stored without the UTF-8 flag, the way old DOS and Windows archivers
// did.
func WriteLegacyZip(t testing.TB, path string, enc encoding.Encoding, entries ...ZipEntry) {
	t.Helper()
	WriteFile(t, path, buildZip(t, enc, entries))
}

func buildZip(t testing.TB, enc encoding.Encoding, entries []ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if enc != nil {
			name, err := enc.NewEncoder().String(e.Name)
			if err != nil {
				t.Fatalf("failed to encode entry name %s: %v", e.Name, err)
			}
			hdr.Name = name
			hdr.NonUTF8 = true
		}
		f, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}
		if _, err := f.Write(e.Data); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}
