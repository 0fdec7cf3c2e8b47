package formats

import (
	"path"
	"strings"
)

const (
	ArchiveExtension = "zip"
	FB2Extension     = "fb2"
)

type Kind int

const (
	KindIgnored Kind = iota
	KindArchive
	KindSingle
)

func (k Kind) String() string {
	switch k {
	case KindArchive:
		return "archive"
	case KindSingle:
		return "single"
	default:
		return "ignored"
	}
}

// Extension returns the lower-cased text after the last '.' of name. Names
// whose only '.' is the first or last character have no extension.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// TrimExtension returns name without the extension recognised by Extension.
func TrimExtension(name string) string {
	ext := Extension(name)
	if ext == "" {
		return name
	}
	return name[:len(name)-len(ext)-1]
}

type Classifier struct {
	supported      map[string]struct{}
	archiveEnabled bool
}

func NewClassifier(supported []string, archiveEnabled bool) *Classifier {
	c := &Classifier{
		supported:      make(map[string]struct{}, len(supported)),
		archiveEnabled: archiveEnabled,
	}
	for _, f := range supported {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f != "" {
			c.supported[f] = struct{}{}
		}
	}
	return c
}

func (c *Classifier) Classify(name string) Kind {
	ext := Extension(name)
	switch {
	case ext == "":
		return KindIgnored
	case ext == ArchiveExtension && c.archiveEnabled:
		return KindArchive
	case c.IsSupported(ext):
		return KindSingle
	default:
		return KindIgnored
	}
}

// IsSupported reports whether ext is a configured single-file format. The
// archive extension is never a single-file format.
func (c *Classifier) IsSupported(ext string) bool {
	if ext == ArchiveExtension {
		return false
	}
	_, ok := c.supported[ext]
	return ok
}

// IsSupportedEntry reports whether an archive entry should be ingested.
// Entry names are slash-separated paths inside the archive.
func (c *Classifier) IsSupportedEntry(name string) bool {
	return c.IsSupported(Extension(path.Base(name)))
}
