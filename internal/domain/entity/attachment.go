package entity

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// AttachmentKind tags which variant an AttachmentRef holds
type AttachmentKind int

const (
	AttachmentMalformed AttachmentKind = iota // neither a usable url nor a file handle
	AttachmentPersisted                       // already stored by the billing backend
	AttachmentPending                         // selected locally, not uploaded yet
)

// String returns the string representation of the kind
func (k AttachmentKind) String() string {
	switch k {
	case AttachmentPersisted:
		return "persisted"
	case AttachmentPending:
		return "pending"
	default:
		return "malformed"
	}
}

// FileHandle is a local file that can be streamed into an upload
type FileHandle interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// AttachmentRef is an invoice note attachment: either a persisted URL or a
// pending local file. Build values with Persisted or Pending.
type AttachmentRef struct {
	url  string
	file FileHandle
}

// Persisted references an attachment already stored server-side
func Persisted(url string) AttachmentRef {
	return AttachmentRef{url: url}
}

// Pending references a local file that still has to be uploaded
func Pending(file FileHandle) AttachmentRef {
	return AttachmentRef{file: file}
}

// Kind reports the variant. A ref with an empty url and no file is malformed.
func (a AttachmentRef) Kind() AttachmentKind {
	switch {
	case a.file != nil:
		return AttachmentPending
	case a.url != "":
		return AttachmentPersisted
	default:
		return AttachmentMalformed
	}
}

// URL returns the persisted url, empty for other kinds
func (a AttachmentRef) URL() string {
	if a.Kind() != AttachmentPersisted {
		return ""
	}
	return a.url
}

// File returns the pending file handle, nil for other kinds
func (a AttachmentRef) File() FileHandle {
	if a.Kind() != AttachmentPending {
		return nil
	}
	return a.file
}

// MarshalJSON renders persisted refs as their url and pending refs as
// {"pending": "<file name>"} so editor state can be displayed.
func (a AttachmentRef) MarshalJSON() ([]byte, error) {
	switch a.Kind() {
	case AttachmentPersisted:
		return json.Marshal(a.url)
	case AttachmentPending:
		return json.Marshal(map[string]string{"pending": a.file.Name()})
	default:
		return []byte("null"), nil
	}
}

// ReconciliationResult partitions attachments between a baseline and the current edit
type ReconciliationResult struct {
	Kept    []string     `json:"kept"`    // baseline urls still present
	Deleted []string     `json:"deleted"` // baseline urls no longer present
	Added   []FileHandle `json:"-"`       // pending files of the current edit
}

// AddedNames lists the file names of the pending uploads
func (r ReconciliationResult) AddedNames() []string {
	names := make([]string, 0, len(r.Added))
	for _, f := range r.Added {
		names = append(names, f.Name())
	}
	return names
}

// LocalFile is a FileHandle backed by a path on disk
type LocalFile struct {
	Path string
}

// NewLocalFile creates a handle for the file at path
func NewLocalFile(path string) *LocalFile {
	return &LocalFile{Path: path}
}

// Name returns the base name of the file
func (f *LocalFile) Name() string {
	return filepath.Base(f.Path)
}

// Open opens the file for reading
func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// MemoryFile is a FileHandle holding its content in memory
type MemoryFile struct {
	FileName string
	Content  []byte
}

// Name returns the file name
func (f *MemoryFile) Name() string {
	return f.FileName
}

// Open returns a reader over the content
func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}
