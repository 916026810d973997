// Package storage writes uploaded files to disk and hands the assigned file
// name to the handlers behind it.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Remover deletes stored files by name.
type Remover interface {
	Remove(name string) error
}

// Disk stores files flat in one directory.
type Disk struct {
	Dir string
	now func() time.Time
}

// NewDisk creates dir if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{Dir: dir}, nil
}

// Name builds the stored name for an upload: <unix millis>_<uuid><ext>.
func (d *Disk) Name(original string) string {
	now := time.Now
	if d.now != nil {
		now = d.now
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	return fmt.Sprintf("%d_%s%s", now().UnixMilli(), uuid.NewString(), ext)
}

// Save writes the upload and returns the name it was stored under.
func (d *Disk) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := d.Name(fh.Filename)
	dst, err := os.OpenFile(filepath.Join(d.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	return name, dst.Close()
}

// Path resolves a stored name, refusing anything that is not a plain file name.
func (d *Disk) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(d.Dir, name), nil
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (d *Disk) Remove(name string) error {
	p, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
