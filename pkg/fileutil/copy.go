package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/checkpoint/internal/errors"
)

// CopyFile copies the contents of src to dst, overwriting dst when it exists.
// The permission bits and modification time of src are applied to dst.
// Symlinks at src are followed.
//
// The caller is responsible for ensuring the parent directory of dst exists.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source")
	}
	if !info.Mode().IsRegular() {
		return errors.Newf("%s is not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, "opening destination")
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing destination")
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(err, "copying contents")
	}

	// OpenFile only applies perm when it creates the file
	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "setting permissions")
	}

	mtime := info.ModTime()
	if err := os.Chtimes(dst, mtime, mtime); err != nil {
		return errors.Wrap(err, "setting modification time")
	}

	return nil
}
