// Package fsutil holds the filesystem plumbing shared by the planner
// (destination-tree setup) and the scheduler (copy jobs, metadata
// preservation after encodes).
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyMeta copies the modification time and permission bits from src
// onto dst.
func CopyMeta(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, fi.ModTime(), fi.ModTime()); err != nil {
		return fmt.Errorf("chtimes %s: %w", dst, err)
	}
	return nil
}

// CopyFile copies one regular file and its metadata.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return CopyMeta(src, dst)
}

// CopyTree copies a directory recursively, preserving metadata on every
// entry. Symlinks are copied as the files they point at.
func CopyTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dst, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", src, err)
	}
	for _, e := range entries {
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())
		if e.IsDir() {
			if err := CopyTree(s, d); err != nil {
				return err
			}
		} else if err := CopyFile(s, d); err != nil {
			return err
		}
	}
	return CopyMeta(src, dst)
}

// CopyAny dispatches to CopyTree for directories and CopyFile otherwise.
func CopyAny(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if fi.IsDir() {
		return CopyTree(src, dst)
	}
	return CopyFile(src, dst)
}
