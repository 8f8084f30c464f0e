// Package fileutil writes output files so that readers never see a partial
// file.
package fileutil

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// WriteFile creates or truncates path with the content produced by write.
// Content goes to a temporary file in the same directory first, which is
// renamed over path only when write and the flush succeeded.
func WriteFile(path string, perm os.FileMode, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tmp.Close()
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("failed to remove temporary file %s", tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", path)
	}
	if err := bw.Flush(); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Chmod(perm); err != nil {
		return pkgerrors.Wrapf(err, "failed to set permissions of %s", path)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrapf(err, "failed to close %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return pkgerrors.Wrapf(err, "failed to move %s to %s", tmpPath, path)
	}
	committed = true

	return nil
}
