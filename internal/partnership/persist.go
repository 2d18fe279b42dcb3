package partnership

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// maxBackups bounds the backup index search; the suffix has seven digits.
const maxBackups = 10_000_000

// BackupName returns the backup file name for index n.
func BackupName(path string, n int) string {
	return fmt.Sprintf("%s.%07d", path, n)
}

// nextBackup returns the first backup name that does not exist yet.
func nextBackup(path string) (string, error) {
	for n := 0; n < maxBackups; n++ {
		name := BackupName(path, n)
		if _, err := os.Lstat(name); errors.Is(err, fs.ErrNotExist) {
			return name, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("all %d backup slots of %s are in use", maxBackups, path)
}

// rotateBackup moves path to its next free backup name. A missing path is
// not an error; the returned name is empty in that case.
func rotateBackup(path string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	backup, err := nextBackup(path)
	if err != nil {
		return "", err
	}
	if err := os.Rename(path, backup); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return backup, nil
}

// writeSnapshot rotates the existing file into a backup and writes snap to
// path. The rotation is not rolled back when the write fails.
func writeSnapshot(path string, snap *Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return "", ioError(path, "failed to encode partnerships", err)
	}

	backup, err := rotateBackup(path)
	if err != nil {
		return "", ioError(path, "failed to back up partnership file", err)
	}

	if err := atomicWrite(path, buf.Bytes()); err != nil {
		return backup, ioError(path, "failed to write partnership file", err)
	}
	return backup, nil
}

// atomicWrite writes data to a temp file in the target directory, then
// renames it over path.
func atomicWrite(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generating random suffix: %w", err)
	}
	tmp := filepath.Join(filepath.Dir(path), filepath.Base(path)+".tmp."+hex.EncodeToString(randBytes))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort cleanup
		return err
	}
	return nil
}
