package configstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// File is one load/save cycle of a config file: the parsed document, the
// original bytes, and the detected dialect. A File is owned by a single
// command invocation; there is no cross-invocation cache.
type File struct {
	Doc     Document
	Raw     []byte
	Dialect Dialect
	Path    string
	Exists  bool
}

// Load reads and parses the config file at path. A missing file returns
// ErrNotFound unless optional is true, in which case an Exists:false File
// with a nil document is returned.
func Load(path string, optional bool) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if optional {
				return &File{Path: path, Dialect: DialectJSON}, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	doc, dialect, err := Parse(raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return &File{Doc: doc, Raw: raw, Dialect: dialect, Path: path, Exists: true}, nil
}

// SaveOptions controls Save behavior.
type SaveOptions struct {
	// Backup copies the current on-disk file to <path>.backup.<unix-ms>
	// before writing. A failed backup aborts the save.
	Backup bool
}

// SaveResult reports where the config and its backup were written.
type SaveResult struct {
	Path       string
	BackupPath string
}

// Save serializes the document in the file's detected dialect and writes it
// atomically (temp file in the same directory, then rename). JWCC files are
// patched rather than re-rendered, so comments and formatting on untouched
// keys survive.
func (f *File) Save(opts SaveOptions) (SaveResult, error) {
	res := SaveResult{Path: f.Path}

	if opts.Backup {
		if _, err := os.Stat(f.Path); err == nil {
			backupPath := fmt.Sprintf("%s.backup.%d", f.Path, time.Now().UnixMilli())
			if err := copyFile(f.Path, backupPath); err != nil {
				return res, &BackupError{Path: backupPath, Err: err}
			}
			res.BackupPath = backupPath
		}
	}

	var out []byte
	var err error
	if f.Dialect == DialectJSON5 && len(f.Raw) > 0 {
		out, err = marshalJWCC(f.Raw, f.Doc)
	} else {
		out, err = marshalStrict(f.Doc)
	}
	if err != nil {
		return res, err
	}

	if err := writeAtomic(f.Path, out, 0o600); err != nil {
		return res, fmt.Errorf("writing config %s: %w", f.Path, err)
	}
	f.Raw = out
	f.Exists = true
	return res, nil
}

// UpdateOptions controls the Update transaction.
type UpdateOptions struct {
	Backup          bool
	CreateIfMissing bool
}

// Update composes load, mutate, and save as one transaction. The mutator
// receives the File and edits through the Document path operations; it never
// touches raw bytes. Returning an error from the mutator aborts before any
// write.
func Update(path string, mutate func(f *File) error, opts UpdateOptions) (*File, SaveResult, error) {
	f, err := Load(path, opts.CreateIfMissing)
	if err != nil {
		return nil, SaveResult{}, err
	}
	if f.Doc == nil {
		f.Doc = Document{}
	}
	if err := mutate(f); err != nil {
		return nil, SaveResult{}, err
	}
	res, err := f.Save(SaveOptions{Backup: opts.Backup})
	if err != nil {
		return nil, res, err
	}
	return f, res, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}

// writeAtomic writes via a temp file in the target directory plus rename, so
// a crash mid-write never leaves a truncated config behind.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".clawctl-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
