package configstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load and Update when a required config file is
// missing. Fatal to the invoking command; never retried.
var ErrNotFound = errors.New("config file not found")

// ParseError reports a file that neither dialect could parse. It carries the
// raw error from each attempt.
type ParseError struct {
	Path    string
	JSONErr error
	JWCCErr error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config %s is not valid JSON (%v) or JSON5 (%v)", e.Path, e.JSONErr, e.JWCCErr)
}

// BackupError reports a failed pre-save backup copy. The save is aborted:
// the target file is never overwritten without the backup that was asked for.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup to %s failed: %v", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }
