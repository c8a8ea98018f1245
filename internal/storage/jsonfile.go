package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

/*
JSONFile keeps the whole dataset in one JSON document on local disk.

- A missing or empty file loads as an empty dataset.
- A file that cannot be parsed is renamed to <path>.corrupt-<stamp> and an
  empty dataset is returned together with a *LoadError, so the next save
  does not overwrite what was there.
- Saves go to a temp file in the same directory, are fsynced, then renamed
  over the target.
*/
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path is the document location.
func (f *JSONFile) Path() string { return f.path }

func (f *JSONFile) Load() (*models.Dataset, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		zap.S().Infow("no data file yet, starting empty", "path", f.path)
		return models.NewDataset(), nil
	}
	if err != nil {
		return models.NewDataset(), &LoadError{Source: f.path, Err: err}
	}

	ds, err := Decode(raw)
	if err != nil {
		lerr := &LoadError{Source: f.path, Err: err}
		aside := f.path + ".corrupt-" + utils.Now().Format("20060102-150405")
		if rerr := os.Rename(f.path, aside); rerr != nil {
			zap.S().Errorw("could not move corrupt data file aside", "path", f.path, "error", rerr)
		} else {
			lerr.MovedTo = aside
		}
		return models.NewDataset(), lerr
	}
	return ds, nil
}

func (f *JSONFile) Save(ds *models.Dataset) error {
	raw, err := Encode(ds)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp := filepath.Join(dir, "."+filepath.Base(f.path)+"."+uuid.NewString()+".tmp")

	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp) }

	if _, err := out.Write(raw); err != nil {
		_ = out.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
