// Package artifact reads and writes the published JSON artifacts.
package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pitwall/pitwall/pkg/model"
)

// Write serializes v to path atomically: the JSON is written to a temp
// file in the same directory and renamed into place, so readers never
// observe a partially written artifact.
func Write(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal artifact")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create artifact directory: %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to write artifact")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "failed to close temp file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to replace artifact: %s", path)
	}

	log.Debugf("wrote artifact %s (%d bytes)", path, len(data))
	return nil
}

// ReadArchive loads a previously published archive. Earlier versions of
// the pipeline wrote a bare weekend array instead of the enveloped
// object, so both shapes are accepted. A missing or malformed file is
// treated as an empty archive: rebuilding from scratch beats refusing
// to run on a corrupt input.
func ReadArchive(path string) *model.Archive {
	empty := &model.Archive{GrandPrixWeekends: []*model.Weekend{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warnf("failed to read archive %s, starting empty", path)
		}
		return empty
	}

	var archive model.Archive
	if err := json.Unmarshal(data, &archive); err == nil && archive.GrandPrixWeekends != nil {
		return &archive
	}

	var weekends []*model.Weekend
	if err := json.Unmarshal(data, &weekends); err == nil {
		return &model.Archive{GrandPrixWeekends: weekends}
	}

	log.Warnf("archive %s is malformed, starting empty", path)
	return empty
}
