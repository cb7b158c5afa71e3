package writer

import (
	"encoding/gob"
	"os"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene/reader"
	"github.com/klauspost/compress/zip"
)

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new zip scene writer.
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zip writer"),
		sceneFile: sceneFile,
	}
}

// Write scene description to zip file. A partially written file is removed
// on error.
func (w *zipSceneWriter) Write(desc *reader.Description) (err error) {
	w.logger.Noticef(`writing compiled scene to "%s"`, w.sceneFile)
	start := time.Now()

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := zipFile.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(w.sceneFile)
		}
	}()

	zw := zip.NewWriter(zipFile)
	cw, err := zw.Create(reader.DataFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(cw).Encode(desc); err != nil {
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}

	w.logger.Noticef("compiled scene in %d ms", time.Since(start).Milliseconds())
	return nil
}
