package reader

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/log"
	"github.com/klauspost/compress/zip"
)

// The name of the gob-encoded description inside compiled scene bundles.
const DataFile = "scene.bin"

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene description from a compiled bundle.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*Description, error) {
	p.logger.Noticef(`parsing compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip needs an io.ReaderAt and resources may be remote streams so the
	// whole bundle is buffered in memory.
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip reader: %w", err)
	}

	var desc *Description
	for _, f := range zr.File {
		if f.Name != DataFile {
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		desc = &Description{}
		err = gob.NewDecoder(rc).Decode(desc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zip reader: failed to load %s: %w", f.Name, err)
		}
	}

	if desc == nil {
		return nil, fmt.Errorf("zip reader: %s not found in %s", DataFile, sceneRes.Path())
	}

	p.logger.Noticef("loaded scene in %d ms", time.Since(start).Milliseconds())
	return desc, nil
}
