package reader

import (
	"errors"
	"fmt"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/scene"
)

var ErrUnsupportedFormat = errors.New("reader: unsupported scene file format")

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read a scene description from a resource.
	Read(*asset.Resource) (*Description, error)
}

// Select a reader for the resource extension.
func readerFor(res *asset.Resource) (Reader, error) {
	switch res.Ext() {
	case ".scn":
		return newTextSceneReader(), nil
	case ".zip":
		return newZipSceneReader(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, res.Path())
}

// Read a scene description from a resource.
func Read(res *asset.Resource) (*Description, error) {
	reader, err := readerFor(res)
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

// Read a scene description from a local file or http(s) URL.
func ReadDescription(filename string) (*Description, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res)
}

// Read a scene description and build the runtime scene.
func ReadScene(filename string) (*scene.Scene, error) {
	desc, err := ReadDescription(filename)
	if err != nil {
		return nil, err
	}
	return desc.Build()
}
