package writer

import "github.com/achilleasa/lumen/scene/reader"

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene description.
	Write(*reader.Description) error
}

// Write a scene description to a compiled zip bundle.
func WriteScene(desc *reader.Description, filename string) error {
	return newZipSceneWriter(filename).Write(desc)
}
