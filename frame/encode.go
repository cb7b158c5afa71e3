package frame

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Lines in a plain PPM file must not exceed this many characters.
const ppmMaxLineLen = 70

var ErrUnsupportedFormat = errors.New("frame: unsupported image format")

// Encode the frame as a plain (P3) PPM image.
func (fr *Frame) EncodePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fr.W, fr.H)

	var line strings.Builder
	flush := func() {
		if line.Len() > 0 {
			bw.WriteString(line.String())
			bw.WriteByte('\n')
			line.Reset()
		}
	}

	for y := uint32(0); y < fr.H; y++ {
		for _, c := range fr.Row(y) {
			r, g, b := c.RGB8()
			for _, v := range [3]uint8{r, g, b} {
				token := strconv.Itoa(int(v))
				if line.Len() > 0 && line.Len()+1+len(token) > ppmMaxLineLen {
					flush()
				}
				if line.Len() > 0 {
					line.WriteByte(' ')
				}
				line.WriteString(token)
			}
		}
		// Every image row starts on a new line.
		flush()
	}

	return bw.Flush()
}

// Encode the frame as a PNG image.
func (fr *Frame) EncodePNG(w io.Writer) error {
	return png.Encode(w, fr.Image())
}

// Encode the frame in the format implied by the filename suffix. Supported
// suffixes are .png, .ppm, .ppm.zst (zstd compressed) and .ppm.sz (snappy
// framed).
func (fr *Frame) Encode(w io.Writer, filename string) error {
	switch {
	case strings.HasSuffix(filename, ".png"):
		return fr.EncodePNG(w)
	case strings.HasSuffix(filename, ".ppm"):
		return fr.EncodePPM(w)
	case strings.HasSuffix(filename, ".ppm.zst"):
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if err = fr.EncodePPM(zw); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case strings.HasSuffix(filename, ".ppm.sz"):
		sw := snappy.NewBufferedWriter(w)
		if err := fr.EncodePPM(sw); err != nil {
			sw.Close()
			return err
		}
		return sw.Close()
	}

	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// Save the frame to a file.
func (fr *Frame) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	err = fr.Encode(f, filename)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filename)
	}
	return err
}
