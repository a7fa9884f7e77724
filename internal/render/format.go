// Package render writes figures out: as the JSON spec itself, or drawn
// through one of the chart libraries as HTML, PNG or SVG.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// ErrUnsupported is returned when a format cannot draw a figure's traces.
var ErrUnsupported = errors.New("unsupported")

// Format is an output format.
type Format string

const (
	JSON Format = "json"
	HTML Format = "html"
	PNG  Format = "png"
	SVG  Format = "svg"
)

// Formats lists every supported format.
var Formats = []Format{JSON, HTML, PNG, SVG}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w format %q (want json, html, png or svg)", ErrUnsupported, s)
}

// FormatFor picks the format from a file extension, falling back to def.
func FormatFor(path string, def Format) Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return def
}

// Size is the canvas size of raster and vector output, in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when the figure layout does not set its own.
var DefaultSize = Size{Width: 900, Height: 600}

func sizeOf(fig *figure.Figure) Size {
	s := DefaultSize
	if fig.Layout != nil {
		if fig.Layout.Width > 0 {
			s.Width = fig.Layout.Width
		}
		if fig.Layout.Height > 0 {
			s.Height = fig.Layout.Height
		}
	}
	return s
}

// Write renders fig to w in format f.
func Write(w io.Writer, fig *figure.Figure, f Format) error {
	if fig == nil {
		return fmt.Errorf("render: nil figure")
	}
	switch f {
	case JSON:
		b, err := fig.JSON()
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case HTML:
		return writeHTML(w, fig)
	case PNG:
		return writePNG(w, fig)
	case SVG:
		return writeSVG(w, fig)
	}
	return fmt.Errorf("%w format %q", ErrUnsupported, f)
}

// Bytes renders fig into memory.
func Bytes(fig *figure.Figure, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, fig, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
