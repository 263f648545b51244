package plotmap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const jpegQuality = 90

// SaveFigure writes the figure to disk. The format follows the file
// extension: .png, .jpg or .jpeg.
func (m *Map) SaveFigure(path string) error {
	return m.fig.SaveFigure(path)
}

// SaveFigure writes the surface to disk. The format follows the file
// extension: .png, .jpg or .jpeg.
func (f *Figure) SaveFigure(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return f.dc.SavePNG(path)
	case ".jpg", ".jpeg":
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := f.dc.EncodeJPEG(out, jpegQuality); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}
	return fmt.Errorf("save figure: unsupported extension %q (use .png, .jpg or .jpeg)", filepath.Ext(path))
}

// EncodePNG writes the surface as PNG.
func (f *Figure) EncodePNG(w io.Writer) error {
	return f.dc.EncodePNG(w)
}

// EncodeJPEG writes the surface as JPEG at the given quality, 1 to 100.
func (f *Figure) EncodeJPEG(w io.Writer, quality int) error {
	return f.dc.EncodeJPEG(w, quality)
}
