package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// GenerateSplashSVG writes the built-in idle image: a rounded frame around
// the three belt stars of Orion, Mintaka first.
func GenerateSplashSVG(w io.Writer, width, height int) {
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:black")
	canvas.Roundrect(2, 2, width-4, height-4, 6, 6, "fill:none;stroke:white;stroke-width:2")

	r := height / 10
	if r < 2 {
		r = 2
	}
	for i := 0; i < 3; i++ {
		x := width/4 + i*width/4
		y := height/3 + i*height/6
		canvas.Circle(x, y, r+(2-i)/2, "fill:white")
	}
	canvas.Line(width/4, height/3, 3*width/4, 2*height/3, "stroke:white;stroke-width:1")
	canvas.End()
}

// RasterizeSVG renders SVG data into a width x height RGBA image.
func RasterizeSVG(data []byte, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 255}), image.Point{}, draw.Src)
	icon.SetTarget(0, 0, float64(width), float64(height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)
	return rgba, nil
}

// LoadSplash returns the splash image for a width x height panel. An empty
// path selects the generated image.
func LoadSplash(path string, width, height int) (*image.RGBA, error) {
	if path == "" {
		var buf bytes.Buffer
		GenerateSplashSVG(&buf, width, height)
		return RasterizeSVG(buf.Bytes(), width, height)
	}

	ext := strings.ToLower(filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img image.Image
	switch ext {
	case ".png":
		img, err = png.Decode(f)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(f)
	case ".gif":
		img, err = gif.Decode(f)
	case ".svg":
		data, rerr := io.ReadAll(f)
		if rerr != nil {
			return nil, rerr
		}
		return RasterizeSVG(data, width, height)
	default:
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 255}), image.Point{}, draw.Src)
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Over)
	return rgba, nil
}
