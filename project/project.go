// Package project persists plot digitization sessions: the source image, the
// optional perspective correction, both axis calibrations and the traced
// curves. A project is stored as a JSON file next to a directory of the same
// base name holding the image files.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/plotdig/digitize"
)

// Default size of the perspective-corrected image.
const (
	DefaultCorrectedWidth  = 800
	DefaultCorrectedHeight = 600
)

const thumbnailWidth = 256

// ErrNoImage is returned when an operation needs a source image and none has
// been loaded.
var ErrNoImage = errors.New("project: no image loaded")

// ErrNoCorners is returned when perspective correction is requested before
// corner points have been set.
var ErrNoCorners = errors.New("project: corner points not set")

// Project is one digitization session.
type Project struct {
	ImagePath string
	Image     image.Image

	// Perspective correction state, present once corners have been set and
	// the correction applied.
	Corrected *image.NRGBA
	Transform digitize.PerspectiveTransform

	XAxis  *digitize.Axis
	YAxis  *digitize.Axis
	Curves []*digitize.Curve

	corners    [4]digitize.Point
	hasCorners bool
}

// New returns an empty project with linear axes.
func New() *Project {
	return &Project{
		XAxis: digitize.NewAxis(digitize.Linear),
		YAxis: digitize.NewAxis(digitize.Linear),
	}
}

// LoadImage reads the plot image from disk. Loading a new image discards any
// previous perspective correction.
func (p *Project) LoadImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("loading image %s: %w", path, err)
	}
	p.Image = img
	p.ImagePath = path
	p.Corrected = nil
	p.Transform = digitize.PerspectiveTransform{}
	p.hasCorners = false
	return nil
}

// Corners returns the perspective corner points, if set.
func (p *Project) Corners() ([4]digitize.Point, bool) {
	return p.corners, p.hasCorners
}

// SetCorners sets the four corner points delimiting the plot area, ordered
// top-left, top-right, bottom-right, bottom-left. Setting corners discards a
// previously computed correction.
func (p *Project) SetCorners(corners [4]digitize.Point) {
	p.corners = corners
	p.hasCorners = true
	p.Corrected = nil
	p.Transform = digitize.PerspectiveTransform{}
}

// ApplyPerspective warps the plot area onto a width×height image and stores
// the corrected image and transform on the project.
func (p *Project) ApplyPerspective(width, height int) error {
	if p.Image == nil {
		return ErrNoImage
	}
	if !p.hasCorners {
		return ErrNoCorners
	}
	corrected, transform, err := digitize.Warp(p.Image, p.corners, width, height)
	if err != nil {
		return err
	}
	p.Corrected = corrected
	p.Transform = transform
	return nil
}

// AddCurve appends a new empty curve and returns its index.
func (p *Project) AddCurve() int {
	p.Curves = append(p.Curves, digitize.NewCurve())
	return len(p.Curves) - 1
}

// RemoveCurve removes the curve at index i. Out-of-range indices are ignored.
func (p *Project) RemoveCurve(i int) {
	if i < 0 || i >= len(p.Curves) {
		return
	}
	p.Curves = append(p.Curves[:i], p.Curves[i+1:]...)
}

// Curve returns the curve at index i, or nil if out of range.
func (p *Project) Curve(i int) *digitize.Curve {
	if i < 0 || i >= len(p.Curves) {
		return nil
	}
	return p.Curves[i]
}

type record struct {
	ImagePath    string            `json:"image_path"`
	CornerPoints [][2]float64      `json:"corner_points"`
	XAxis        *digitize.Axis    `json:"x_axis"`
	YAxis        *digitize.Axis    `json:"y_axis"`
	Curves       []*digitize.Curve `json:"curves"`
}

// assetDir returns the directory holding a project's image files.
func assetDir(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// Save writes the project file and its image assets. The source image is
// stored as source_image.png inside the asset directory, the corrected image
// as transformed_image.png, plus a small thumbnail for pickers.
func (p *Project) Save(path string) error {
	dir := assetDir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}

	rec := record{
		ImagePath: "source_image.png",
		XAxis:     p.XAxis,
		YAxis:     p.YAxis,
		Curves:    p.Curves,
	}
	if p.hasCorners {
		rec.CornerPoints = make([][2]float64, 4)
		for i, c := range p.corners {
			rec.CornerPoints[i] = [2]float64{c.X, c.Y}
		}
	}

	if p.Image != nil {
		if err := writePNG(filepath.Join(dir, "source_image.png"), p.Image); err != nil {
			return err
		}
		if err := writePNG(filepath.Join(dir, "thumbnail.png"), thumbnail(p.Image)); err != nil {
			return err
		}
	}
	if p.Corrected != nil {
		if err := writePNG(filepath.Join(dir, "transformed_image.png"), p.Corrected); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

// Load reads a project file, its source image and, when corner points are
// recorded, re-applies the perspective correction at the default size.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("loading project %s: %w", path, err)
	}

	p := New()
	if rec.XAxis != nil {
		p.XAxis = rec.XAxis
	}
	if rec.YAxis != nil {
		p.YAxis = rec.YAxis
	}
	p.Curves = rec.Curves

	if rec.ImagePath != "" {
		imgPath := filepath.Join(assetDir(path), rec.ImagePath)
		if err := p.LoadImage(imgPath); err != nil {
			return nil, err
		}
	}
	if len(rec.CornerPoints) == 4 {
		var corners [4]digitize.Point
		for i, c := range rec.CornerPoints {
			corners[i] = digitize.Pt(c[0], c[1])
		}
		p.SetCorners(corners)
		if p.Image != nil {
			if err := p.ApplyPerspective(DefaultCorrectedWidth, DefaultCorrectedHeight); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// thumbnail scales an image down to at most thumbnailWidth pixels wide,
// preserving aspect ratio.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= thumbnailWidth {
		return img
	}
	h := b.Dy() * thumbnailWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, thumbnailWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
