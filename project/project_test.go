package project

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/plotdig/digitize"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 5), G: uint8(y * 5), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestProjectSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "plot.png")
	writeTestImage(t, imgPath, 40, 40)

	p := New()
	if err := p.LoadImage(imgPath); err != nil {
		t.Fatal(err)
	}
	if err := p.XAxis.SetCalibration(0, 100, 0, 10); err != nil {
		t.Fatal(err)
	}
	p.YAxis = digitize.NewAxis(digitize.Logarithmic)
	if err := p.YAxis.SetCalibration(100, 0, 1, 1000); err != nil {
		t.Fatal(err)
	}

	ci := p.AddCurve()
	c := p.Curve(ci)
	c.AddKnot(digitize.NewKnot(digitize.Pt(10, 80)))
	c.AddKnot(digitize.NewKnot(digitize.Pt(90, 20)))

	projPath := filepath.Join(dir, "session.json")
	if err := p.Save(projPath); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(projPath)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Image == nil {
		t.Fatal("loaded project has no image")
	}
	if got := loaded.Image.Bounds(); got.Dx() != 40 || got.Dy() != 40 {
		t.Errorf("loaded image bounds: got %v", got)
	}
	if loaded.XAxis.Kind() != digitize.Linear || loaded.YAxis.Kind() != digitize.Logarithmic {
		t.Errorf("axis kinds: got %v, %v", loaded.XAxis.Kind(), loaded.YAxis.Kind())
	}
	wantMid := math.Sqrt(1000.0)
	if got := loaded.YAxis.PixelToValue(50); math.Abs(got-wantMid) > 1e-9 {
		t.Errorf("log axis midpoint after reload: got %g, want %g", got, wantMid)
	}
	if len(loaded.Curves) != 1 {
		t.Fatalf("curves: got %d, want 1", len(loaded.Curves))
	}

	want, _ := c.Eval(0.5)
	got, ok := loaded.Curves[0].Eval(0.5)
	if !ok {
		t.Fatal("loaded curve did not evaluate")
	}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("curve midpoint after reload: got %v, want %v", got, want)
	}

	assets := filepath.Join(dir, "session")
	for _, name := range []string{"source_image.png", "thumbnail.png"} {
		if _, err := os.Stat(filepath.Join(assets, name)); err != nil {
			t.Errorf("missing asset %s: %v", name, err)
		}
	}
}

func TestProjectPerspectiveOnLoad(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "plot.png")
	writeTestImage(t, imgPath, 40, 40)

	p := New()
	if err := p.LoadImage(imgPath); err != nil {
		t.Fatal(err)
	}
	p.SetCorners([4]digitize.Point{
		digitize.Pt(2, 2),
		digitize.Pt(36, 4),
		digitize.Pt(38, 37),
		digitize.Pt(3, 35),
	})
	if err := p.ApplyPerspective(80, 60); err != nil {
		t.Fatal(err)
	}
	if p.Corrected == nil {
		t.Fatal("no corrected image after ApplyPerspective")
	}

	projPath := filepath.Join(dir, "session.json")
	if err := p.Save(projPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "session", "transformed_image.png")); err != nil {
		t.Errorf("missing transformed image: %v", err)
	}

	loaded, err := Load(projPath)
	if err != nil {
		t.Fatal(err)
	}
	corners, ok := loaded.Corners()
	if !ok {
		t.Fatal("corner points not restored")
	}
	if corners[2] != digitize.Pt(38, 37) {
		t.Errorf("corner[2]: got %v", corners[2])
	}
	if loaded.Corrected == nil {
		t.Fatal("perspective correction not re-applied on load")
	}
	b := loaded.Corrected.Bounds()
	if b.Dx() != DefaultCorrectedWidth || b.Dy() != DefaultCorrectedHeight {
		t.Errorf("corrected size: got %dx%d", b.Dx(), b.Dy())
	}
}

func TestProjectErrors(t *testing.T) {
	p := New()
	if err := p.ApplyPerspective(10, 10); !errors.Is(err, ErrNoImage) {
		t.Errorf("ApplyPerspective without image: got %v, want ErrNoImage", err)
	}

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "plot.png")
	writeTestImage(t, imgPath, 10, 10)
	if err := p.LoadImage(imgPath); err != nil {
		t.Fatal(err)
	}
	if err := p.ApplyPerspective(10, 10); !errors.Is(err, ErrNoCorners) {
		t.Errorf("ApplyPerspective without corners: got %v, want ErrNoCorners", err)
	}
}

func TestProjectCurveManagement(t *testing.T) {
	p := New()
	a := p.AddCurve()
	b := p.AddCurve()
	if a != 0 || b != 1 {
		t.Fatalf("curve indices: got %d, %d", a, b)
	}
	p.Curve(b).AddKnot(digitize.NewKnot(digitize.Pt(1, 2)))
	p.RemoveCurve(0)
	if len(p.Curves) != 1 {
		t.Fatalf("curves after remove: got %d", len(p.Curves))
	}
	if p.Curve(0).Len() != 1 {
		t.Error("surviving curve lost its knot")
	}
	p.RemoveCurve(5)
	if len(p.Curves) != 1 {
		t.Error("out-of-range remove should be ignored")
	}
	if p.Curve(-1) != nil || p.Curve(3) != nil {
		t.Error("out-of-range Curve should return nil")
	}
}
