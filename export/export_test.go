package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/plotdig/digitize"
)

var sample = digitize.Series{
	{X: 1, Y: 10},
	{X: 2, Y: 20},
	{X: 3, Y: 15},
}

func TestWriteCSVByColumn(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample, ByColumn); err != nil {
		t.Fatal(err)
	}
	want := "x,y\n1,10\n2,20\n3,15\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteCSVByRow(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample, ByRow); err != nil {
		t.Fatal(err)
	}
	want := "x,1,2,3\ny,10,20,15\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, ByColumn); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("got %v, want ErrEmptySeries", err)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteXLSX(path, "series1", sample, ByColumn); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetCellValue("series1", "A3")
	if err != nil {
		t.Fatal(err)
	}
	if got != "2" {
		t.Errorf("A3: got %q, want \"2\"", got)
	}
	got, err = f.GetCellValue("series1", "B1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "y" {
		t.Errorf("B1: got %q, want \"y\"", got)
	}
}

func TestWriteXLSXByRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteXLSX(path, "", sample, ByRow); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Sheet1", "C2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "20" {
		t.Errorf("C2: got %q, want \"20\"", got)
	}
}

func TestWriteChartPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChartPNG(&buf, "test", sample, false, false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\x89PNG") {
		t.Error("output does not start with a PNG signature")
	}
}
