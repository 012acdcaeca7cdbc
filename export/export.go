// Package export writes digitized series to CSV, XLSX and chart images.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"

	"github.com/plotdig/digitize"
)

// ErrEmptySeries is returned when an export is requested for a series with no
// samples.
var ErrEmptySeries = errors.New("export: empty series")

// Layout selects how samples are arranged in tabular output.
type Layout int

const (
	// ByColumn writes one sample per row with an x,y header.
	ByColumn Layout = iota
	// ByRow writes two rows, all x values then all y values.
	ByRow
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes a series to w in the given layout.
func WriteCSV(w io.Writer, series digitize.Series, layout Layout) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}
	cw := csv.NewWriter(w)
	switch layout {
	case ByRow:
		xs := make([]string, len(series)+1)
		ys := make([]string, len(series)+1)
		xs[0], ys[0] = "x", "y"
		for i, s := range series {
			xs[i+1] = formatFloat(s.X)
			ys[i+1] = formatFloat(s.Y)
		}
		if err := cw.Write(xs); err != nil {
			return err
		}
		if err := cw.Write(ys); err != nil {
			return err
		}
	default:
		if err := cw.Write([]string{"x", "y"}); err != nil {
			return err
		}
		for _, s := range series {
			if err := cw.Write([]string{formatFloat(s.X), formatFloat(s.Y)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a series as an xlsx workbook to path, one sheet named
// after the series.
func WriteXLSX(path string, name string, series digitize.Series, layout Layout) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if name != "" {
		if err := f.SetSheetName(sheet, name); err != nil {
			return fmt.Errorf("exporting xlsx: %w", err)
		}
	} else {
		name = sheet
	}

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(name, cell, v)
	}

	switch layout {
	case ByRow:
		if err := set(1, 1, "x"); err != nil {
			return fmt.Errorf("exporting xlsx: %w", err)
		}
		if err := set(1, 2, "y"); err != nil {
			return fmt.Errorf("exporting xlsx: %w", err)
		}
		for i, s := range series {
			if err := set(i+2, 1, s.X); err != nil {
				return fmt.Errorf("exporting xlsx: %w", err)
			}
			if err := set(i+2, 2, s.Y); err != nil {
				return fmt.Errorf("exporting xlsx: %w", err)
			}
		}
	default:
		if err := set(1, 1, "x"); err != nil {
			return fmt.Errorf("exporting xlsx: %w", err)
		}
		if err := set(2, 1, "y"); err != nil {
			return fmt.Errorf("exporting xlsx: %w", err)
		}
		for i, s := range series {
			if err := set(1, i+2, s.X); err != nil {
				return fmt.Errorf("exporting xlsx: %w", err)
			}
			if err := set(2, i+2, s.Y); err != nil {
				return fmt.Errorf("exporting xlsx: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("exporting xlsx: %w", err)
	}
	return nil
}

// WriteChartPNG renders a series as a line chart PNG.
func WriteChartPNG(w io.Writer, title string, series digitize.Series, logX, logY bool) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, s := range series {
		xs[i] = s.X
		ys[i] = s.Y
	}

	graph := chart.Chart{
		Title: title,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
			},
		},
	}
	if logX {
		graph.XAxis.Range = &chart.LogarithmicRange{}
	}
	if logY {
		graph.YAxis.Range = &chart.LogarithmicRange{}
	}
	return graph.Render(chart.PNG, w)
}
