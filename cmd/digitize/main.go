// Package main provides the digitize command line interface.
package main

import (
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plotdig/digitize"
	"github.com/plotdig/digitize/export"
	"github.com/plotdig/digitize/project"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "digitize",
		Short:         "Extract data series from plot images",
		Long:          "digitize reads plot digitization projects and exports the traced curves as calibrated data series.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(infoCmd(), sampleCmd(), chartCmd(), warpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <project.json>",
		Short: "Print a project summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "image: %s\n", p.ImagePath)
			if corners, ok := p.Corners(); ok {
				fmt.Fprintf(out, "corners: %v %v %v %v\n", corners[0], corners[1], corners[2], corners[3])
			}
			xpMin, xpMax, xvMin, xvMax := p.XAxis.Calibration()
			ypMin, ypMax, yvMin, yvMax := p.YAxis.Calibration()
			fmt.Fprintf(out, "x axis: %s pixels [%g, %g] values [%g, %g]\n", p.XAxis.Kind(), xpMin, xpMax, xvMin, xvMax)
			fmt.Fprintf(out, "y axis: %s pixels [%g, %g] values [%g, %g]\n", p.YAxis.Kind(), ypMin, ypMax, yvMin, yvMax)
			for i, c := range p.Curves {
				fmt.Fprintf(out, "curve %d: %d knots\n", i, c.Len())
				series, err := digitize.UniformSeries(c, p.XAxis, p.YAxis, 100)
				if err != nil {
					return err
				}
				if stats, ok := series.Stats(); ok {
					fmt.Fprintf(out, "  x: [%g, %g] mean %g\n", stats.XMin, stats.XMax, stats.XMean)
					fmt.Fprintf(out, "  y: [%g, %g] mean %g\n", stats.YMin, stats.YMax, stats.YMean)
				}
			}
			return nil
		},
	}
}

func sampleCmd() *cobra.Command {
	var (
		curveIdx  int
		points    int
		adaptive  bool
		maxError  float64
		minPoints int
		maxPoints int
		output    string
		format    string
		byRow     bool
	)
	cmd := &cobra.Command{
		Use:   "sample <project.json>",
		Short: "Sample a curve and export the data series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			c := p.Curve(curveIdx)
			if c == nil {
				return fmt.Errorf("no curve %d in project", curveIdx)
			}

			var series digitize.Series
			if adaptive {
				series = digitize.AdaptiveSeries(c, p.XAxis, p.YAxis, maxError, minPoints, maxPoints)
			} else {
				series, err = digitize.UniformSeries(c, p.XAxis, p.YAxis, points)
				if err != nil {
					return err
				}
			}
			if len(series) == 0 {
				return fmt.Errorf("curve %d has too few knots to sample", curveIdx)
			}

			layout := export.ByColumn
			if byRow {
				layout = export.ByRow
			}
			switch format {
			case "csv":
				if output == "" {
					return export.WriteCSV(cmd.OutOrStdout(), series, layout)
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				return export.WriteCSV(f, series, layout)
			case "xlsx":
				if output == "" {
					return fmt.Errorf("xlsx output requires --output")
				}
				name := fmt.Sprintf("curve%d", curveIdx)
				return export.WriteXLSX(output, name, series, layout)
			default:
				return fmt.Errorf("unknown format %q (must be csv or xlsx)", format)
			}
		},
	}
	cmd.Flags().IntVar(&curveIdx, "curve", 0, "Curve index to sample")
	cmd.Flags().IntVar(&points, "points", 50, "Number of uniformly spaced samples")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "Use curvature-adaptive sampling")
	cmd.Flags().Float64Var(&maxError, "max-error", 0.5, "Maximum deviation in pixels for adaptive sampling")
	cmd.Flags().IntVar(&minPoints, "min-points", 10, "Minimum adaptive sample count")
	cmd.Flags().IntVar(&maxPoints, "max-points", 500, "Maximum adaptive sample count")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or xlsx")
	cmd.Flags().BoolVar(&byRow, "by-row", false, "Write x and y as rows instead of columns")
	return cmd
}

func chartCmd() *cobra.Command {
	var (
		curveIdx int
		points   int
		output   string
	)
	cmd := &cobra.Command{
		Use:   "chart <project.json>",
		Short: "Render a sampled curve as a line chart PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			c := p.Curve(curveIdx)
			if c == nil {
				return fmt.Errorf("no curve %d in project", curveIdx)
			}
			series, err := digitize.UniformSeries(c, p.XAxis, p.YAxis, points)
			if err != nil {
				return err
			}
			if len(series) == 0 {
				return fmt.Errorf("curve %d has too few knots to sample", curveIdx)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			title := fmt.Sprintf("curve %d", curveIdx)
			logX := p.XAxis.Kind() == digitize.Logarithmic
			logY := p.YAxis.Kind() == digitize.Logarithmic
			return export.WriteChartPNG(f, title, series, logX, logY)
		},
	}
	cmd.Flags().IntVar(&curveIdx, "curve", 0, "Curve index to chart")
	cmd.Flags().IntVar(&points, "points", 100, "Number of samples")
	cmd.Flags().StringVarP(&output, "output", "o", "chart.png", "Output PNG path")
	return cmd
}

func warpCmd() *cobra.Command {
	var (
		cornerSpec string
		width      int
		height     int
		output     string
	)
	cmd := &cobra.Command{
		Use:   "warp <image>",
		Short: "Perspective-correct a plot image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corners, err := parseCorners(cornerSpec)
			if err != nil {
				return err
			}
			p := project.New()
			if err := p.LoadImage(args[0]); err != nil {
				return err
			}
			p.SetCorners(digitize.ReorderCorners(corners))
			if err := p.ApplyPerspective(width, height); err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := png.Encode(f, p.Corrected); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&cornerSpec, "corners", "", `Four corner points as "x,y x,y x,y x,y"`)
	cmd.Flags().IntVar(&width, "width", project.DefaultCorrectedWidth, "Output width in pixels")
	cmd.Flags().IntVar(&height, "height", project.DefaultCorrectedHeight, "Output height in pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "warped.png", "Output PNG path")
	cmd.MarkFlagRequired("corners")
	return cmd
}

// parseCorners parses a "x,y x,y x,y x,y" flag value.
func parseCorners(spec string) ([4]digitize.Point, error) {
	var corners [4]digitize.Point
	fields := strings.Fields(spec)
	if len(fields) != 4 {
		return corners, fmt.Errorf("--corners needs 4 points, got %d", len(fields))
	}
	for i, field := range fields {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return corners, fmt.Errorf("invalid corner %q", field)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return corners, fmt.Errorf("invalid corner %q: %w", field, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return corners, fmt.Errorf("invalid corner %q: %w", field, err)
		}
		corners[i] = digitize.Pt(x, y)
	}
	return corners, nil
}
