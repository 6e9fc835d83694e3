package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/bitmap-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bitmap-tools-mcp/internal/colors"
	"github.com/ironsheep/bitmap-tools-mcp/internal/config"
	"github.com/ironsheep/bitmap-tools-mcp/internal/geometry"
)

// errNoMatch makes the process exit 1 without printing an error.
var errNoMatch = errors.New("no match")

// findFlags are shared by find-color and find-bitmap.
type findFlags struct {
	tolerance float64
	rect      []float64
	start     []float64
	scale     float64
	all       bool
	count     bool
}

func (f *findFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.tolerance, "tolerance", "t", 0, "color tolerance from 0 (exact) to 1 (default from config)")
	cmd.Flags().Float64SliceVar(&f.rect, "rect", nil, "search rect in points as x,y,width,height")
	cmd.Flags().Float64SliceVar(&f.start, "start", nil, "start point in points as x,y")
	cmd.Flags().Float64Var(&f.scale, "scale", 1, "pixels per point of the images")
	cmd.Flags().BoolVar(&f.all, "all", false, "print every match")
	cmd.Flags().BoolVar(&f.count, "count", false, "print the number of matches")
	cmd.MarkFlagsMutuallyExclusive("all", "count")
}

func (f *findFlags) options(cmd *cobra.Command) ([]bitmap.Option, error) {
	tolerance := config.Get().Search.DefaultTolerance
	if cmd.Flags().Changed("tolerance") {
		tolerance = f.tolerance
	}
	opts := []bitmap.Option{bitmap.WithTolerance(tolerance)}

	if cmd.Flags().Changed("rect") {
		r, err := rectFromFlag(f.rect)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bitmap.WithRect(r))
	}
	if cmd.Flags().Changed("start") {
		p, err := pointFromFlag(f.start)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bitmap.WithStart(p))
	}
	return opts, nil
}

func (f *findFlags) open(path string) (*bitmap.Bitmap, error) {
	bm, err := bitmap.Open(path)
	if err != nil {
		return nil, err
	}
	if f.scale != 1 {
		bm = bitmap.FromBuffer(bitmap.NewPixelBuffer(bm.Image(), f.scale))
	}
	return bm, nil
}

func newFindColorCmd() *cobra.Command {
	var f findFlags
	cmd := &cobra.Command{
		Use:   "find-color <image> <color>",
		Short: "Find pixels of a color in an image",
		Long: `Find pixels of a color in an image and print their positions as x,y in points.

The color is a name (red), #RRGGBB, #RGB or 0xRRGGBB.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := colors.ParseColor(args[1])
			if err != nil {
				return err
			}
			bm, err := f.open(args[0])
			if err != nil {
				return err
			}
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case f.count:
				n, err := bm.CountOfColor(c, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, n)
				return nil
			case f.all:
				points, err := bm.FindEveryColor(c, opts...)
				if err != nil {
					return err
				}
				return printPoints(out, points)
			default:
				p, found, err := bm.FindColor(c, opts...)
				if err != nil {
					return err
				}
				if !found {
					return printPoints(out, nil)
				}
				return printPoints(out, []geometry.Point{p})
			}
		},
	}
	f.register(cmd)
	return cmd
}

func newFindBitmapCmd() *cobra.Command {
	var f findFlags
	cmd := &cobra.Command{
		Use:   "find-bitmap <haystack> <needle>",
		Short: "Find a smaller image inside a larger one",
		Long:  "Find positions where needle appears inside haystack and print them as x,y in points.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			haystack, err := f.open(args[0])
			if err != nil {
				return err
			}
			needle, err := f.open(args[1])
			if err != nil {
				return err
			}
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case f.count:
				n, err := haystack.CountOfBitmap(needle, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, n)
				return nil
			case f.all:
				points, err := haystack.FindEveryBitmap(needle, opts...)
				if err != nil {
					return err
				}
				return printPoints(out, points)
			default:
				p, found, err := haystack.FindBitmap(needle, opts...)
				if err != nil {
					return err
				}
				if !found {
					return printPoints(out, nil)
				}
				return printPoints(out, []geometry.Point{p})
			}
		},
	}
	f.register(cmd)
	return cmd
}

// printPoints writes one x,y line per point. No points is errNoMatch.
func printPoints(w io.Writer, points []geometry.Point) error {
	if len(points) == 0 {
		return errNoMatch
	}
	for _, p := range points {
		fmt.Fprintf(w, "%s,%s\n", formatCoord(p.X), formatCoord(p.Y))
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rectFromFlag(v []float64) (geometry.Rect, error) {
	if len(v) != 4 {
		return geometry.Rect{}, fmt.Errorf("--rect: expected x,y,width,height, got %d numbers", len(v))
	}
	if v[2] < 0 || v[3] < 0 {
		return geometry.Rect{}, fmt.Errorf("--rect: width and height must not be negative")
	}
	return geometry.RectFromXYWH(v[0], v[1], v[2], v[3]), nil
}

func pointFromFlag(v []float64) (geometry.Point, error) {
	if len(v) != 2 {
		return geometry.Point{}, fmt.Errorf("--start: expected x,y, got %d numbers", len(v))
	}
	return geometry.NewPoint(v[0], v[1]), nil
}
