// Package chart renders the product inventory as a bar chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/abgdnv/inventory/internal/client/api"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SeriesLabel names the single data series of the chart.
const SeriesLabel = "Inventory Level"

const (
	barWidth   = 60
	barSpacing = 40
	minWidth   = 640
	height     = 480
)

var (
	fillColor   = drawing.Color{R: 75, G: 192, B: 192, A: 51}
	strokeColor = drawing.Color{R: 75, G: 192, B: 192, A: 255}
)

// Format is the image encoding of a rendered chart.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, SVG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

func (f Format) provider() gochart.RendererProvider {
	if f == SVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Surface is a drawing target that hosts at most one chart at a time.
type Surface interface {
	// Acquire returns the writer a new chart is drawn to. Closing it releases the chart.
	Acquire() (io.WriteCloser, error)
}

// FileSurface draws charts to a file, truncating it on every render.
type FileSurface struct {
	Path string
}

func (s FileSurface) Acquire() (io.WriteCloser, error) {
	f, err := os.Create(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open chart file: %w", err)
	}
	return f, nil
}

// WriterSurface draws charts to an arbitrary writer, which is never closed.
type WriterSurface struct {
	W io.Writer
}

func (s WriterSurface) Acquire() (io.WriteCloser, error) {
	if s.W == nil {
		return nil, errors.New("chart writer is nil")
	}
	return nopCloser{s.W}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// handle is a live chart bound to its surface.
type handle struct {
	w     io.WriteCloser
	chart *gochart.BarChart
}

func (h *handle) destroy() error {
	return h.w.Close()
}

// Renderer owns at most one live chart handle.
type Renderer struct {
	mu      sync.Mutex
	surface Surface
	format  Format
	current *handle
}

// NewRenderer creates a Renderer drawing to surface. A nil surface makes every Render a no-op.
func NewRenderer(surface Surface, format Format) *Renderer {
	return &Renderer{surface: surface, format: format}
}

// Render replaces the live chart with one built from products.
// The previous chart is released first, whatever the outcome.
// Nothing is drawn for a nil surface or an empty list.
func (r *Renderer) Render(products []api.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.release(); err != nil {
		return err
	}
	if r.surface == nil || len(products) == 0 {
		return nil
	}

	w, err := r.surface.Acquire()
	if err != nil {
		return err
	}
	c := Build(products)
	if err := c.Render(r.format.provider(), w); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	r.current = &handle{w: w, chart: c}
	return nil
}

// Live reports whether a chart is currently held.
func (r *Renderer) Live() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Close releases the live chart, if any.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.release()
}

func (r *Renderer) release() error {
	prev := r.current
	r.current = nil
	if prev == nil {
		return nil
	}
	if err := prev.destroy(); err != nil {
		return fmt.Errorf("failed to release chart: %w", err)
	}
	return nil
}

// Build maps products to a bar chart: one bar per product, labelled by name,
// with a y-axis that always includes zero.
func Build(products []api.Product) *gochart.BarChart {
	style := gochart.Style{
		FillColor:   fillColor,
		StrokeColor: strokeColor,
		StrokeWidth: 1,
	}

	bars := make([]gochart.Value, len(products))
	yMin, yMax := 0.0, 1.0
	for i, p := range products {
		v := float64(p.Inventory)
		bars[i] = gochart.Value{Label: p.Name, Value: v, Style: style}
		yMin = min(yMin, v)
		yMax = max(yMax, v)
	}

	return &gochart.BarChart{
		Title:        SeriesLabel,
		Width:        max(minWidth, len(products)*(barWidth+barSpacing)+2*barSpacing),
		Height:       height,
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Bars: bars,
	}
}
