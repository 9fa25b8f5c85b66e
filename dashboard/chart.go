package dashboard

import (
	"math"

	"github.com/liamzebedee/feevote-go/core/feevote"
)

// Margins around the plot area, in px.
const (
	chartMarginTop    = 20
	chartMarginRight  = 30
	chartMarginBottom = 30
	chartMarginLeft   = 60
	chartTicks        = 5
)

type chartBar struct {
	X, Y, Width, Height float64

	Name     string
	Key      string
	Value    string
	Explicit bool
	Median   bool
}

type chartTick struct {
	Y     float64
	Label string
}

// barChart is the SVG geometry for one parameter's ranked list.
type barChart struct {
	Width, Height                            float64
	PlotLeft, PlotTop, PlotWidth, PlotHeight float64

	Bars  []chartBar
	Ticks []chartTick
	Unit  string
	Empty bool

	// Reference lines. Only drawn when the list is non-empty.
	CurrentY float64
	MedianX  float64
}

func (c barChart) PlotBottom() float64 {
	return c.PlotTop + c.PlotHeight
}

func (c barChart) PlotRight() float64 {
	return c.PlotLeft + c.PlotWidth
}

func (c barChart) CenterX() float64 {
	return c.PlotLeft + c.PlotWidth/2
}

func (c barChart) CenterY() float64 {
	return c.PlotTop + c.PlotHeight/2
}

func newBarChart(view feevote.ParameterView, width, height float64) barChart {
	chart := barChart{
		Width:      width,
		Height:     height,
		PlotLeft:   chartMarginLeft,
		PlotTop:    chartMarginTop,
		PlotWidth:  width - chartMarginLeft - chartMarginRight,
		PlotHeight: height - chartMarginTop - chartMarginBottom,
		Unit:       view.Unit,
		Empty:      len(view.Ranked) == 0,
	}

	maxValue := view.Current
	for _, entry := range view.Ranked {
		maxValue = math.Max(maxValue, entry.Voting)
	}
	maxValue *= 1.1
	if maxValue <= 0 {
		maxValue = 1
	}

	y := func(v float64) float64 {
		return chart.PlotTop + chart.PlotHeight - v/maxValue*chart.PlotHeight
	}

	for i := 0; i < chartTicks; i++ {
		v := maxValue * float64(i) / float64(chartTicks-1)
		chart.Ticks = append(chart.Ticks, chartTick{Y: y(v), Label: formatValue(v)})
	}

	if chart.Empty {
		return chart
	}

	slot := chart.PlotWidth / float64(len(view.Ranked))
	gap := slot * 0.1
	for i, entry := range view.Ranked {
		top := y(entry.Voting)
		chart.Bars = append(chart.Bars, chartBar{
			X:        chart.PlotLeft + float64(i)*slot + gap/2,
			Y:        top,
			Width:    slot - gap,
			Height:   chart.PlotBottom() - top,
			Name:     entry.Name,
			Key:      entry.Key,
			Value:    formatValue(entry.Voting),
			Explicit: entry.Explicit,
			Median:   view.Markers != nil && i+1 == view.Markers.MedianPosition,
		})
	}

	chart.CurrentY = y(view.Markers.CurrentReference)
	chart.MedianX = chart.PlotLeft + (float64(view.Markers.MedianPosition)-0.5)*slot
	return chart
}
