package service

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
)

const chartSize = 320

// ErrEmptyChart is returned when there is no status to plot.
var ErrEmptyChart = errors.New("no status values to plot")

// ChartService draws the status distribution.
type ChartService struct{}

// PieChart renders dist as a PNG pie. Slice labels carry the status and its
// share with one decimal.
func (s *ChartService) PieChart(dist []StatusCount) ([]byte, error) {
	total := 0
	for _, sc := range dist {
		total += sc.Count
	}
	if total == 0 {
		return nil, ErrEmptyChart
	}

	values := make([]chart.Value, 0, len(dist))
	for _, sc := range dist {
		share := float64(sc.Count) * 100 / float64(total)
		values = append(values, chart.Value{
			Value: float64(sc.Count),
			Label: fmt.Sprintf("%s %.1f%%", sc.Status, share),
		})
	}

	pie := chart.PieChart{
		Width:  chartSize,
		Height: chartSize,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
