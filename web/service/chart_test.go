package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestPieChart(t *testing.T) {
	svc := ChartService{}
	data, err := svc.PieChart([]StatusCount{{"Pagado", 2}, {"Pendiente", 1}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}

func TestPieChartEmpty(t *testing.T) {
	svc := ChartService{}
	_, err := svc.PieChart(nil)
	assert.ErrorIs(t, err, ErrEmptyChart)

	_, err = svc.PieChart([]StatusCount{{"Pagado", 0}})
	assert.ErrorIs(t, err, ErrEmptyChart)
}
