package logger

import (
	"testing"

	"github.com/op/go-logging"
	"github.com/proveedores/liquidaciones/config"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromConfig(t *testing.T) {
	cases := []struct {
		level   config.LogLevel
		want    logging.Level
		wantErr bool
	}{
		{config.Debug, logging.DEBUG, false},
		{config.Info, logging.INFO, false},
		{config.Notice, logging.NOTICE, false},
		{config.Warn, logging.WARNING, false},
		{config.Error, logging.ERROR, false},
		{"verbose", logging.INFO, true},
	}
	for _, tc := range cases {
		got, err := LevelFromConfig(tc.level)
		if tc.wantErr {
			assert.Error(t, err, tc.level)
		} else {
			assert.NoError(t, err, tc.level)
		}
		assert.Equal(t, tc.want, got, tc.level)
	}
}
