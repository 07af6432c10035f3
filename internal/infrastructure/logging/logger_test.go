package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"development", DevelopmentConfig(), false},
		{"no outputs", Config{Level: "warn"}, false},
		{"bad level", Config{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNamedOnNil(t *testing.T) {
	var l *Logger
	assert.NotNil(t, l.Named("loader"))
	assert.NotNil(t, OrNop(nil))
}

func TestWrapCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := Wrap(zap.New(core)).Named("catalog").With(zap.String("run", "r1"))

	logger.Info("Catalog loaded")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog", entries[0].LoggerName)
	assert.Equal(t, "r1", entries[0].ContextMap()["run"])
}
