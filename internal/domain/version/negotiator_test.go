package version

import (
	"errors"
	"testing"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		remote string
		want   Outcome
	}{
		{"equal", "1.2", "1.2", UpToDate},
		{"minor ahead", "1.2", "1.3", IncrementalRequired},
		{"major ahead", "1.2", "2.0", MajorRequired},
		{"major ahead minor behind", "1.9", "2.0", MajorRequired},
		{"non numeric minor", "1.x", "1.2", Indeterminate},
		{"non numeric remote", "1.2", "beta", Indeterminate},
		{"missing minor", "1", "1.2", Indeterminate},
		{"empty", "", "1.2", Indeterminate},
		{"patch ignored", "1.2", "1.2.9", UpToDate},
		{"local patch ignored", "1.2.9", "1.3", IncrementalRequired},
		{"remote behind", "1.3", "1.2", UpToDate},
		{"remote major behind", "2.0", "1.9", UpToDate},
		{"numeric not lexical", "1.9", "1.10", IncrementalRequired},
		{"surrounding whitespace", " 1.2\n", "1.3", IncrementalRequired},
	}

	n := NewNegotiator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Classify(tt.local, tt.remote))
		})
	}
}

func TestClassifyLogsParseFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	n := NewNegotiator(logging.Wrap(zap.New(core)))

	assert.Equal(t, Indeterminate, n.Classify("1.x", "1.2"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Local version unparseable", entries[0].Message)
	assert.Equal(t, "1.x", entries[0].ContextMap()["version"])
}

func TestParse(t *testing.T) {
	v, err := Parse("3.14.15")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 3, Minor: 14}, v)
	assert.Equal(t, "3.14", v.String())

	_, err = Parse("3")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "minor", perr.Component)
	assert.True(t, errors.Is(err, ErrMissingComponent))

	_, err = Parse("x.1")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "major", perr.Component)
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestParseTrimsComponents(t *testing.T) {
	for _, in := range []string{"1. 2", " 1 .2\n", "1.2 . 7"} {
		v, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, Version{Major: 1, Minor: 2}, v, in)
	}

	_, err := Parse("1. ")
	assert.ErrorIs(t, err, ErrMissingComponent)

	n := NewNegotiator(nil)
	assert.Equal(t, IncrementalRequired, n.Classify("1. 2", "1.3"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "up_to_date", UpToDate.String())
	assert.Equal(t, "incremental_required", IncrementalRequired.String())
	assert.Equal(t, "major_required", MajorRequired.String())
	assert.Equal(t, "indeterminate", Indeterminate.String())
	assert.Equal(t, "unknown", Outcome(42).String())

	assert.False(t, UpToDate.RequiresUpdate())
	assert.False(t, Indeterminate.RequiresUpdate())
	assert.True(t, IncrementalRequired.RequiresUpdate())
}
