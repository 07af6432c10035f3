package version

import (
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// Outcome is the result of comparing a local and a remote version
type Outcome int

const (
	UpToDate Outcome = iota
	IncrementalRequired
	MajorRequired
	Indeterminate
)

func (o Outcome) String() string {
	switch o {
	case UpToDate:
		return "up_to_date"
	case IncrementalRequired:
		return "incremental_required"
	case MajorRequired:
		return "major_required"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// RequiresUpdate reports whether the outcome asks for new content
func (o Outcome) RequiresUpdate() bool {
	return o == IncrementalRequired || o == MajorRequired
}

// Negotiator classifies version pairs
type Negotiator struct {
	logger *logging.Logger
}

// NewNegotiator creates a negotiator. A nil logger discards parse failures.
func NewNegotiator(logger *logging.Logger) *Negotiator {
	return &Negotiator{logger: logging.OrNop(logger).Named("version")}
}

// Classify compares local against remote. A version that fails to parse
// yields Indeterminate; the failure is logged and not returned.
func (n *Negotiator) Classify(local, remote string) Outcome {
	lv, err := Parse(local)
	if err != nil {
		n.logger.Warn("Local version unparseable", zap.String("version", local), zap.Error(err))
		return Indeterminate
	}
	rv, err := Parse(remote)
	if err != nil {
		n.logger.Warn("Remote version unparseable", zap.String("version", remote), zap.Error(err))
		return Indeterminate
	}
	return Compare(lv, rv)
}

// Compare classifies two parsed versions
func Compare(local, remote Version) Outcome {
	switch {
	case remote.Major > local.Major:
		return MajorRequired
	case remote.Major == local.Major && remote.Minor > local.Minor:
		return IncrementalRequired
	default:
		return UpToDate
	}
}
