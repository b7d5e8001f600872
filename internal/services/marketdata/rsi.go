package marketdata

import (
	"math"

	"github.com/markcheno/go-talib"

	"argus/pkg/errors"
)

// computeRSI returns the Wilder-smoothed RSI of the most recent close.
// Degenerate series are resolved before handing off to talib: a series with
// gains and no losses is pinned to 100, and a flat series is neutral 50
// rather than a division-by-zero artifact.
func computeRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "rsi period must be positive, got %d", period)
	}
	if len(closes) < period+1 {
		return 0, errors.Wrapf(errors.ErrInsufficientData, "rsi needs %d closes, have %d", period+1, len(closes))
	}

	var hasGain, hasLoss bool
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			hasGain = true
		} else if delta < 0 {
			hasLoss = true
		}
	}

	if !hasLoss {
		if hasGain {
			return 100, nil
		}
		return 50, nil
	}

	values := talib.Rsi(closes, period)
	rsi := values[len(values)-1]
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return 0, errors.Wrapf(errors.ErrInsufficientData, "rsi undefined for series of %d closes", len(closes))
	}

	return math.Max(0, math.Min(100, rsi)), nil
}
