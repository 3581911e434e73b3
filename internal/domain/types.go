// Package domain defines the data model shared between the analytics feed
// and the dashboard: snapshots, per-strike rows, trading signals, and
// support/resistance levels.
package domain

// Buildup classifies position accumulation at a strike, inferred upstream
// from open interest and price movement.
type Buildup string

const (
	BuildupLong  Buildup = "LONG"
	BuildupShort Buildup = "SHORT"
	BuildupNone  Buildup = "-"
)

// Bias is the overall directional bias attached to a signal set.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)

// PCR holds put-call ratios by open interest and by traded volume.
type PCR struct {
	OI     float64 `json:"pcr_oi"`
	Volume float64 `json:"pcr_volume"`
}

// SkewPatterns flags directional OI-skew patterns detected upstream. The
// two flags are mutually exclusive by contract of the analytics engine.
type SkewPatterns struct {
	Bullish bool `json:"bullish_skew"`
	Bearish bool `json:"bearish_skew"`
}

// StrikeRow is the per-strike slice of the option chain. Rows arrive
// ordered by strike ascending and that order must be preserved.
type StrikeRow struct {
	Strike          float64 `json:"strike"`
	CEOI            float64 `json:"ce_oi"`
	CEChangeOI      float64 `json:"ce_change_oi"`
	CEVolume        float64 `json:"ce_volume"`
	CEVolumeOIRatio float64 `json:"ce_volume_oi_ratio"`
	CEBuildup       Buildup `json:"ce_buildup"`
	OISkew          float64 `json:"oi_skew"`
	PEBuildup       Buildup `json:"pe_buildup"`
	PEVolumeOIRatio float64 `json:"pe_volume_oi_ratio"`
	PEVolume        float64 `json:"pe_volume"`
	PEChangeOI      float64 `json:"pe_change_oi"`
	PEOI            float64 `json:"pe_oi"`
}

// SupportResistance carries derived levels ordered by proximity to spot.
// StrongSupport/StrongResistance are nil when no level qualifies.
type SupportResistance struct {
	Support          []float64 `json:"support"`
	Resistance       []float64 `json:"resistance"`
	StrongSupport    *float64  `json:"strong_support"`
	StrongResistance *float64  `json:"strong_resistance"`
}

// Snapshot is one complete set of derived option-chain analytics for an
// instrument. It is immutable once received: each successful fetch replaces
// the previous snapshot wholesale, never patches it in place.
type Snapshot struct {
	SpotPrice         float64           `json:"spot_price"`
	PCR               PCR               `json:"pcr"`
	MaxPain           float64           `json:"max_pain"`
	SkewPatterns      SkewPatterns      `json:"skew_patterns"`
	SentimentScore    int               `json:"sentiment_score"`
	StrikeData        []StrikeRow       `json:"strike_data"`
	SupportResistance SupportResistance `json:"support_resistance"`
}

// SignalSet is the set of trading signals computed alongside a snapshot.
// It may be absent when the engine has no signals for the instrument yet.
type SignalSet struct {
	Signals    []string `json:"signals"`
	Confidence int      `json:"confidence"`
	Bias       Bias     `json:"overall_bias"`
}
