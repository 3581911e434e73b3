package dashboard

import (
	"math"
	"strings"

	"optiondeck/internal/domain"
)

// Severity is the UI category a panel value maps to. The presentation
// layer decides what each category looks like; the builders here only
// decide which category applies.
type Severity int

const (
	SeverityNone Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityDanger
	SeverityInfo
)

// atmBand is the absolute distance from spot within which a strike row is
// marked at-the-money. The band is fixed, not scaled to the strike step,
// so an index and a low-priced equity share the same ±50.
const atmBand = 50.0

// MetricCard is one tile of the key-metrics panel.
type MetricCard struct {
	Label    string
	Value    string
	Severity Severity
}

// BuildKeyMetrics projects the snapshot into the key-metrics cards. The
// classification thresholds: PCR-OI over 1.2 reads bullish-crowded
// (danger), under 0.8 bearish-light (success); sentiment 70/30 split the
// same three ways.
func BuildKeyMetrics(snap *domain.Snapshot) []MetricCard {
	if snap == nil {
		return nil
	}

	pcrSev := SeverityWarning
	switch {
	case snap.PCR.OI > 1.2:
		pcrSev = SeverityDanger
	case snap.PCR.OI < 0.8:
		pcrSev = SeveritySuccess
	}

	// Bullish takes precedence when both flags are set; the upstream
	// contract makes them mutually exclusive, this just keeps ambiguous
	// input deterministic.
	skewLabel, skewSev := "Neutral", SeverityWarning
	switch {
	case snap.SkewPatterns.Bullish:
		skewLabel, skewSev = "Bullish", SeveritySuccess
	case snap.SkewPatterns.Bearish:
		skewLabel, skewSev = "Bearish", SeverityDanger
	}

	sentSev := SeverityWarning
	switch {
	case snap.SentimentScore >= 70:
		sentSev = SeveritySuccess
	case snap.SentimentScore <= 30:
		sentSev = SeverityDanger
	}

	return []MetricCard{
		{Label: "Spot", Value: FormatPrice(snap.SpotPrice)},
		{Label: "PCR (OI)", Value: FormatRatio(snap.PCR.OI), Severity: pcrSev},
		{Label: "PCR (Vol)", Value: FormatRatio(snap.PCR.Volume)},
		{Label: "Max Pain", Value: FormatPrice(snap.MaxPain)},
		{Label: "OI Skew", Value: skewLabel, Severity: skewSev},
		{Label: "Sentiment", Value: FormatRatio(float64(snap.SentimentScore)), Severity: sentSev},
	}
}

// SignalsView is the trading-signals panel model.
type SignalsView struct {
	Bias        domain.Bias
	Severity    Severity
	Icon        string // "▲", "▼" or "▶"
	Confidence  int
	Items       []string
	Placeholder string // non-empty exactly when Items is empty
}

// BuildSignals projects the signal set into the signals panel. An empty or
// absent signal list renders a single placeholder line, never an empty
// panel.
func BuildSignals(sigs *domain.SignalSet) SignalsView {
	v := SignalsView{Bias: domain.BiasNeutral, Severity: SeverityNone, Icon: "▶"}
	if sigs != nil {
		v.Bias = sigs.Bias
		v.Confidence = sigs.Confidence
		v.Items = append([]string(nil), sigs.Signals...)
	}
	switch v.Bias {
	case domain.BiasBullish:
		v.Severity, v.Icon = SeveritySuccess, "▲"
	case domain.BiasBearish:
		v.Severity, v.Icon = SeverityDanger, "▼"
	}
	if len(v.Items) == 0 {
		v.Placeholder = "No strong signals right now"
	}
	return v
}

// LevelEntry is one row of the support/resistance lists.
type LevelEntry struct {
	Price    string
	Distance string // percentage distance from spot, two decimals
	Strong   bool
}

// LevelsView holds the two ordered level lists.
type LevelsView struct {
	Support     []LevelEntry
	Resistance  []LevelEntry
	Placeholder string // non-empty when both lists are empty
}

// BuildLevels projects support/resistance into the levels panel, keeping
// upstream ordering (ascending by proximity). The strong level is matched
// by value equality.
func BuildLevels(snap *domain.Snapshot) LevelsView {
	var v LevelsView
	if snap == nil {
		v.Placeholder = "No strong levels detected"
		return v
	}
	sr := snap.SupportResistance
	v.Support = buildLevelList(sr.Support, sr.StrongSupport, snap.SpotPrice)
	v.Resistance = buildLevelList(sr.Resistance, sr.StrongResistance, snap.SpotPrice)
	if len(v.Support) == 0 && len(v.Resistance) == 0 {
		v.Placeholder = "No strong levels detected"
	}
	return v
}

func buildLevelList(levels []float64, strong *float64, spot float64) []LevelEntry {
	out := make([]LevelEntry, 0, len(levels))
	for _, lvl := range levels {
		e := LevelEntry{Price: FormatPrice(lvl)}
		if spot != 0 {
			e.Distance = FormatPercent((lvl - spot) / spot * 100)
		}
		if strong != nil && lvl == *strong {
			e.Strong = true
		}
		out = append(out, e)
	}
	return out
}

// ChainRow is one rendered row of the option-chain table. Hidden rows are
// filtered out of display but kept in the model so clearing the filter
// restores them without a refetch.
type ChainRow struct {
	StrikeLabel string
	ATM         bool
	Hidden      bool

	CEOI         string
	CEChangeOI   string
	CEChangePos  bool // strictly positive change
	CEVolume     string
	CERatio      string
	CESeverity   Severity // buildup tint
	OISkew       string
	SkewSeverity Severity
	PESeverity   Severity
	PERatio      string
	PEVolume     string
	PEChangeOI   string
	PEChangePos  bool
	PEOI         string
}

// BuildChainRows projects strike rows into table rows in the input order —
// the chain arrives sorted by strike and rendering must not re-sort it.
// filter hides rows whose strike label does not contain it as a
// case-sensitive substring.
func BuildChainRows(snap *domain.Snapshot, filter string) []ChainRow {
	if snap == nil {
		return nil
	}
	rows := make([]ChainRow, 0, len(snap.StrikeData))
	for _, r := range snap.StrikeData {
		label := FormatStrike(r.Strike)
		row := ChainRow{
			StrikeLabel: label,
			ATM:         math.Abs(r.Strike-snap.SpotPrice) <= atmBand,
			Hidden:      filter != "" && !strings.Contains(label, filter),

			CEOI:        FormatMagnitude(r.CEOI),
			CEChangeOI:  FormatSignedMagnitude(r.CEChangeOI),
			CEChangePos: r.CEChangeOI > 0,
			CEVolume:    FormatMagnitude(r.CEVolume),
			CERatio:     FormatRatio(r.CEVolumeOIRatio),
			CESeverity:  buildupSeverity(r.CEBuildup),
			OISkew:      FormatRatio(r.OISkew),
			PESeverity:  buildupSeverity(r.PEBuildup),
			PERatio:     FormatRatio(r.PEVolumeOIRatio),
			PEVolume:    FormatMagnitude(r.PEVolume),
			PEChangeOI:  FormatSignedMagnitude(r.PEChangeOI),
			PEChangePos: r.PEChangeOI > 0,
			PEOI:        FormatMagnitude(r.PEOI),
		}
		switch {
		case r.OISkew > 0.3:
			row.SkewSeverity = SeverityWarning
		case r.OISkew < -0.3:
			row.SkewSeverity = SeverityInfo
		}
		rows = append(rows, row)
	}
	return rows
}

func buildupSeverity(b domain.Buildup) Severity {
	switch b {
	case domain.BuildupLong:
		return SeveritySuccess
	case domain.BuildupShort:
		return SeverityDanger
	default:
		return SeverityNone
	}
}

// ChartKind selects how the charting collaborator draws a series.
type ChartKind int

const (
	ChartLine ChartKind = iota
	ChartBar
)

// ChartSeries is a (strike → value) series handed to the charting
// collaborator. The core only produces the series; drawing is delegated.
type ChartSeries struct {
	Name string
	X    []float64
	Y    []float64
	Kind ChartKind
}

// BuildSkewSeries produces the per-strike OI-skew line series in strike
// order.
func BuildSkewSeries(snap *domain.Snapshot) ChartSeries {
	s := ChartSeries{Name: "OI Skew", Kind: ChartLine}
	if snap == nil {
		return s
	}
	for _, r := range snap.StrikeData {
		s.X = append(s.X, r.Strike)
		s.Y = append(s.Y, r.OISkew)
	}
	return s
}

// BuildRatioSeries produces the CE and PE volume-to-OI ratio bar series in
// strike order. A missing ratio contributes 0.
func BuildRatioSeries(snap *domain.Snapshot) (ce, pe ChartSeries) {
	ce = ChartSeries{Name: "CE Vol/OI", Kind: ChartBar}
	pe = ChartSeries{Name: "PE Vol/OI", Kind: ChartBar}
	if snap == nil {
		return ce, pe
	}
	for _, r := range snap.StrikeData {
		ce.X = append(ce.X, r.Strike)
		ce.Y = append(ce.Y, r.CEVolumeOIRatio)
		pe.X = append(pe.X, r.Strike)
		pe.Y = append(pe.Y, r.PEVolumeOIRatio)
	}
	return ce, pe
}
