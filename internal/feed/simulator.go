package feed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"optiondeck/internal/domain"
)

// Compile-time interface check.
var _ Source = (*Simulator)(nil)

// instrumentProfile describes the price scale of a simulated underlying.
type instrumentProfile struct {
	baseSpot   float64
	strikeStep float64
}

var defaultProfiles = map[string]instrumentProfile{
	"NIFTY":      {baseSpot: 19500, strikeStep: 50},
	"BANKNIFTY":  {baseSpot: 44500, strikeStep: 100},
	"RELIANCE":   {baseSpot: 2450, strikeStep: 20},
	"TCS":        {baseSpot: 3550, strikeStep: 25},
	"HDFCBANK":   {baseSpot: 1620, strikeStep: 20},
	"ICICIBANK":  {baseSpot: 980, strikeStep: 10},
	"BHARTIARTL": {baseSpot: 905, strikeStep: 10},
	"SBIN":       {baseSpot: 590, strikeStep: 5},
}

// Simulator generates plausible option-chain analytics without touching an
// exchange, for local development and demos. Values random-walk between
// calls but stay internally consistent: PCR, max pain, skew and levels are
// derived from the generated chain the same way the real engine derives
// them from market data.
type Simulator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	spots map[string]float64 // current spot per instrument
	now   func() time.Time
}

// NewSimulator creates a Simulator seeded for reproducible sequences.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rng:   rand.New(rand.NewSource(seed)),
		spots: make(map[string]float64),
		now:   time.Now,
	}
}

// Name returns "simulator".
func (s *Simulator) Name() string { return "simulator" }

// Fetch generates a fresh snapshot for the instrument. Unknown instruments
// get a generic mid-priced profile rather than an error so any tab works
// offline.
func (s *Simulator) Fetch(_ context.Context, instrument string) (*domain.Snapshot, *domain.SignalSet, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, ok := defaultProfiles[instrument]
	if !ok {
		prof = instrumentProfile{baseSpot: 1000, strikeStep: 10}
	}

	spot, ok := s.spots[instrument]
	if !ok {
		spot = prof.baseSpot
	}
	// Random walk within ±0.15% per refresh.
	spot *= 1 + (s.rng.Float64()-0.5)*0.003
	s.spots[instrument] = spot

	rows := s.buildChain(spot, prof.strikeStep)
	snap := s.analyze(spot, rows)
	sigs := s.signals(snap)
	ts := s.now().Format(time.RFC3339)

	return snap, sigs, ts, nil
}

// buildChain produces the ATM ±5 strike grid with OI weighted so calls
// accumulate above spot and puts below, the usual open-interest shape.
func (s *Simulator) buildChain(spot, step float64) []domain.StrikeRow {
	atm := math.Round(spot/step) * step
	rows := make([]domain.StrikeRow, 0, 11)

	for i := -5; i <= 5; i++ {
		strike := atm + float64(i)*step

		// Distance decay from ATM plus side weighting.
		decay := math.Exp(-math.Abs(float64(i)) / 3)
		ceWeight := decay * (1 + 0.4*sideBias(strike, spot))
		peWeight := decay * (1 + 0.4*sideBias(spot, strike))

		ceOI := math.Round((50000 + s.rng.Float64()*150000) * ceWeight)
		peOI := math.Round((50000 + s.rng.Float64()*150000) * peWeight)
		ceChg := math.Round((s.rng.Float64() - 0.45) * 30000)
		peChg := math.Round((s.rng.Float64() - 0.45) * 30000)
		ceVol := math.Round(ceOI * (0.2 + s.rng.Float64()*0.8))
		peVol := math.Round(peOI * (0.2 + s.rng.Float64()*0.8))

		row := domain.StrikeRow{
			Strike:     strike,
			CEOI:       ceOI,
			CEChangeOI: ceChg,
			CEVolume:   ceVol,
			CEBuildup:  buildupFor(ceChg),
			PEBuildup:  buildupFor(peChg),
			PEVolume:   peVol,
			PEChangeOI: peChg,
			PEOI:       peOI,
		}
		if ceOI > 0 {
			row.CEVolumeOIRatio = round2(ceVol / ceOI)
		}
		if peOI > 0 {
			row.PEVolumeOIRatio = round2(peVol / peOI)
		}
		if total := ceOI + peOI; total > 0 {
			row.OISkew = round2((peOI - ceOI) / total)
		}
		rows = append(rows, row)
	}
	return rows
}

// analyze derives the aggregate metrics the real engine computes: PCR over
// the chain, max pain as the strike minimising option-writer payout, OI
// skew flags, a PCR-scaled sentiment score, and OI-peak support/resistance.
func (s *Simulator) analyze(spot float64, rows []domain.StrikeRow) *domain.Snapshot {
	var ceOI, peOI, ceVol, peVol float64
	for _, r := range rows {
		ceOI += r.CEOI
		peOI += r.PEOI
		ceVol += r.CEVolume
		peVol += r.PEVolume
	}

	var pcr domain.PCR
	if ceOI > 0 {
		pcr.OI = round2(peOI / ceOI)
	}
	if ceVol > 0 {
		pcr.Volume = round2(peVol / ceVol)
	}

	snap := &domain.Snapshot{
		SpotPrice:         round2(spot),
		PCR:               pcr,
		MaxPain:           maxPain(rows),
		SentimentScore:    sentimentScore(pcr.OI),
		StrikeData:        rows,
		SupportResistance: levels(spot, rows),
	}
	switch {
	case pcr.OI > 1.2:
		snap.SkewPatterns.Bullish = true
	case pcr.OI < 0.8:
		snap.SkewPatterns.Bearish = true
	}
	return snap
}

// signals applies the scoring rules of the signal engine: PCR-OI above 1.4
// scores two bullish points, above 1.1 one; below 0.7 two bearish, below
// 0.9 one; a skewed chain adds one more to its side.
func (s *Simulator) signals(snap *domain.Snapshot) *domain.SignalSet {
	bullish, bearish := 0, 0
	switch {
	case snap.PCR.OI > 1.4:
		bullish += 2
	case snap.PCR.OI > 1.1:
		bullish++
	case snap.PCR.OI < 0.7:
		bearish += 2
	case snap.PCR.OI < 0.9:
		bearish++
	}
	if snap.SkewPatterns.Bullish {
		bullish++
	}
	if snap.SkewPatterns.Bearish {
		bearish++
	}

	set := &domain.SignalSet{Bias: domain.BiasNeutral}
	switch {
	case bullish >= 3:
		set.Bias = domain.BiasBullish
		set.Confidence = 85
		set.Signals = append(set.Signals,
			fmt.Sprintf("STRONG BUY CE near %.0f (PCR-OI %.2f)", snap.MaxPain, snap.PCR.OI))
	case bullish == 2:
		set.Bias = domain.BiasBullish
		set.Confidence = 65
		set.Signals = append(set.Signals,
			fmt.Sprintf("BUY CE near %.0f (PCR-OI %.2f)", snap.MaxPain, snap.PCR.OI))
	case bearish >= 3:
		set.Bias = domain.BiasBearish
		set.Confidence = 85
		set.Signals = append(set.Signals,
			fmt.Sprintf("STRONG SELL / BUY PE near %.0f (PCR-OI %.2f)", snap.MaxPain, snap.PCR.OI))
	case bearish == 2:
		set.Bias = domain.BiasBearish
		set.Confidence = 65
		set.Signals = append(set.Signals,
			fmt.Sprintf("SELL / BUY PE near %.0f (PCR-OI %.2f)", snap.MaxPain, snap.PCR.OI))
	default:
		set.Confidence = 40
	}

	if sr := snap.SupportResistance; set.Bias != domain.BiasNeutral {
		if sr.StrongSupport != nil {
			set.Signals = append(set.Signals,
				fmt.Sprintf("Strong put writing at %.0f", *sr.StrongSupport))
		}
		if sr.StrongResistance != nil {
			set.Signals = append(set.Signals,
				fmt.Sprintf("Strong call writing at %.0f", *sr.StrongResistance))
		}
	}
	return set
}

// maxPain returns the strike at which aggregate option-writer payout is
// minimal when the underlying expires there.
func maxPain(rows []domain.StrikeRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	best, bestPain := rows[0].Strike, math.MaxFloat64
	for _, expiry := range rows {
		pain := 0.0
		for _, r := range rows {
			pain += r.CEOI * math.Max(0, expiry.Strike-r.Strike)
			pain += r.PEOI * math.Max(0, r.Strike-expiry.Strike)
		}
		if pain < bestPain {
			best, bestPain = expiry.Strike, pain
		}
	}
	return best
}

// levels picks support below spot by put OI and resistance above spot by
// call OI, ordered by proximity to spot, with the heaviest level marked
// strong.
func levels(spot float64, rows []domain.StrikeRow) domain.SupportResistance {
	var sr domain.SupportResistance
	var maxPE, maxCE float64

	for _, r := range rows {
		if r.Strike < spot {
			sr.Support = append(sr.Support, r.Strike)
			if r.PEOI > maxPE {
				maxPE = r.PEOI
				v := r.Strike
				sr.StrongSupport = &v
			}
		} else if r.Strike > spot {
			sr.Resistance = append(sr.Resistance, r.Strike)
			if r.CEOI > maxCE {
				maxCE = r.CEOI
				v := r.Strike
				sr.StrongResistance = &v
			}
		}
	}

	// Nearest levels first.
	sort.Slice(sr.Support, func(i, j int) bool { return sr.Support[i] > sr.Support[j] })
	sort.Slice(sr.Resistance, func(i, j int) bool { return sr.Resistance[i] < sr.Resistance[j] })

	if len(sr.Support) > 3 {
		sr.Support = sr.Support[:3]
	}
	if len(sr.Resistance) > 3 {
		sr.Resistance = sr.Resistance[:3]
	}
	return sr
}

// sentimentScore maps PCR-OI onto [0,100]; 1.0 is neutral 50.
func sentimentScore(pcrOI float64) int {
	score := int(math.Round(50 + (pcrOI-1)*62.5))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func buildupFor(changeOI float64) domain.Buildup {
	switch {
	case changeOI > 2000:
		return domain.BuildupLong
	case changeOI < -2000:
		return domain.BuildupShort
	default:
		return domain.BuildupNone
	}
}

// sideBias is 1 when a is comfortably above b, scaling down to 0.
func sideBias(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	d := (a - b) / b
	if d <= 0 {
		return 0
	}
	return math.Min(1, d*50)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
