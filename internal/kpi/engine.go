package kpi

import (
	"fmt"
	"math"
	"time"

	"mfg-assist/internal/dataset"
	"mfg-assist/internal/scenario"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMissingDataset means a required table is absent or empty.
	// Aggregating an empty table is undefined, so this is fatal; no
	// partial result is returned.
	ErrMissingDataset = errors.New("missing dataset")

	// ErrNoRowsInWindow means the trailing window selected zero rows.
	ErrNoRowsInWindow = errors.New("no rows in trailing window")
)

// DefaultRiskSKU is the SKU whose on-hand position the alternate-supplier
// action tops up. It must match the demo inventory table.
const DefaultRiskSKU = "SKU-19"

// WindowDays is the length of the "recent" trailing window.
const WindowDays = 7

// trendDays is the length of the most-recent sub-window used for the
// throughput trend comparison.
const trendDays = 3

// Trend is the direction of recent throughput relative to the earlier
// part of the window.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Config carries the engine's tuning knobs.
type Config struct {
	// RiskSKU receives the scenario's extra quantity before inventory
	// risk is evaluated. Empty means DefaultRiskSKU.
	RiskSKU string
}

// Result is the flat KPI record recomputed on every request. It has no
// identity beyond the computation that produced it.
type Result struct {
	ThroughputPerDay   float64 `json:"throughput_per_day"`
	OnTimePct          float64 `json:"on_time_pct"`
	DefectRatePct      float64 `json:"defect_rate_pct"`
	DowntimeHours      float64 `json:"downtime_hours"`
	InventoryRiskCount int     `json:"inventory_risk_count"`
	ThroughputTrend    Trend   `json:"throughput_trend"`
	TopDowntimeCause   string  `json:"top_downtime_cause"`
	TopDefectFamily    string  `json:"top_defect_family"`
	LowestStockSKU     string  `json:"lowest_stock_sku"`
	OTDRiskPct         float64 `json:"otd_risk_pct"`
	Notes              string  `json:"notes,omitempty"`
}

// Compute derives all KPIs from the dataset snapshot and the scenario
// state. It is a pure function of its inputs: identical inputs always
// yield an identical Result.
func Compute(snap dataset.Snapshot, st scenario.State, cfg Config) (Result, error) {
	if len(snap.Orders) == 0 {
		return Result{}, errors.Wrap(ErrMissingDataset, "orders")
	}
	if len(snap.Downtime) == 0 {
		return Result{}, errors.Wrap(ErrMissingDataset, "downtime_log")
	}
	if len(snap.Inventory) == 0 {
		return Result{}, errors.Wrap(ErrMissingDataset, "inventory")
	}
	// An empty quality table is tolerated: the defect rate is zero-guarded
	// and the top family degrades to empty.

	riskSKU := cfg.RiskSKU
	if riskSKU == "" {
		riskSKU = DefaultRiskSKU
	}

	throughput, trend, err := computeThroughput(snap.Orders, st)
	if err != nil {
		return Result{}, err
	}

	downtimeHours, err := computeDowntime(snap.Downtime, st)
	if err != nil {
		return Result{}, err
	}

	onHand := adjustedOnHand(snap.Inventory, riskSKU, st.ExtraQty)
	riskCount := 0
	for _, item := range snap.Inventory {
		if onHand[item.SKU] < item.SafetyStock {
			riskCount++
		}
	}

	res := Result{
		ThroughputPerDay:   throughput,
		OnTimePct:          onTimePct(snap.Orders),
		DefectRatePct:      defectRatePct(snap.Inspections),
		DowntimeHours:      downtimeHours,
		InventoryRiskCount: riskCount,
		ThroughputTrend:    trend,
		TopDowntimeCause:   topDowntimeCause(snap.Downtime),
		TopDefectFamily:    topDefectFamily(snap.Inspections),
		LowestStockSKU:     lowestStockSKU(snap.Inventory, onHand),
		OTDRiskPct:         OTDRisk(st),
		Notes:              notes(st),
	}
	return res, nil
}

// computeThroughput returns recent daily throughput (with scenario
// multipliers applied) and the trend of the last trendDays vs the
// earlier portion of the window.
func computeThroughput(orders []dataset.Order, st scenario.State) (float64, Trend, error) {
	dates := make([]time.Time, len(orders))
	for i, o := range orders {
		dates[i] = o.OrderDate
	}
	latest, _ := maxDay(dates)
	window := NewTrailingWindow(latest, WindowDays)

	var recentQty, lastQty, prevQty int
	var lastN, prevN int
	distinctDays := make(map[time.Time]struct{})
	trendCutoff := latest.AddDate(0, 0, -(trendDays - 1))

	for _, o := range orders {
		if !window.Contains(o.OrderDate) {
			continue
		}
		recentQty += o.QtyProduced
		distinctDays[DayFloor(o.OrderDate)] = struct{}{}
		if !DayFloor(o.OrderDate).Before(trendCutoff) {
			lastQty += o.QtyProduced
			lastN++
		} else {
			prevQty += o.QtyProduced
			prevN++
		}
	}

	if len(distinctDays) == 0 {
		return 0, TrendFlat, errors.Wrapf(ErrNoRowsInWindow,
			"orders between %s and %s", window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}

	throughput := float64(recentQty) / math.Max(1, float64(len(distinctDays)))
	if st.Resequence {
		throughput *= 1.03
	}
	if st.BatchChangeovers {
		throughput *= 1.02
	}
	if st.QAFastTrack {
		throughput *= 1.01
	}

	// With no rows before the trend cutoff there is nothing to compare
	// against; report flat rather than inventing a direction.
	trend := TrendFlat
	if lastN > 0 && prevN > 0 {
		lastMean := float64(lastQty) / float64(lastN)
		prevMean := float64(prevQty) / float64(prevN)
		switch {
		case lastMean > prevMean:
			trend = TrendUp
		case lastMean < prevMean:
			trend = TrendDown
		}
	}

	return throughput, trend, nil
}

func computeDowntime(entries []dataset.Downtime, st scenario.State) (float64, error) {
	starts := make([]time.Time, len(entries))
	for i, d := range entries {
		starts[i] = d.Start
	}
	latest, _ := maxDay(starts)
	window := NewTrailingWindow(latest, WindowDays)

	var minutes float64
	rows := 0
	for _, d := range entries {
		if window.Contains(d.Start) {
			minutes += d.DurationMin
			rows++
		}
	}
	if rows == 0 {
		return 0, errors.Wrapf(ErrNoRowsInWindow,
			"downtime_log between %s and %s", window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}

	hours := minutes / 60.0
	if st.BatchChangeovers {
		hours = math.Max(0, hours-0.5)
	}
	return hours, nil
}

func onTimePct(orders []dataset.Order) float64 {
	onTime := 0
	for _, o := range orders {
		if !o.ActualShipDate.After(o.PromisedShipDate) {
			onTime++
		}
	}
	return float64(onTime) / float64(len(orders)) * 100
}

func defectRatePct(inspections []dataset.Inspection) float64 {
	var units, defects int
	for _, q := range inspections {
		units += q.UnitsInspected
		defects += q.DefectsFound
	}
	if units == 0 {
		return 0.0
	}
	return float64(defects) / float64(units) * 100
}

// adjustedOnHand returns on-hand quantities keyed by SKU with the
// scenario's extra quantity added to the risk SKU. When the risk SKU is
// absent the addition is skipped.
func adjustedOnHand(items []dataset.InventoryItem, riskSKU string, extraQty int) map[string]int {
	onHand := make(map[string]int, len(items))
	for _, item := range items {
		onHand[item.SKU] = item.OnHand
	}
	if _, ok := onHand[riskSKU]; ok {
		onHand[riskSKU] += extraQty
	}
	return onHand
}

func topDowntimeCause(entries []dataset.Downtime) string {
	sums := make(map[string]float64)
	for _, d := range entries {
		sums[d.Cause] += d.DurationMin
	}
	return maxKey(sums)
}

func topDefectFamily(inspections []dataset.Inspection) string {
	if len(inspections) == 0 {
		return ""
	}
	sums := make(map[string]float64)
	for _, q := range inspections {
		sums[q.DefectFamily] += float64(q.DefectsFound)
	}
	return maxKey(sums)
}

func lowestStockSKU(items []dataset.InventoryItem, onHand map[string]int) string {
	lowest := ""
	for _, item := range items {
		qty := onHand[item.SKU]
		if lowest == "" || qty < onHand[lowest] || (qty == onHand[lowest] && item.SKU < lowest) {
			lowest = item.SKU
		}
	}
	return lowest
}

// maxKey returns the key with the largest summed value. Ties resolve to
// the lexicographically smallest key so the result is deterministic.
func maxKey(sums map[string]float64) string {
	best := ""
	var bestSum float64
	for key, sum := range sums {
		if best == "" || sum > bestSum || (sum == bestSum && key < best) {
			best = key
			bestSum = sum
		}
	}
	return best
}

// OTDRisk estimates the on-time-delivery risk percentage from the
// scenario's delivery interventions, clamped to [1, 15] and rounded to
// one decimal.
func OTDRisk(st scenario.State) float64 {
	risk := 9.5 - (float64(st.ETAOffsetDays)*2.0 + float64(st.CarrierUpgradeDays)*1.2)
	risk = math.Max(1.0, math.Min(risk, 15.0))
	return math.Round(risk*10) / 10
}

// ETARemainingDays estimates the inbound delay still outstanding after
// the applied interventions.
func ETARemainingDays(st scenario.State) int {
	remaining := 3 - (st.ETAOffsetDays + st.CarrierUpgradeDays)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func notes(st scenario.State) string {
	return fmt.Sprintf("ETA remaining delay ~ %d days; extra_qty=%d, carrier_upgrade_days=%d, qa_fast_track=%t",
		ETARemainingDays(st), st.ExtraQty, st.CarrierUpgradeDays, st.QAFastTrack)
}
