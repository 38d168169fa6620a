package kpi

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"mfg-assist/internal/dataset"
	"mfg-assist/internal/scenario"

	"github.com/cockroachdb/errors"
)

var testBase = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return testBase.AddDate(0, 0, offset)
}

// testSnapshot builds a small fixture with known aggregates:
// recent throughput 250/day, on-time 80%, defect rate 4%,
// recent downtime 2.0h, 2 inventory risks, trend up.
func testSnapshot() dataset.Snapshot {
	return dataset.Snapshot{
		Orders: []dataset.Order{
			// Outside the 7-day window; still counts for on-time.
			{OrderDate: day(-7), QtyProduced: 1000, PromisedShipDate: day(-4), ActualShipDate: day(-4)},
			{OrderDate: day(-6), QtyProduced: 100, PromisedShipDate: day(-3), ActualShipDate: day(-2)}, // late
			{OrderDate: day(-3), QtyProduced: 200, PromisedShipDate: day(0), ActualShipDate: day(0)},
			{OrderDate: day(-1), QtyProduced: 300, PromisedShipDate: day(2), ActualShipDate: day(1)},
			{OrderDate: day(0), QtyProduced: 400, PromisedShipDate: day(3), ActualShipDate: day(3)},
		},
		Inspections: []dataset.Inspection{
			{UnitsInspected: 100, DefectsFound: 5, DefectFamily: "Cosmetic"},
			{UnitsInspected: 100, DefectsFound: 3, DefectFamily: "Dimensional"},
		},
		Downtime: []dataset.Downtime{
			{Start: day(-8), DurationMin: 60, Cause: "Mechanical failure"}, // outside window
			{Start: day(-2), DurationMin: 90, Cause: "Changeover"},
			{Start: day(0), DurationMin: 30, Cause: "Material shortage"},
		},
		Inventory: []dataset.InventoryItem{
			{SKU: "SKU-02", OnHand: 100, SafetyStock: 50},
			{SKU: "SKU-03", OnHand: 50, SafetyStock: 200},
			{SKU: "SKU-19", OnHand: 300, SafetyStock: 600},
		},
	}
}

func mustCompute(t *testing.T, snap dataset.Snapshot, st scenario.State) Result {
	t.Helper()
	res, err := Compute(snap, st, Config{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return res
}

func TestComputeBaseline(t *testing.T) {
	res := mustCompute(t, testSnapshot(), scenario.DefaultState())

	if res.ThroughputPerDay != 250 {
		t.Errorf("throughput = %v, want 250", res.ThroughputPerDay)
	}
	if res.OnTimePct != 80 {
		t.Errorf("on_time_pct = %v, want 80", res.OnTimePct)
	}
	if res.DefectRatePct != 4 {
		t.Errorf("defect_rate_pct = %v, want 4", res.DefectRatePct)
	}
	if res.DowntimeHours != 2 {
		t.Errorf("downtime_hours = %v, want 2", res.DowntimeHours)
	}
	if res.InventoryRiskCount != 2 {
		t.Errorf("inventory_risk_count = %d, want 2", res.InventoryRiskCount)
	}
	if res.ThroughputTrend != TrendUp {
		t.Errorf("trend = %s, want up", res.ThroughputTrend)
	}
	if res.TopDowntimeCause != "Changeover" {
		t.Errorf("top_downtime_cause = %s, want Changeover", res.TopDowntimeCause)
	}
	if res.TopDefectFamily != "Cosmetic" {
		t.Errorf("top_defect_family = %s, want Cosmetic", res.TopDefectFamily)
	}
	if res.LowestStockSKU != "SKU-03" {
		t.Errorf("lowest_stock_sku = %s, want SKU-03", res.LowestStockSKU)
	}
	if res.OTDRiskPct != 9.5 {
		t.Errorf("otd_risk_pct = %v, want 9.5", res.OTDRiskPct)
	}
	if !strings.Contains(res.Notes, "ETA remaining delay ~ 3 days") {
		t.Errorf("notes missing ETA estimate: %q", res.Notes)
	}
}

func TestComputeIsPure(t *testing.T) {
	snap := testSnapshot()
	st := scenario.State{ETAOffsetDays: 2, ExtraQty: 500, Resequence: true}

	first := mustCompute(t, snap, st)
	second := mustCompute(t, snap, st)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compute is not deterministic: %+v vs %+v", first, second)
	}
}

func TestThroughputMultipliers(t *testing.T) {
	st := scenario.State{Resequence: true, BatchChangeovers: true, QAFastTrack: true}
	res := mustCompute(t, testSnapshot(), st)

	want := 250.0 * 1.03 * 1.02 * 1.01
	if math.Abs(res.ThroughputPerDay-want) > 1e-9 {
		t.Errorf("throughput = %v, want %v", res.ThroughputPerDay, want)
	}
}

func TestDowntimeBatchChangeovers(t *testing.T) {
	res := mustCompute(t, testSnapshot(), scenario.State{BatchChangeovers: true})
	if res.DowntimeHours != 1.5 {
		t.Errorf("downtime_hours = %v, want 1.5", res.DowntimeHours)
	}
}

func TestDowntimeFlooredAtZero(t *testing.T) {
	snap := testSnapshot()
	snap.Downtime = []dataset.Downtime{
		{Start: day(0), DurationMin: 12, Cause: "Changeover"}, // 0.2h raw
	}
	res := mustCompute(t, snap, scenario.State{BatchChangeovers: true})
	if res.DowntimeHours != 0 {
		t.Errorf("downtime_hours = %v, want 0", res.DowntimeHours)
	}
}

func TestInventoryAdjustmentForRiskSKU(t *testing.T) {
	res := mustCompute(t, testSnapshot(), scenario.State{ExtraQty: 500})
	// SKU-19 moves from 300 to 800, above its 600 safety stock.
	if res.InventoryRiskCount != 1 {
		t.Errorf("inventory_risk_count = %d, want 1", res.InventoryRiskCount)
	}
}

func TestInventoryAdjustmentSkippedWhenSKUAbsent(t *testing.T) {
	res, err := Compute(testSnapshot(), scenario.State{ExtraQty: 500}, Config{RiskSKU: "SKU-99"})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if res.InventoryRiskCount != 2 {
		t.Errorf("inventory_risk_count = %d, want 2", res.InventoryRiskCount)
	}
}

func TestEmptyQualityTable(t *testing.T) {
	snap := testSnapshot()
	snap.Inspections = nil

	res := mustCompute(t, snap, scenario.DefaultState())
	if res.DefectRatePct != 0.0 {
		t.Errorf("defect_rate_pct = %v, want exactly 0.0", res.DefectRatePct)
	}
	if res.TopDefectFamily != "" {
		t.Errorf("top_defect_family = %q, want empty", res.TopDefectFamily)
	}
}

func TestZeroUnitsInspected(t *testing.T) {
	snap := testSnapshot()
	snap.Inspections = []dataset.Inspection{{UnitsInspected: 0, DefectsFound: 0, DefectFamily: "Cosmetic"}}

	res := mustCompute(t, snap, scenario.DefaultState())
	if res.DefectRatePct != 0.0 {
		t.Errorf("defect_rate_pct = %v, want 0.0", res.DefectRatePct)
	}
}

func TestMissingDatasets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dataset.Snapshot)
	}{
		{"orders", func(s *dataset.Snapshot) { s.Orders = nil }},
		{"downtime", func(s *dataset.Snapshot) { s.Downtime = nil }},
		{"inventory", func(s *dataset.Snapshot) { s.Inventory = nil }},
	}

	for _, tt := range tests {
		snap := testSnapshot()
		tt.mutate(&snap)
		_, err := Compute(snap, scenario.DefaultState(), Config{})
		if !errors.Is(err, ErrMissingDataset) {
			t.Errorf("%s: expected ErrMissingDataset, got %v", tt.name, err)
		}
	}
}

func TestThroughputTrend(t *testing.T) {
	makeOrders := func(qtys map[int]int) []dataset.Order {
		var orders []dataset.Order
		for offset, qty := range qtys {
			orders = append(orders, dataset.Order{
				OrderDate: day(offset), QtyProduced: qty,
				PromisedShipDate: day(offset + 3), ActualShipDate: day(offset + 3),
			})
		}
		return orders
	}

	tests := []struct {
		name string
		qtys map[int]int
		want Trend
	}{
		{"up", map[int]int{-5: 100, -1: 300, 0: 300}, TrendUp},
		{"down", map[int]int{-5: 300, -1: 100, 0: 100}, TrendDown},
		{"flat equal means", map[int]int{-5: 200, 0: 200}, TrendFlat},
		{"flat when no earlier rows", map[int]int{-1: 100, 0: 400}, TrendFlat},
	}

	for _, tt := range tests {
		snap := testSnapshot()
		snap.Orders = makeOrders(tt.qtys)
		res := mustCompute(t, snap, scenario.DefaultState())
		if res.ThroughputTrend != tt.want {
			t.Errorf("%s: trend = %s, want %s", tt.name, res.ThroughputTrend, tt.want)
		}
	}
}

func TestTopAggregateTieBreaks(t *testing.T) {
	snap := testSnapshot()
	snap.Downtime = []dataset.Downtime{
		{Start: day(0), DurationMin: 60, Cause: "Quality hold"},
		{Start: day(0), DurationMin: 60, Cause: "Changeover"},
	}
	snap.Inspections = []dataset.Inspection{
		{UnitsInspected: 100, DefectsFound: 5, DefectFamily: "Packaging"},
		{UnitsInspected: 100, DefectsFound: 5, DefectFamily: "Electrical"},
	}
	snap.Inventory = []dataset.InventoryItem{
		{SKU: "SKU-09", OnHand: 50, SafetyStock: 100},
		{SKU: "SKU-05", OnHand: 50, SafetyStock: 100},
	}

	res := mustCompute(t, snap, scenario.DefaultState())
	if res.TopDowntimeCause != "Changeover" {
		t.Errorf("tie-break cause = %s, want Changeover", res.TopDowntimeCause)
	}
	if res.TopDefectFamily != "Electrical" {
		t.Errorf("tie-break family = %s, want Electrical", res.TopDefectFamily)
	}
	if res.LowestStockSKU != "SKU-05" {
		t.Errorf("tie-break lowest stock = %s, want SKU-05", res.LowestStockSKU)
	}
}

func TestOTDRisk(t *testing.T) {
	tests := []struct {
		eta, carrier int
		want         float64
	}{
		{0, 0, 9.5},
		{2, 1, 4.3}, // expedited PO then carrier upgrade
		{1, 0, 7.5},
		{0, 2, 7.1},
		{10, 10, 1.0}, // lower clamp
		{100, 0, 1.0},
	}

	for _, tt := range tests {
		st := scenario.State{ETAOffsetDays: tt.eta, CarrierUpgradeDays: tt.carrier}
		if got := OTDRisk(st); got != tt.want {
			t.Errorf("OTDRisk(eta=%d, carrier=%d) = %v, want %v", tt.eta, tt.carrier, got, tt.want)
		}
	}
}

func TestOTDRiskAlwaysClamped(t *testing.T) {
	for eta := 0; eta <= 20; eta++ {
		for carrier := 0; carrier <= 20; carrier++ {
			got := OTDRisk(scenario.State{ETAOffsetDays: eta, CarrierUpgradeDays: carrier})
			if got < 1.0 || got > 15.0 {
				t.Fatalf("OTDRisk(%d, %d) = %v outside [1, 15]", eta, carrier, got)
			}
		}
	}
}

func TestETARemainingDays(t *testing.T) {
	tests := []struct {
		eta, carrier int
		want         int
	}{
		{0, 0, 3},
		{2, 0, 1},
		{2, 1, 0},
		{5, 5, 0}, // never negative
	}
	for _, tt := range tests {
		st := scenario.State{ETAOffsetDays: tt.eta, CarrierUpgradeDays: tt.carrier}
		if got := ETARemainingDays(st); got != tt.want {
			t.Errorf("ETARemainingDays(%d, %d) = %d, want %d", tt.eta, tt.carrier, got, tt.want)
		}
	}
}
