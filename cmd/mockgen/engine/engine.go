package engine

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"mfg-assist/internal/dataset"
)

// GeneratorConfig controls the demo dataset shape.
type GeneratorConfig struct {
	Days int // span of order history to generate
	Seed int64
	Now  time.Time
}

// Tables is the full set of generated demo tables.
type Tables struct {
	Orders      []dataset.Order
	Inspections []dataset.Inspection
	Downtime    []dataset.Downtime
	Inventory   []dataset.InventoryItem
	BOM         []dataset.BOMLine
	Products    []dataset.Product
}

var (
	lines          = []string{"L1", "L2", "L3"}
	downtimeCauses = []string{"Changeover", "Material shortage", "Mechanical failure", "Operator break", "Quality hold"}
	defectFamilies = []string{"Cosmetic", "Dimensional", "Electrical", "Packaging"}
	customers      = []string{"ACME Mfg", "Borealis Tools", "Cascade Industrial", "Delta Fab"}
)

// Generate builds a deterministic demo dataset around cfg.Now. The
// inventory always contains the SKU-19 risk row below safety stock so
// the alternate-supplier scenario has something to fix.
func Generate(cfg GeneratorConfig) Tables {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Days <= 0 {
		cfg.Days = 14
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var t Tables
	today := time.Date(cfg.Now.Year(), cfg.Now.Month(), cfg.Now.Day(), 0, 0, 0, 0, time.UTC)

	// Orders: a few per day over the span, slightly ramping volume so the
	// throughput trend has a direction.
	seq := 1
	for d := cfg.Days - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		perDay := 2 + rng.Intn(3)
		for i := 0; i < perDay; i++ {
			qty := 80 + rng.Intn(60) + (cfg.Days-d)*2
			promised := day.AddDate(0, 0, 3+rng.Intn(4))
			actual := promised
			if rng.Float64() < 0.22 {
				actual = promised.AddDate(0, 0, 1+rng.Intn(3)) // late shipment
			}
			t.Orders = append(t.Orders, dataset.Order{
				OrderID:          fmt.Sprintf("SO-%04d", seq),
				Customer:         customers[rng.Intn(len(customers))],
				SKU:              fmt.Sprintf("SKU-%02d", 1+rng.Intn(24)),
				Status:           "Confirmed",
				CreatedAt:        day,
				OrderDate:        day,
				QtyProduced:      qty,
				PromisedShipDate: promised,
				ActualShipDate:   actual,
			})
			seq++
		}
	}

	// Quality inspections.
	for i := 0; i < cfg.Days*2; i++ {
		units := 150 + rng.Intn(200)
		t.Inspections = append(t.Inspections, dataset.Inspection{
			Line:           lines[rng.Intn(len(lines))],
			UnitsInspected: units,
			DefectsFound:   rng.Intn(units / 30),
			DefectFamily:   defectFamilies[rng.Intn(len(defectFamilies))],
		})
	}

	// Downtime log: changeovers dominate on L2.
	for d := cfg.Days - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		entries := 1 + rng.Intn(3)
		for i := 0; i < entries; i++ {
			cause := downtimeCauses[rng.Intn(len(downtimeCauses))]
			line := lines[rng.Intn(len(lines))]
			minutes := float64(10 + rng.Intn(50))
			if cause == "Changeover" {
				line = "L2"
				minutes += 25
			}
			t.Downtime = append(t.Downtime, dataset.Downtime{
				Line:        line,
				Start:       day.Add(time.Duration(6+rng.Intn(12)) * time.Hour),
				DurationMin: minutes,
				Cause:       cause,
			})
		}
	}

	// Inventory: 24 SKUs, a handful below safety stock, SKU-19 always
	// short so the demo risk narrative holds.
	for i := 1; i <= 24; i++ {
		sku := fmt.Sprintf("SKU-%02d", i)
		safety := 400 + rng.Intn(600)
		onHand := safety + rng.Intn(800)
		if sku == "SKU-19" || rng.Float64() < 0.12 {
			onHand = safety - (50 + rng.Intn(200))
		}
		t.Inventory = append(t.Inventory, dataset.InventoryItem{
			SKU:         sku,
			OnHand:      onHand,
			SafetyStock: safety,
		})
	}

	// BOM and catalog for the sales flow.
	t.BOM = []dataset.BOMLine{
		{Assembly: "ASSY-100", Part: "SKU-19", Desc: "Heat exchanger core", QtyPer: 1, UnitCost: 118.40, StdCost: 14.00, LeadTimeDays: 7},
		{Assembly: "ASSY-100", Part: "SKU-04", Desc: "Mounting frame", QtyPer: 2, UnitCost: 23.75, StdCost: 4.50, LeadTimeDays: 4},
		{Assembly: "ASSY-100", Part: "SKU-11", Desc: "Gasket kit", QtyPer: 4, UnitCost: 3.10, StdCost: 0.80, LeadTimeDays: 2},
		{Assembly: "KIT-19", Part: "SKU-19", Desc: "Heat exchanger core", QtyPer: 1, UnitCost: 118.40, StdCost: 9.00, LeadTimeDays: 7},
		{Assembly: "KIT-19", Part: "SKU-07", Desc: "Fastener pack", QtyPer: 6, UnitCost: 1.45, StdCost: 0.30, LeadTimeDays: 1},
	}
	t.Products = []dataset.Product{
		{SKU: "ASSY-100", Desc: "HX-220 assembly", Family: "Heat exchange", RecentDemand: 180},
		{SKU: "KIT-19", Desc: "HX service kit", Family: "Heat exchange", RecentDemand: 140},
		{SKU: "ASSY-210", Desc: "Compressor skid", Family: "Compression", RecentDemand: 60},
		{SKU: "KIT-34", Desc: "Seal refresh kit", Family: "Heat exchange", RecentDemand: 95},
	}

	return t
}

// Save writes all tables as JSONL into outDir, one file per table.
func Save(outDir string, t Tables) error {
	if err := dataset.WriteRows(filepath.Join(outDir, dataset.OrdersFile), t.Orders); err != nil {
		return err
	}
	if err := dataset.WriteRows(filepath.Join(outDir, dataset.InspectionsFile), t.Inspections); err != nil {
		return err
	}
	if err := dataset.WriteRows(filepath.Join(outDir, dataset.DowntimeFile), t.Downtime); err != nil {
		return err
	}
	if err := dataset.WriteRows(filepath.Join(outDir, dataset.InventoryFile), t.Inventory); err != nil {
		return err
	}
	if err := dataset.WriteRows(filepath.Join(outDir, dataset.BOMFile), t.BOM); err != nil {
		return err
	}
	return dataset.WriteRows(filepath.Join(outDir, dataset.ProductsFile), t.Products)
}
