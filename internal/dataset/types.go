package dataset

import (
	"time"
)

// Order is one production order row from the ERP extract.
type Order struct {
	OrderID          string    `json:"order_id,omitempty"`
	Customer         string    `json:"customer,omitempty"`
	SKU              string    `json:"sku,omitempty"`
	Status           string    `json:"status,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	OrderDate        time.Time `json:"order_date"`
	QtyProduced      int       `json:"qty_produced"`
	PromisedShipDate time.Time `json:"promised_ship_date"`
	ActualShipDate   time.Time `json:"actual_ship_date"`
}

// Inspection is one incoming/in-process quality inspection record.
type Inspection struct {
	Line           string `json:"line,omitempty"`
	UnitsInspected int    `json:"units_inspected"`
	DefectsFound   int    `json:"defects_found"`
	DefectFamily   string `json:"defect_family"`
}

// Downtime is one line-stoppage entry from the downtime log.
type Downtime struct {
	Line        string    `json:"line,omitempty"`
	Start       time.Time `json:"start"`
	DurationMin float64   `json:"duration_min"`
	Cause       string    `json:"cause"`
}

// InventoryItem is the on-hand position for a single SKU.
type InventoryItem struct {
	SKU         string `json:"sku"`
	OnHand      int    `json:"on_hand"`
	SafetyStock int    `json:"safety_stock"`
}

// BOMLine is one component line of an assembly's bill of materials.
type BOMLine struct {
	Assembly     string  `json:"assembly"`
	Part         string  `json:"part"`
	Desc         string  `json:"desc,omitempty"`
	QtyPer       float64 `json:"qty_per"`
	UnitCost     float64 `json:"unit_cost"`
	StdCost      float64 `json:"std_cost"`
	LeadTimeDays int     `json:"lead_time_days"`
}

// Product is one catalog entry, used for cross-sell suggestions.
type Product struct {
	SKU          string `json:"sku"`
	Desc         string `json:"desc,omitempty"`
	Family       string `json:"family"`
	RecentDemand int    `json:"recent_demand"`
}

// Snapshot is the immutable set of operational tables one KPI computation
// runs against. Tables are read fresh per request; nothing mutates them.
type Snapshot struct {
	Orders      []Order
	Inspections []Inspection
	Downtime    []Downtime
	Inventory   []InventoryItem
}
