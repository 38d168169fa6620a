// Package erp holds mock adapters standing in for the real ERP systems a
// deployment would integrate with.
package erp

import (
	"strings"
)

// InventorySnapshot is the ERP's view of a single SKU position.
type InventorySnapshot struct {
	SKU          string `json:"sku"`
	OnHand       int    `json:"on_hand"`
	SafetyStock  int    `json:"safety_stock"`
	OpenPOs      int    `json:"open_pos"`
	LeadTimeDays int    `json:"lead_time_days"`
}

// PurchaseOrder is the confirmation returned by the ERP for a created PO.
type PurchaseOrder struct {
	Status   string `json:"status"`
	POID     string `json:"po_id"`
	SKU      string `json:"sku"`
	Qty      int    `json:"qty"`
	Supplier string `json:"supplier"`
	Expedite bool   `json:"expedite"`
}

// Adapter abstracts the ERP behind the two calls the assistant needs.
type Adapter interface {
	Inventory(sku string) (InventorySnapshot, error)
	CreatePO(sku string, qty int, supplier string, expedite bool) (PurchaseOrder, error)
}

// Dynamics is the mock Microsoft Dynamics adapter.
type Dynamics struct{}

func (Dynamics) Inventory(sku string) (InventorySnapshot, error) {
	return InventorySnapshot{SKU: sku, OnHand: 1200, SafetyStock: 800, OpenPOs: 2, LeadTimeDays: 7}, nil
}

func (Dynamics) CreatePO(sku string, qty int, supplier string, expedite bool) (PurchaseOrder, error) {
	return PurchaseOrder{Status: "CREATED", POID: "PO-DYN-001", SKU: sku, Qty: qty, Supplier: supplier, Expedite: expedite}, nil
}

// SAP is the mock SAP adapter.
type SAP struct{}

func (SAP) Inventory(sku string) (InventorySnapshot, error) {
	return InventorySnapshot{SKU: sku, OnHand: 1150, SafetyStock: 900, OpenPOs: 1, LeadTimeDays: 9}, nil
}

func (SAP) CreatePO(sku string, qty int, supplier string, expedite bool) (PurchaseOrder, error) {
	return PurchaseOrder{Status: "CREATED", POID: "PO-SAP-001", SKU: sku, Qty: qty, Supplier: supplier, Expedite: expedite}, nil
}

// New selects an adapter by configured kind. Anything not prefixed with
// "SAP" falls back to Dynamics.
func New(kind string) Adapter {
	if strings.HasPrefix(strings.ToUpper(kind), "SAP") {
		return SAP{}
	}
	return Dynamics{}
}
