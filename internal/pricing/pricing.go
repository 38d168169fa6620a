package pricing

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"mfg-assist/internal/dataset"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnknownAssembly means the requested assembly has no BOM lines.
var ErrUnknownAssembly = errors.New("unknown assembly")

// DefaultMarginPct is applied when the caller does not specify a margin.
const DefaultMarginPct = 22.0

// LineItem is one costed component of a quote.
type LineItem struct {
	Part     string          `json:"part"`
	Desc     string          `json:"desc,omitempty"`
	QtyPer   decimal.Decimal `json:"qty_per"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Extended decimal.Decimal `json:"extended"`
}

// Rollup is the full cost breakdown for an assembly at a given quantity.
type Rollup struct {
	Assembly     string          `json:"assembly"`
	Qty          int             `json:"qty"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	StdCost      decimal.Decimal `json:"std_cost"`
	BaseCost     decimal.Decimal `json:"base_cost"`
	MarginPct    float64         `json:"margin_pct"`
	Price        decimal.Decimal `json:"price"`
	LeadTimeDays int             `json:"lead_time_days"`
	LineItems    []LineItem      `json:"line_items"`
}

// Quote is a priced offer with a ship-date estimate.
type Quote struct {
	QuoteID  string    `json:"quote_id"`
	Prospect string    `json:"prospect"`
	Terms    string    `json:"terms"`
	ShipETA  time.Time `json:"ship_eta"`
	Rollup   Rollup    `json:"rollup"`
}

// PriceFromBOM rolls up material and standard cost for an assembly and
// applies the margin. Lead time is the longest component lead time.
func PriceFromBOM(ctx context.Context, sales dataset.SalesProvider, assembly string, qty int, marginPct float64) (Rollup, error) {
	bom, err := sales.BOM(ctx)
	if err != nil {
		return Rollup{}, errors.Wrap(err, "loading BOM")
	}

	qtyDec := decimal.NewFromInt(int64(qty))
	material := decimal.Zero
	std := decimal.Zero
	leadTime := 0
	var items []LineItem

	for _, line := range bom {
		if line.Assembly != assembly {
			continue
		}
		qtyPer := decimal.NewFromFloat(line.QtyPer)
		unitCost := decimal.NewFromFloat(line.UnitCost)
		extended := qtyPer.Mul(qtyDec).Mul(unitCost)

		material = material.Add(extended)
		std = std.Add(decimal.NewFromFloat(line.StdCost).Mul(qtyDec))
		if line.LeadTimeDays > leadTime {
			leadTime = line.LeadTimeDays
		}
		items = append(items, LineItem{
			Part:     line.Part,
			Desc:     line.Desc,
			QtyPer:   qtyPer,
			UnitCost: unitCost,
			Extended: extended,
		})
	}

	if len(items) == 0 {
		return Rollup{}, errors.Wrapf(ErrUnknownAssembly, "assembly %q", assembly)
	}

	base := material.Add(std)
	marginFactor := decimal.NewFromFloat(1 + marginPct/100.0)

	return Rollup{
		Assembly:     assembly,
		Qty:          qty,
		MaterialCost: material.Round(2),
		StdCost:      std.Round(2),
		BaseCost:     base.Round(2),
		MarginPct:    marginPct,
		Price:        base.Mul(marginFactor).Round(2),
		LeadTimeDays: leadTime,
		LineItems:    items,
	}, nil
}

// GenerateQuote prices the assembly and stamps a quote with an ID and a
// ship ETA derived from the BOM lead time. A non-positive marginPct falls
// back to DefaultMarginPct.
func GenerateQuote(ctx context.Context, sales dataset.SalesProvider, assembly string, qty int, prospect, terms string, marginPct float64, now time.Time) (Quote, error) {
	if marginPct <= 0 {
		marginPct = DefaultMarginPct
	}
	rollup, err := PriceFromBOM(ctx, sales, assembly, qty, marginPct)
	if err != nil {
		return Quote{}, err
	}
	if prospect == "" {
		prospect = "ACME Mfg"
	}
	if terms == "" {
		terms = "Net 30"
	}

	return Quote{
		QuoteID:  fmt.Sprintf("Q-%s", uuid.NewString()[:8]),
		Prospect: prospect,
		Terms:    terms,
		ShipETA:  now.AddDate(0, 0, rollup.LeadTimeDays),
		Rollup:   rollup,
	}, nil
}

// StockRisk flags a quote whose requested ship date is imminent while
// inventory positions are already below safety stock.
func StockRisk(inventoryRiskCount int, shipDate, now time.Time) bool {
	daysOut := int(math.Floor(shipDate.Sub(now).Hours() / 24))
	return inventoryRiskCount > 0 && daysOut <= 3
}

// CrossSell suggests up to two same-family peers of an assembly, ordered
// by recent demand.
func CrossSell(ctx context.Context, sales dataset.SalesProvider, assembly string) ([]dataset.Product, error) {
	products, err := sales.Products(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading products")
	}

	family := ""
	for _, p := range products {
		if p.SKU == assembly {
			family = p.Family
			break
		}
	}
	if family == "" {
		return nil, nil
	}

	var peers []dataset.Product
	for _, p := range products {
		if p.Family == family && p.SKU != assembly {
			peers = append(peers, p)
		}
	}
	// Highest recent demand first; ties resolve by SKU.
	slices.SortFunc(peers, func(a, b dataset.Product) int {
		if a.RecentDemand != b.RecentDemand {
			return cmp.Compare(b.RecentDemand, a.RecentDemand)
		}
		return cmp.Compare(a.SKU, b.SKU)
	})
	if len(peers) > 2 {
		peers = peers[:2]
	}
	return peers, nil
}
