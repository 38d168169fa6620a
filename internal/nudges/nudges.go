// Package nudges derives proactive persona suggestions from the
// operational tables. It produces structured data only; rendering is the
// caller's concern.
package nudges

import (
	"fmt"
	"time"

	"mfg-assist/internal/activity"
	"mfg-assist/internal/dataset"
)

// Personas with dedicated nudge feeds.
const (
	PersonaSales       = "sales"
	PersonaSupplyChain = "supply-chain"
	PersonaPlant       = "plant"
)

// Nudge is one actionable suggestion for a persona.
type Nudge struct {
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Action map[string]string `json:"action,omitempty"`
}

// plantDowntimeThresholdMin is the per-line downtime above which batching
// changeovers is suggested.
const plantDowntimeThresholdMin = 60.0

// staleQuoteAge is how old an unanswered quote may get before a
// follow-up nudge fires.
const staleQuoteAge = 3 * 24 * time.Hour

// SupplyChain flags SKUs below safety stock and always carries the
// late-ASN carrier suggestion.
func SupplyChain(inventory []dataset.InventoryItem) []Nudge {
	var out []Nudge
	for _, item := range inventory {
		if item.OnHand < item.SafetyStock {
			out = append(out, Nudge{
				Title: fmt.Sprintf("%s below safety stock", item.SKU),
				Body:  fmt.Sprintf("Replenish %s. Recommend expedite PO and evaluate alternate supplier.", item.SKU),
				Action: map[string]string{
					"type": "sc_expedite_po",
					"sku":  item.SKU,
				},
			})
			break // one replenishment nudge at a time
		}
	}
	out = append(out, Nudge{
		Title: "Late ASNs detected",
		Body:  "Two inbound shipments are late >24h. Suggest upgrading the next leg to air.",
		Action: map[string]string{
			"type": "sc_upgrade_carrier",
		},
	})
	return out
}

// Plant suggests changeover batching when one line's downtime dominates,
// and QA fast-track for the dominant defect family.
func Plant(downtime []dataset.Downtime, inspections []dataset.Inspection) []Nudge {
	var out []Nudge

	lineMinutes := make(map[string]float64)
	for _, d := range downtime {
		lineMinutes[d.Line] += d.DurationMin
	}
	worstLine, worstMinutes := "", 0.0
	for line, minutes := range lineMinutes {
		if line == "" {
			continue
		}
		if minutes > worstMinutes || (minutes == worstMinutes && line < worstLine) {
			worstLine, worstMinutes = line, minutes
		}
	}
	if worstMinutes > plantDowntimeThresholdMin {
		out = append(out, Nudge{
			Title: "Changeovers driving downtime",
			Body:  fmt.Sprintf("Line %s downtime %.0fm. Recommend batching changeovers and re-sequencing.", worstLine, worstMinutes),
			Action: map[string]string{
				"type": "plant_batch_changeovers",
				"line": worstLine,
			},
		})
	}

	familyCounts := make(map[string]int)
	for _, q := range inspections {
		familyCounts[q.DefectFamily]++
	}
	topFamily, topCount := "", 0
	for family, count := range familyCounts {
		if count > topCount || (count == topCount && family < topFamily) {
			topFamily, topCount = family, count
		}
	}
	if topFamily != "" {
		out = append(out, Nudge{
			Title: "SPC breach risk",
			Body:  fmt.Sprintf("Defects concentrated in %s. Fast-track QA for affected SKUs.", topFamily),
			Action: map[string]string{
				"type": "plant_qa_fast_track",
			},
		})
	}
	return out
}

// Sales surfaces stale quotes from the activity log, plus the standing
// cross-sell and margin-guard suggestions.
func Sales(log *activity.Log, now time.Time) ([]Nudge, error) {
	stale, err := log.StaleQuotes(now, staleQuoteAge)
	if err != nil {
		return nil, err
	}

	var out []Nudge
	if len(stale) > 0 {
		out = append(out, Nudge{
			Title: fmt.Sprintf("%d stale quote(s)", len(stale)),
			Body:  "Send a friendly follow-up and set a 3-day reminder.",
			Action: map[string]string{
				"type":     "follow_up",
				"quote_id": stale[0].QuoteID,
			},
		})
	}
	out = append(out, Nudge{
		Title: "Cross-sell opportunity",
		Body:  "Customers who buy ASSY-100 often add KIT-19. Offer a 5% bundle discount.",
		Action: map[string]string{
			"type":     "propose_xsell",
			"assembly": "ASSY-100",
		},
	})
	out = append(out, Nudge{
		Title: "Margin guard",
		Body:  "Recent quotes for ASSY-100 fell below 20% margin. Propose price = cost x 1.22.",
		Action: map[string]string{
			"type":     "open_quote_wizard",
			"assembly": "ASSY-100",
		},
	})
	return out, nil
}
