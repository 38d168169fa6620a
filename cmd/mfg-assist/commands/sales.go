package commands

import (
	"time"

	"mfg-assist/internal/activity"
	"mfg-assist/internal/dataset"
	"mfg-assist/internal/kpi"
	"mfg-assist/internal/pricing"
	"mfg-assist/internal/scenario"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	quoteAssembly string
	quoteQty      int
	quoteProspect string
	quoteTerms    string

	remindDays int
	remindNote string

	emailTo      string
	emailSubject string
	emailQuoteID string
)

type quoteResponse struct {
	Quote     pricing.Quote     `json:"quote"`
	StockRisk bool              `json:"stock_risk"`
	CrossSell []dataset.Product `json:"cross_sell,omitempty"`
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an assembly from its BOM and log the quote",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := dataset.NewFileProvider(cfg.DataPath)
		now := time.Now()

		quote, err := pricing.GenerateQuote(cmd.Context(), provider, quoteAssembly, quoteQty, quoteProspect, quoteTerms, cfg.DefaultMarginPct, now)
		if err != nil {
			return err
		}

		// Flag imminent ship dates while inventory is already at risk.
		risk := false
		if state, err := scenario.NewStore(cfg.DataPath).Get(); err == nil {
			if snap, err := dataset.LoadSnapshot(cmd.Context(), provider); err == nil {
				if result, err := kpi.Compute(snap, state, kpi.Config{RiskSKU: cfg.RiskSKU}); err == nil {
					risk = pricing.StockRisk(result.InventoryRiskCount, quote.ShipETA, now)
				}
			}
		}
		if risk {
			log.Warn().Str("quoteId", quote.QuoteID).Msg("Potential stock risk flagged to Supply Chain")
		}

		crossSell, err := pricing.CrossSell(cmd.Context(), provider, quoteAssembly)
		if err != nil {
			return err
		}

		price, _ := quote.Rollup.Price.Float64()
		if err := activity.NewLog(cfg.DataPath).Append(activity.Record{
			Timestamp: now,
			Type:      activity.TypeQuote,
			QuoteID:   quote.QuoteID,
			SKU:       quoteAssembly,
			Qty:       quoteQty,
			ShipDate:  quote.ShipETA.Format("2006-01-02"),
			UnitPrice: price,
			Risk:      risk,
		}); err != nil {
			return err
		}

		return writeJSON(quoteResponse{Quote: quote, StockRisk: risk, CrossSell: crossSell})
	},
}

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Queue a follow-up email in the sales log",
	Long: `Appends an email record to the sales activity log. Referencing a
quote with --quote-id marks it as followed up, so it stops appearing in
the stale-quote nudges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec := activity.Record{
			Timestamp: time.Now(),
			Type:      activity.TypeEmail,
			To:        emailTo,
			Subject:   emailSubject,
			QuoteID:   emailQuoteID,
		}
		if err := activity.NewLog(cfg.DataPath).Append(rec); err != nil {
			return err
		}
		return writeJSON(rec)
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Set a follow-up reminder in the sales log",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		rec := activity.Record{
			Timestamp: now,
			Type:      activity.TypeReminder,
			Due:       now.AddDate(0, 0, remindDays),
			Note:      remindNote,
		}
		if err := activity.NewLog(cfg.DataPath).Append(rec); err != nil {
			return err
		}
		return writeJSON(rec)
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteAssembly, "assembly", "ASSY-100", "assembly SKU to price")
	quoteCmd.Flags().IntVar(&quoteQty, "qty", 25, "quantity to quote")
	quoteCmd.Flags().StringVar(&quoteProspect, "prospect", "", "prospect name")
	quoteCmd.Flags().StringVar(&quoteTerms, "terms", "", "payment terms")
	rootCmd.AddCommand(quoteCmd)

	emailCmd.Flags().StringVar(&emailTo, "to", "purchasing@acme.com", "recipient address")
	emailCmd.Flags().StringVar(&emailSubject, "subject", "Quote follow-up", "email subject")
	emailCmd.Flags().StringVar(&emailQuoteID, "quote-id", "", "quote to attach and mark followed up")
	rootCmd.AddCommand(emailCmd)

	remindCmd.Flags().IntVar(&remindDays, "days", 3, "days until the reminder is due")
	remindCmd.Flags().StringVar(&remindNote, "note", "Follow up", "reminder note")
	rootCmd.AddCommand(remindCmd)
}
