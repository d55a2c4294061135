package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/rentcomp/internal/finance"
	"github.com/sells-group/rentcomp/internal/pipeline"
)

var (
	ratioInterestRate   float64
	ratioMortgagePeriod float64
	ratioPrice          float64
)

var ratioCmd = &cobra.Command{
	Use:   "ratio",
	Short: "Print the monthly payment per $1,000 borrowed",
	Long: `Prints the monthly principal and interest payment per $1,000 financed at the
configured interest rate and mortgage period. With --price, also prints the
monthly payment for that price at the configured down payment.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf := cfg.Configuration()
		if cmd.Flags().Changed("interest-rate") {
			conf.InterestRate = ratioInterestRate
		}
		if cmd.Flags().Changed("mortgage-period") {
			conf.MortgagePeriod = ratioMortgagePeriod
		}
		if err := conf.Validate(); err != nil {
			return eris.Wrap(err, "ratio: validate config")
		}

		printRatio(cmd.OutOrStdout(), conf, ratioPrice)
		return nil
	},
}

func init() {
	ratioCmd.Flags().Float64Var(&ratioInterestRate, "interest-rate", 0, "annual interest rate percent (default: config)")
	ratioCmd.Flags().Float64Var(&ratioMortgagePeriod, "mortgage-period", 0, "mortgage period in years (default: config)")
	ratioCmd.Flags().Float64Var(&ratioPrice, "price", 0, "also print the monthly payment for this price")
	rootCmd.AddCommand(ratioCmd)
}

func printRatio(w io.Writer, conf pipeline.Configuration, price float64) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Interest rate:     %.3f%%\n", conf.InterestRate)
	p.Fprintf(w, "Mortgage period:   %.0f years\n", conf.MortgagePeriod)
	p.Fprintf(w, "Ratio per $1,000:  %.2f\n", conf.RatioPerThousand())
	if price > 0 {
		payment := finance.MonthlyPayment(conf.DownpayPercent, price, conf.InterestRate, conf.MortgagePeriod)
		p.Fprintf(w, "Monthly payment:   $%.2f (price $%.0f, %.0f%% down)\n", payment, price, conf.DownpayPercent)
	}
}
