package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rentcomp/internal/config"
	"github.com/sells-group/rentcomp/internal/export"
	"github.com/sells-group/rentcomp/internal/ingest"
	"github.com/sells-group/rentcomp/internal/pipeline"
	"github.com/sells-group/rentcomp/internal/table"
)

var (
	calcSubject                string
	calcReferences             []string
	calcOutput                 string
	calcFormat                 string
	calcScenarios              string
	calcDownpay                float64
	calcInterestRate           float64
	calcMortgagePeriod         float64
	calcAppreciationRate       float64
	calcAdjustedSQFT           float64
	calcDepreciationMultiplier float64
	calcNullPolicy             string
	calcRecordSeparator        string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute rental comparables and returns for subject listings",
	Long: `Reads a subject listing file and one or more rental reference files, matches
comparables for every subject and writes the subject columns followed by the
derived columns.

Examples:
  # CSV to stdout with the configured defaults
  rentcomp calc --subject sales.csv --reference rentals.csv

  # Two reference files, higher rate, XLSX output
  rentcomp calc --subject sales.csv --reference rentals-2023.csv --reference rentals-2024.csv \
    --interest-rate 6.5 --output results.xlsx

  # One output file per scenario: results-high-rate.csv, results-cash.csv
  rentcomp calc --subject sales.csv --reference rentals.csv --scenarios scenarios.yaml --output results.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyCalcFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return eris.Wrap(err, "calc: validate config")
		}

		typ, err := outputType(cmd, cfg)
		if err != nil {
			return err
		}

		return runCalc(cmd.Context(), cfg, calcRequest{
			Subject:    calcSubject,
			References: calcReferences,
			Output:     calcOutput,
			Type:       typ,
			Scenarios:  calcScenarios,
		}, cmd.OutOrStdout())
	},
}

func init() {
	f := calcCmd.Flags()
	f.StringVar(&calcSubject, "subject", "", "path to the subject (for sale) listing file (required)")
	f.StringArrayVar(&calcReferences, "reference", nil, "path to a rental reference listing file (repeatable, required)")
	f.StringVar(&calcOutput, "output", "", "write results to file (default: stdout)")
	f.StringVar(&calcFormat, "format", "", "output format: csv, json or xlsx (default: from --output extension, then config)")
	f.StringVar(&calcScenarios, "scenarios", "", "YAML file of named setting overrides; runs once per scenario")
	f.Float64Var(&calcDownpay, "downpay", 0, "down payment percent")
	f.Float64Var(&calcInterestRate, "interest-rate", 0, "annual interest rate percent")
	f.Float64Var(&calcMortgagePeriod, "mortgage-period", 0, "mortgage period in years")
	f.Float64Var(&calcAppreciationRate, "appreciation-rate", 0, "annual appreciation rate as a fraction")
	f.Float64Var(&calcAdjustedSQFT, "adjusted-sqft", 0, "square footage tolerance for comparables")
	f.Float64Var(&calcDepreciationMultiplier, "depreciation-multiplier", 0, "share of the price that depreciates")
	f.StringVar(&calcNullPolicy, "null-policy", "", "missing value handling: propagate or zero")
	f.StringVar(&calcRecordSeparator, "record-separator", "", "record separator: cr, lf, crlf or auto")
	_ = calcCmd.MarkFlagRequired("subject")
	_ = calcCmd.MarkFlagRequired("reference")
	rootCmd.AddCommand(calcCmd)
}

// applyCalcFlags copies explicitly set flags over the loaded config.
func applyCalcFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("downpay") {
		c.Calc.DownpayPercent = calcDownpay
	}
	if f.Changed("interest-rate") {
		c.Calc.InterestRate = calcInterestRate
	}
	if f.Changed("mortgage-period") {
		c.Calc.MortgagePeriod = calcMortgagePeriod
	}
	if f.Changed("appreciation-rate") {
		c.Calc.AppreciationRate = calcAppreciationRate
	}
	if f.Changed("adjusted-sqft") {
		c.Calc.AdjustedSQFT = calcAdjustedSQFT
	}
	if f.Changed("depreciation-multiplier") {
		c.Calc.DepreciationMultiplier = calcDepreciationMultiplier
	}
	if f.Changed("null-policy") {
		c.Calc.NullPolicy = calcNullPolicy
	}
	if f.Changed("record-separator") {
		c.Parse.RecordSeparator = calcRecordSeparator
	}
	if f.Changed("format") {
		c.Export.Format = calcFormat
	}
}

// outputType picks the encoding: --format, then the --output extension, then config.
func outputType(cmd *cobra.Command, c *config.Config) (export.Type, error) {
	if !cmd.Flags().Changed("format") && calcOutput != "" {
		return export.TypeFromPath(calcOutput), nil
	}
	typ, err := export.ParseType(c.Export.Format)
	if err != nil {
		return "", eris.Wrap(err, "calc: output format")
	}
	return typ, nil
}

type calcRequest struct {
	Subject    string
	References []string
	Output     string
	Type       export.Type
	Scenarios  string
}

// runCalc loads the input files once and runs the pipeline for the base
// settings or for every scenario.
func runCalc(ctx context.Context, c *config.Config, req calcRequest, stdout io.Writer) error {
	log := zap.L().With(zap.String("run_id", uuid.New().String()))

	opts, err := c.IngestOptions()
	if err != nil {
		return err
	}

	subjects, err := ingest.LoadFile(req.Subject, opts)
	switch {
	case eris.Is(err, table.ErrEmptyInput):
		log.Warn("calc: subject file is empty", zap.String("path", req.Subject))
		subjects = &table.Table{}
	case err != nil:
		return eris.Wrap(err, "calc: load subject")
	}

	refs, err := ingest.LoadReferences(ctx, req.References, opts)
	if err != nil {
		return eris.Wrap(err, "calc: load references")
	}

	log.Info("calc: inputs loaded",
		zap.Int("subjects", subjects.Len()),
		zap.Int("references", refs.Len()),
		zap.Int("reference_files", len(req.References)),
	)

	p, err := pipeline.New(c.Policy())
	if err != nil {
		return eris.Wrap(err, "calc: build pipeline")
	}

	base := c.Configuration()
	if req.Scenarios == "" {
		return runScenario(p, subjects, refs, base, req.Type, req.Output, stdout, log)
	}

	if req.Output == "" {
		return eris.New("calc: --output is required with --scenarios")
	}
	scenarios, err := config.LoadScenarios(req.Scenarios)
	if err != nil {
		return eris.Wrap(err, "calc: load scenarios")
	}
	for _, s := range scenarios {
		scenarioLog := log.With(zap.String("scenario", s.Name))
		out := config.ScenarioOutputPath(req.Output, s.Name)
		if err := runScenario(p, subjects, refs, s.Apply(base), req.Type, out, stdout, scenarioLog); err != nil {
			return eris.Wrapf(err, "calc: scenario %s", s.Name)
		}
	}
	return nil
}

func runScenario(p *pipeline.Pipeline, subjects, refs *table.Table, conf pipeline.Configuration, typ export.Type, output string, stdout io.Writer, log *zap.Logger) error {
	log.Info("calc: running pipeline",
		zap.Float64("downpay_percent", conf.DownpayPercent),
		zap.Float64("interest_rate", conf.InterestRate),
		zap.Float64("mortgage_period", conf.MortgagePeriod),
		zap.Float64("ratio_per_thousand", conf.RatioPerThousand()),
	)

	result, err := p.Run(subjects, refs, conf)
	if err != nil {
		return eris.Wrap(err, "calc: run pipeline")
	}

	s := pipeline.Summarize(result)
	log.Info("calc: pipeline complete",
		zap.Int("rows", s.Rows),
		zap.Int("matched", s.Matched),
		zap.Int("no_match", s.NoMatch),
		zap.Int("missing_income", s.MissingIncome),
		zap.Int("non_finite", s.NonFinite),
		zap.Float64("mean_year_one_return", s.MeanYearOneReturn),
	)

	cols := export.Columns(result, p.Columns())
	if output == "" {
		return export.Write(stdout, typ, result, cols)
	}
	if err := export.WriteFile(output, typ, result, cols); err != nil {
		return err
	}
	log.Info("calc: results written", zap.String("path", output), zap.String("format", string(typ)))
	return nil
}
