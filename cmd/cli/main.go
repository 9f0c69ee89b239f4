package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"simrng/adapters/excel"
	"simrng/app"
	"simrng/domain/core"
	"simrng/domain/dist"
	"simrng/internal/config"
	"simrng/internal/container"
	"simrng/internal/logging"
	"simrng/internal/report"
	"simrng/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "simrng-cli",
		Short:         "Generate random samples and test their goodness of fit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newGenerateCmd(),
		newEvaluateCmd(),
		newExportCmd(),
	)
	return rootCmd
}

// newServices builds the same services the HTTP server uses, without a ledger.
func newServices() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg, logging.Nop())
}

func newGenerateCmd() *cobra.Command {
	var (
		req  app.GenerateRequest
		kind string
		alg  string
		show int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate samples and print a summary",
		Long: `Generate samples from one of the supported distributions.

Example: simrng-cli generate --kind exponential --lambda 0.5 --count 10000 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dist.ParseKind(kind)
			if err != nil {
				return err
			}
			req.Distribution.Kind = k
			req.Distribution.Algorithm = dist.Algorithm(strings.ToLower(alg))

			c, err := newServices()
			if err != nil {
				return err
			}
			gen, err := c.Generation.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			summary, err := c.Statistics.Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  n=%d  hash=%s\n", gen.Distribution.String(), gen.Count(), gen.Hash.Short())
			fmt.Fprintf(out, "min=%.6f max=%.6f mean=%.6f sd=%.6f median=%.6f\n",
				summary.Min, summary.Max, summary.Mean, summary.StdDev, summary.Median)
			for _, v := range gen.Page(1, show) {
				fmt.Fprintf(out, "%.6f\n", v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "uniform", "Distribution: uniform, normal, exponential, poisson")
	cmd.Flags().Uint64Var(&req.Seed, "seed", 42, "Seed of the random source")
	cmd.Flags().IntVar(&req.Count, "count", 1000, "Number of samples")
	cmd.Flags().StringVar(&req.Source, "source", "lcg", "Random source: lcg or system")
	cmd.Flags().Float64Var(&req.Distribution.Lower, "lower", 0, "Uniform lower bound")
	cmd.Flags().Float64Var(&req.Distribution.Upper, "upper", 1, "Uniform upper bound")
	cmd.Flags().Float64Var(&req.Distribution.Mean, "mean", 0, "Normal mean")
	cmd.Flags().Float64Var(&req.Distribution.SD, "sd", 1, "Normal standard deviation")
	cmd.Flags().StringVar(&alg, "algorithm", string(dist.AlgorithmBoxMuller), "Normal algorithm: box-muller or convolution")
	cmd.Flags().Float64Var(&req.Distribution.Lambda, "lambda", 1, "Exponential or Poisson rate")
	cmd.Flags().IntVar(&show, "print", 10, "Number of samples to print")

	return cmd
}

func newEvaluateCmd() *cobra.Command {
	var scenarioPath, samplesPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run a scenario and print the chi-squared test",
		Long: `Run the generation described by a YAML scenario, or test samples read
from an xlsx workbook against the scenario's distribution, and print the result.

Example: simrng-cli evaluate --scenario normal.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := loadScenario(scenarioPath)
			if err != nil {
				return err
			}
			c, err := newServices()
			if err != nil {
				return err
			}
			if samplesPath != "" {
				err = installWorkbook(c, samplesPath, scenario)
			} else {
				_, err = c.Generation.Generate(cmd.Context(), scenario.Request())
			}
			if err != nil {
				return err
			}
			eval, err := c.Statistics.Statistics(cmd.Context(), scenario.Intervals, scenario.Alpha)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(report.Markdown(eval.Generation, eval.Test))
			return err
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario")
	cmd.Flags().StringVar(&samplesPath, "samples", "", "Optional xlsx workbook whose value column is tested instead of generating")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

func newExportCmd() *cobra.Command {
	var scenarioPath, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run a scenario and write the samples and test to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := loadScenario(scenarioPath)
			if err != nil {
				return err
			}
			c, err := newServices()
			if err != nil {
				return err
			}
			if _, err := c.Generation.Generate(cmd.Context(), scenario.Request()); err != nil {
				return err
			}
			eval, err := c.Statistics.Statistics(cmd.Context(), scenario.Intervals, scenario.Alpha)
			if err != nil {
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := excel.WriteWorkbook(f, eval.Generation, eval.Histogram, eval.Test); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (reject=%t)\n", outPath, eval.Test.Reject)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario")
	cmd.Flags().StringVar(&outPath, "out", "simrng.xlsx", "Output workbook")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

// installWorkbook replaces the retained generation with samples read from path.
func installWorkbook(c *container.Container, path string, scenario Scenario) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return installSamples(c.Store, f, scenario)
}

func installSamples(store *session.Store, r io.Reader, scenario Scenario) error {
	samples, err := excel.ReadSamples(r, "")
	if err != nil {
		return err
	}
	store.Replace(newImportedGeneration(samples, scenario.Distribution))
	return nil
}

func newImportedGeneration(samples []float64, d dist.Descriptor) *session.Generation {
	return &session.Generation{
		ID:           core.NewID(),
		Source:       "xlsx",
		Distribution: d,
		Samples:      samples,
		Hash:         core.SampleHash(samples),
		CreatedAt:    time.Now().UTC(),
	}
}
