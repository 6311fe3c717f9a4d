/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/torsionfit/InputParameters"
	"github.com/notargets/torsionfit/readfiles"
	"github.com/notargets/torsionfit/torsion"
	"github.com/notargets/torsionfit/utils"
)

// FitCmd represents the fit command
var FitCmd = &cobra.Command{
	Use:   "fit <baseline_file> <reference_file> [angle_file] [output_file]",
	Short: "Search term subsets and phases for the best torsion fit",
	Long: `
Reads the baseline (force field) and reference energies, one value per line,
shifts both minima to zero and fits every non-empty subset of the term catalog.
Without an angle file the angles are spread evenly over [-180, 180).

The ranked table of all runs is written to the output file, the smallest
adequate model (or the best possible one) is printed.

Values from a YAML parameters file (--params) override flags and config.

torsionfit fit gaff.dat ref.dat angles.dat fitter_results.dat`,
	Args: cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			log *logrus.Logger
			ctx = cmd.Context()
		)
		cmd.SilenceUsage = true
		if ctx == nil {
			ctx = context.Background()
		}
		m := &FitModel{
			BaselineFile:  args[0],
			ReferenceFile: args[1],
			AngleFile:     viper.GetString("angles"),
			OutputFile:    viper.GetString("output"),
			CurveFile:     viper.GetString("curve"),
			ParamsFile:    viper.GetString("params"),
			ProfileMode:   viper.GetString("profile"),
			Perf:          viper.GetBool("perf"),
		}
		if len(args) > 2 {
			m.AngleFile = args[2]
		}
		if len(args) > 3 {
			m.OutputFile = args[3]
		}
		if log, err = NewLogger(cmd.ErrOrStderr(), viper.GetString("log-level")); err != nil {
			return
		}
		opts := torsion.DefaultOptions()
		opts.Workers = viper.GetInt("workers")
		opts.MaxIterations = viper.GetInt("max-iterations")
		opts.Tolerance = viper.GetFloat64("tolerance")
		opts.Policy.MaxRMSE = viper.GetFloat64("max-rmse")
		opts.Policy.MaxRatio = viper.GetFloat64("max-ratio")
		return RunFit(ctx, m, opts, log, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(FitCmd)
	def := torsion.DefaultOptions()
	FitCmd.Flags().StringP("angles", "a", "", "file with one angle (degrees) per energy, default is an even grid over [-180,180)")
	FitCmd.Flags().StringP("output", "o", "fitter_results.dat", "ranked results table")
	FitCmd.Flags().StringP("curve", "c", "", "write angle, reference, baseline and fitted energy of the chosen run to this file")
	FitCmd.Flags().StringP("params", "P", "", "YAML fit parameters file (terms, phase pool, thresholds, weights)")
	FitCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "runs fitted concurrently, 1 = sequential")
	FitCmd.Flags().Int("max-iterations", def.MaxIterations, "phase search iterations per run before giving up")
	FitCmd.Flags().Float64("tolerance", def.Tolerance, "convergence threshold on the change of RMSE+MAE")
	FitCmd.Flags().Float64("max-rmse", def.Policy.MaxRMSE, "RMSE below which a model is adequate")
	FitCmd.Flags().Float64("max-ratio", def.Policy.MaxRatio, "RMSE/MAE-1 below which a model is adequate")
	FitCmd.Flags().String("profile", "", "write a pprof profile of the search: cpu or mem")
	FitCmd.Flags().Bool("perf", false, "report CPU instructions retired by the search (linux, use with --workers 1)")
	for _, name := range []string{"angles", "output", "curve", "params", "workers", "max-iterations",
		"tolerance", "max-rmse", "max-ratio", "profile", "perf"} {
		_ = viper.BindPFlag(name, FitCmd.Flags().Lookup(name))
	}
}

type FitModel struct {
	BaselineFile, ReferenceFile string
	AngleFile                   string // optional
	OutputFile, CurveFile       string
	ParamsFile                  string
	ProfileMode                 string
	Perf                        bool
}

// RunFit validates all inputs, runs the search and writes the results. Input
// errors are returned before any fitting starts and before any file is written.
func RunFit(ctx context.Context, m *FitModel, opts torsion.Options, log *logrus.Logger, out io.Writer) (err error) {
	var (
		energy  *torsion.Profile
		weights []float64
		results []torsion.FitResult
		sel     torsion.Selection
	)
	if weights, err = processParams(m, &opts, log); err != nil {
		return
	}
	if err = opts.Validate(); err != nil {
		return
	}
	if energy, err = m.LoadProfile(log); err != nil {
		return
	}
	if weights != nil {
		if err = energy.SetWeights(weights); err != nil {
			return
		}
	}
	stopProfile, err := startProfile(m.ProfileMode)
	if err != nil {
		return
	}
	search := func() (err error) {
		results, err = torsion.NewSearcher(opts, log).Search(ctx, energy)
		return
	}
	start := time.Now()
	log.Debugf("BLAS backend: %s", utils.BLASBackend)
	if m.Perf {
		var pc utils.PerfCount
		if pc, err = utils.CountInstructions(search); err == nil {
			if pc.Err != nil {
				log.Warnf("instruction count unavailable: %v", pc.Err)
			} else {
				log.Infof("search retired %d instructions", pc.Instructions)
			}
		}
	} else {
		err = search()
	}
	stopProfile()
	if err != nil {
		return
	}
	log.Infof("search finished in %v", time.Since(start).Round(time.Millisecond))
	log.Debug(utils.GetMemUsage())

	if sel, err = torsion.Select(results, opts.Policy); err != nil {
		return
	}
	if err = writeFile(m.OutputFile, func(w io.Writer) error {
		return torsion.WriteReport(w, sel.Ranked)
	}); err != nil {
		return
	}
	log.Infof("ranked results written to %s", m.OutputFile)
	if m.CurveFile != "" {
		if err = writeFile(m.CurveFile, func(w io.Writer) error {
			return torsion.WriteCurve(w, energy, sel.Chosen)
		}); err != nil {
			return
		}
	}
	return torsion.WriteSummary(out, sel)
}

func processParams(m *FitModel, opts *torsion.Options, log *logrus.Logger) (weights []float64, err error) {
	if len(m.ParamsFile) == 0 {
		return
	}
	var data []byte
	if data, err = os.ReadFile(m.ParamsFile); err != nil {
		return
	}
	fp := &InputParameters.FitParameters{}
	if err = fp.Parse(data); err != nil {
		err = fmt.Errorf("%s: %w", m.ParamsFile, err)
		return
	}
	if log.IsLevelEnabled(logrus.DebugLevel) {
		fp.Print(log.Out)
	}
	if err = fp.Apply(opts); err != nil {
		err = fmt.Errorf("%s: %w", m.ParamsFile, err)
		return
	}
	weights = fp.Weights
	return
}

// LoadProfile reads the energy (and optional angle) files and validates their lengths.
func (m *FitModel) LoadProfile(log *logrus.Logger) (p *torsion.Profile, err error) {
	var (
		baseline, reference, phis []float64
	)
	if baseline, err = readfiles.ReadColumnFile(m.BaselineFile); err != nil {
		err = fmt.Errorf("failed to load energy files: %w", err)
		return
	}
	if reference, err = readfiles.ReadColumnFile(m.ReferenceFile); err != nil {
		err = fmt.Errorf("failed to load energy files: %w", err)
		return
	}
	if len(m.AngleFile) != 0 {
		log.Infof("Reading angles from %s...", m.AngleFile)
		if phis, err = readfiles.ReadColumnFile(m.AngleFile); err != nil {
			err = fmt.Errorf("failed to load angle file: %w", err)
			return
		}
	} else {
		log.Info("No angle file provided. Auto-generating angles (-180 to 180)...")
	}
	if p, err = torsion.NewProfile(phis, reference, baseline); err != nil {
		err = fmt.Errorf("%s, %s: %w", m.BaselineFile, m.ReferenceFile, err)
	}
	return
}

func startProfile(mode string) (stop func(), err error) {
	var p interface{ Stop() }
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return nil, fmt.Errorf("unknown profile mode %q, use cpu or mem", mode)
	}
	return p.Stop, nil
}

func writeFile(fileName string, write func(w io.Writer) error) (err error) {
	var f *os.File
	if f, err = os.Create(fileName); err != nil {
		return
	}
	if err = write(f); err != nil {
		f.Close()
		return
	}
	return f.Close()
}
