package InputParameters

import (
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/torsionfit/torsion"
)

// Parameters obtained from the YAML fit parameters file. Zero values leave the
// corresponding search option untouched.
type FitParameters struct {
	Title         string         `yaml:"Title"`
	Terms         []torsion.Term `yaml:"Terms"`     // replaces the default catalog
	PhasePool     []float64      `yaml:"PhasePool"` // replaces the default pool
	PhaseMode     string         `yaml:"PhaseMode"` // "free" or "symmetric"
	MaxRMSE       float64        `yaml:"MaxRMSE"`
	MaxRatio      float64        `yaml:"MaxRatio"`
	MaxIterations int            `yaml:"MaxIterations"`
	Tolerance     float64        `yaml:"Tolerance"`
	Weights       []float64      `yaml:"Weights"`
}

func (fp *FitParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

// Apply overlays the parameters onto opts.
func (fp *FitParameters) Apply(opts *torsion.Options) (err error) {
	for i, t := range fp.Terms {
		if err = t.Validate(); err != nil {
			return fmt.Errorf("Terms[%d]: %w", i, err)
		}
	}
	if len(fp.Terms) != 0 {
		opts.Catalog = append(torsion.Catalog(nil), fp.Terms...)
	}
	switch strings.ToLower(fp.PhaseMode) {
	case "", "free":
		if len(fp.PhasePool) != 0 {
			opts.PhasePool = append([]float64(nil), fp.PhasePool...)
		}
	case "symmetric":
		if len(fp.PhasePool) != 0 {
			return fmt.Errorf("PhasePool cannot be combined with PhaseMode %q", fp.PhaseMode)
		}
		opts.PhasePool = append([]float64(nil), torsion.SymmetricPhasePool...)
	default:
		return fmt.Errorf("unknown PhaseMode %q, use free or symmetric", fp.PhaseMode)
	}
	if fp.MaxRMSE != 0 {
		opts.Policy.MaxRMSE = fp.MaxRMSE
	}
	if fp.MaxRatio != 0 {
		opts.Policy.MaxRatio = fp.MaxRatio
	}
	if fp.MaxIterations != 0 {
		opts.MaxIterations = fp.MaxIterations
	}
	if fp.Tolerance != 0 {
		opts.Tolerance = fp.Tolerance
	}
	return
}

func (fp *FitParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", fp.Title)
	for i, t := range fp.Terms {
		fmt.Fprintf(w, "Terms[%d] = %s\n", i, t)
	}
	fmt.Fprintf(w, "%v\t\t= Phase Pool\n", fp.PhasePool)
	fmt.Fprintf(w, "[%s]\t\t\t= Phase Mode\n", fp.PhaseMode)
	fmt.Fprintf(w, "%8.5f\t\t= MaxRMSE\n", fp.MaxRMSE)
	fmt.Fprintf(w, "%8.5f\t\t= MaxRatio\n", fp.MaxRatio)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Max Iterations\n", fp.MaxIterations)
	fmt.Fprintf(w, "%8.2g\t\t= Tolerance\n", fp.Tolerance)
	if len(fp.Weights) != 0 {
		fmt.Fprintf(w, "[%d]\t\t\t\t= Weights\n", len(fp.Weights))
	}
}
