package fitting

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"burnrate-go/combustion"
	"burnrate-go/fitness"
	"burnrate-go/units"
)

// WriteReport prints the run summary, the parameter vector and a per-cell
// comparison with the experimental burn law.
func WriteReport(w io.Writer, o *Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if o.Result != nil {
		r := o.Result
		fmt.Fprintf(tw, "Run\t%s\n", o.RunID)
		fmt.Fprintf(tw, "Stop reason\t%s\n", r.StopReason)
		fmt.Fprintf(tw, "Generations\t%d\n", r.Generations)
		fmt.Fprintf(tw, "Evaluations\t%d\n", r.Evaluations)
		fmt.Fprintf(tw, "Elapsed\t%s\n", r.Elapsed.Round(time.Millisecond))
	}
	writeBreakdown(tw, o)
	return tw.Flush()
}

func writeBreakdown(tw *tabwriter.Writer, o *Outcome) {
	b := o.Breakdown
	if !b.Feasible {
		fmt.Fprintln(tw, "Objective\tinfeasible")
	} else {
		fmt.Fprintf(tw, "Objective\t%.6g\n", b.Objective)
		fmt.Fprintf(tw, "Burn rate error\t%.6g\n", b.Error)
		for _, p := range b.Penalties {
			fmt.Fprintf(tw, "Penalty %s\t%.6g\n", p.Name, p.Value)
		}
	}

	if o.Result != nil && len(o.Result.Best.Vector) == combustion.ParamCount {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Parameter\tValue")
		for i, name := range combustion.ParamNames {
			fmt.Fprintf(tw, "%s\t%.10g\n", name, o.Result.Best.Vector[i])
		}
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Propellant\tP, MPa\tu, mm/s\tu exp, mm/s\terror, %\tu ip, mm/s\tu p, mm/s\tTs ip, K\tTs p, K")
	for _, c := range b.Cells {
		writeCell(tw, c)
	}
}

func writeCell(tw *tabwriter.Writer, c fitness.Cell) {
	p := units.Pascals(c.Pressure)
	u := units.MetersPerSecond(c.BurnRate)
	exp := units.MetersPerSecond(c.ExperimentalBurnRate)
	if !c.Found {
		fmt.Fprintf(tw, "%s\t%.3f\t-\t%.4f\t-\t-\t-\t-\t-\n", c.Propellant, p.Megapascals(), exp.MillimetersPerSecond())
		return
	}
	fmt.Fprintf(tw, "%s\t%.3f\t%.4f\t%.4f\t%.2f\t%.4f\t%.4f\t%.1f\t%.1f\n",
		c.Propellant,
		p.Megapascals(),
		u.MillimetersPerSecond(),
		exp.MillimetersPerSecond(),
		100*u.RelativeError(exp),
		units.MetersPerSecond(c.InterPocketBurnRate).MillimetersPerSecond(),
		units.MetersPerSecond(c.PocketBurnRate).MillimetersPerSecond(),
		c.InterPocketSurface,
		c.PocketSurface,
	)
}

func WriteReportFile(path string, o *Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReport(f, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
