// Package report renders aggregated simulation results
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/anggasct/crossing"
)

// Format selects the output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}

// ParseFormat maps a flag value to a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if !lo.Contains(Formats, f) {
		names := lo.Map(Formats, func(f Format, _ int) string { return string(f) })
		return "", crossing.NewInvalidArgumentError("format", s, "must be one of "+strings.Join(names, ", "))
	}
	return f, nil
}

// Report is everything a rendering needs
type Report struct {
	Params      crossing.Params     `json:"params" yaml:"params"`
	BaseSeed    int64               `json:"base_seed" yaml:"base_seed"`
	DrainPolicy string              `json:"drain_policy" yaml:"drain_policy"`
	Fingerprint string              `json:"fingerprint" yaml:"fingerprint"`
	Results     crossing.Summary    `json:"results" yaml:"results"`
	Runs        []crossing.RunStats `json:"runs,omitempty" yaml:"runs,omitempty"`
}

// New assembles a report. Per-run statistics are kept only when withRuns is set.
func New(params crossing.Params, policy crossing.DrainPolicy, total *crossing.AggregateStats, runs []crossing.RunStats, withRuns bool) *Report {
	r := &Report{
		Params:      params,
		BaseSeed:    total.BaseSeed(),
		DrainPolicy: policy.String(),
		Fingerprint: fmt.Sprintf("%016x", crossing.Fingerprint(runs)),
		Results:     total.Mean(),
	}
	if withRuns {
		r.Runs = runs
	}
	return r
}

// Write renders r to w in format f
func Write(w io.Writer, f Format, r *Report) error {
	switch f {
	case FormatText, "":
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	default:
		return crossing.NewInvalidArgumentError("format", string(f), "unsupported format")
	}
}

// WriteText prints the parameter block and the averaged results.
// Means are truncated toward zero.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteString("Parameter values:\n")
	writeParams(&b, "left", r.Params.LeftRate, r.Params.LeftGreen)
	writeParams(&b, "right", r.Params.RightRate, r.Params.RightGreen)

	fmt.Fprintf(&b, "Results (averaged over %d runs):\n", r.Results.Runs)
	writeResults(&b, "left", r.Results.Left)
	writeResults(&b, "right", r.Results.Right)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeParams(b *strings.Builder, side string, rate float64, green int) {
	fmt.Fprintf(b, "   from %s:\n", side)
	fmt.Fprintf(b, "      traffic arrival rate: %.2f\n", rate)
	fmt.Fprintf(b, "      traffic light period: %d\n", green)
}

func writeResults(b *strings.Builder, side string, s crossing.ApproachSummary) {
	fmt.Fprintf(b, "   from %s:\n", side)
	fmt.Fprintf(b, "      number of vehicles:   %d\n", int(s.Vehicles))
	fmt.Fprintf(b, "      average waiting time: %d\n", int(s.AverageWait))
	fmt.Fprintf(b, "      maximum waiting time: %d\n", int(s.MaxWait))
	fmt.Fprintf(b, "      clearance time:       %d\n", int(s.ClearanceTicks))
}

// WriteJSON writes r as indented JSON
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes r as a YAML document
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

var csvHeader = []string{
	"run", "run_id", "seed",
	"left_vehicles", "left_average_wait", "left_max_wait", "left_clearance",
	"right_vehicles", "right_average_wait", "right_max_wait", "right_clearance",
	"ticks", "phase_switches",
}

// WriteCSV writes one row per run followed by a mean row
func WriteCSV(w io.Writer, r *Report) error {
	rows := lo.Map(r.Runs, func(run crossing.RunStats, i int) []string {
		return []string{
			strconv.Itoa(i), run.RunID, strconv.FormatInt(run.Seed, 10),
			strconv.Itoa(run.Left.Vehicles), formatFloat(run.Left.AverageWait()),
			strconv.Itoa(run.Left.MaxWait), strconv.Itoa(run.Left.ClearanceTicks),
			strconv.Itoa(run.Right.Vehicles), formatFloat(run.Right.AverageWait()),
			strconv.Itoa(run.Right.MaxWait), strconv.Itoa(run.Right.ClearanceTicks),
			strconv.Itoa(run.Ticks), strconv.Itoa(run.PhaseSwitches),
		}
	})
	mean := r.Results
	rows = append(rows, []string{
		"mean", "", strconv.FormatInt(r.BaseSeed, 10),
		formatFloat(mean.Left.Vehicles), formatFloat(mean.Left.AverageWait),
		formatFloat(mean.Left.MaxWait), formatFloat(mean.Left.ClearanceTicks),
		formatFloat(mean.Right.Vehicles), formatFloat(mean.Right.AverageWait),
		formatFloat(mean.Right.MaxWait), formatFloat(mean.Right.ClearanceTicks),
		"", "",
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
