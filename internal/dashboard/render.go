package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/okian/funolympics/internal/dashboard/frame"
	"gopkg.in/yaml.v3"
)

// Format selects how views are written.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// Render writes v, a *View or *Report, to w in the given format.
func Render(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		switch t := v.(type) {
		case *View:
			return renderViewText(w, t)
		case *Report:
			return renderReportText(w, t)
		}
		return fmt.Errorf("%w: %T", ErrInvalidView, v)
	}
	return fmt.Errorf("%w: %q", ErrInvalidFormat, string(format))
}

func renderViewText(out io.Writer, v *View) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n\n", v.Title)
	fmt.Fprintln(w, "Key Performance Indicators (KPIs)")
	fmt.Fprintf(w, "Total Visits\t%d\n", v.KPIs.TotalVisits)
	fmt.Fprintf(w, "Unique Visitors\t%d\n", v.KPIs.UniqueVisitors)
	fmt.Fprintf(w, "Avg. Session Duration\t%s\n", v.AvgSession)
	fmt.Fprintf(w, "Bounce Rate\t%s\n", v.BounceRate)
	if v.Dropped > 0 {
		fmt.Fprintf(w, "Dropped (bad timestamp)\t%d\n", v.Dropped)
	}

	sections := []struct {
		title  string
		counts []frame.Count
	}{
		{"Number of Visits per Country", v.ByLocation},
		{"Popular Sports", v.BySport},
		{"Referral Traffic", v.ByReferral},
		{"Status Codes", v.ByStatus},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s\n", s.title)
		for _, c := range s.counts {
			fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Count)
		}
	}

	fmt.Fprintln(w, "\nSports-Related Words")
	for _, ww := range v.Words {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", ww.Word, ww.Count, ww.Weight)
	}

	fmt.Fprintln(w, "\nHeatmap of Peak Traffic Periods")
	header := make([]string, 0, len(v.Heatmap.Hours)+1)
	header = append(header, "")
	for _, h := range v.Heatmap.Hours {
		header = append(header, strconv.Itoa(h))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for i, d := range v.Heatmap.Days {
		cells := []string{d}
		for _, n := range v.Heatmap.Counts[i] {
			cells = append(cells, strconv.Itoa(n))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	fmt.Fprintf(w, "\nNumber of Requests Over Time (%s)\n", v.Granularity)
	for _, b := range v.Series {
		fmt.Fprintf(w, "%s\t%d\n", b.Label, b.Count)
	}
	return w.Flush()
}

func renderReportText(out io.Writer, r *Report) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\n\nDescriptive Statistics\n", r.Title)
	fmt.Fprintln(w, "\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, c := range r.Columns {
		std := "NaN"
		if c.Std != nil {
			std = strconv.FormatFloat(*c.Std, 'f', 6, 64)
		}
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t\n",
			c.Column, c.Count, c.Mean, std, c.Min, c.P25, c.P50, c.P75, c.Max)
	}
	return w.Flush()
}
