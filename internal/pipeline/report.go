package pipeline

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const summaryTopRoutes = 3

// FormatSummary writes the console analysis summary for a finished run.
func FormatSummary(w io.Writer, r *Result) error {
	if r == nil || r.Insights == nil || r.Recommendations == nil {
		return eris.New("pipeline: summary requires a completed run")
	}
	p := message.NewPrinter(language.English)
	rule := strings.Repeat("=", 60)
	stats := r.Insights.SummaryStats

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString("ANALYSIS SUMMARY\n")
	b.WriteString(rule + "\n")
	p.Fprintf(&b, "Run ID: %s\n", r.RunID)
	p.Fprintf(&b, "Routes Analyzed: %d\n", stats.TotalRoutes)
	p.Fprintf(&b, "Profitable Routes: %d\n", stats.ProfitableRoutes)
	p.Fprintf(&b, "Avg Profit Margin: %.1f%%\n", stats.AverageProfitMargin)
	p.Fprintf(&b, "Total Annual Profit: $%.1fM\n", stats.TotalAnnualProfit/1e6)
	p.Fprintf(&b, "Avg Load Factor: %.1f%%\n", stats.AverageLoadFactor*100)
	p.Fprintf(&b, "Total Passengers: %d\n", stats.TotalPassengers)

	b.WriteString("\nTOP 3 PROFITABLE ROUTES:\n")
	for i, route := range r.Insights.MostProfitableRoutes {
		if i == summaryTopRoutes {
			break
		}
		p.Fprintf(&b, "   %d. %s: $%.1fM (%.1f%% margin)\n", i+1, route.RouteID, route.Profit/1e6, route.ProfitMargin)
	}

	recs := r.Recommendations
	b.WriteString("\nKEY RECOMMENDATIONS:\n")
	p.Fprintf(&b, "   Expand: %d high-ROI routes\n", len(recs.ExpandRoutes.Routes))
	p.Fprintf(&b, "   Optimize: %d underperforming routes\n", len(recs.OptimizeRoutes.Routes))
	p.Fprintf(&b, "   Review: %d loss-making routes\n", len(recs.ConsiderDiscontinuing.Routes))

	if len(r.Files) > 0 {
		p.Fprintf(&b, "\nResults saved to: %s/\n", r.Params.OutputDir)
	}
	b.WriteString(rule + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "pipeline: write summary")
	}
	return nil
}
