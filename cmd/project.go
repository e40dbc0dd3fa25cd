package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vcePortalApi/internal/attendance"
	"vcePortalApi/internal/cli"
	"vcePortalApi/internal/logging"
)

var (
	flagTotal    int
	flagPresent  int
	flagExtra    int
	flagCategory string
	flagTarget   float64
	flagFile     string
	flagFormat   string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project attendance against a target percentage",
	Long: `Project one category from its counts, or every category of a saved
dashboard document with --file.`,
	Example: `  vceportal project --total 40 --present 30 --target 75
  vceportal project --file dashboard.json --target 80 --format csv`,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().IntVar(&flagTotal, "total", 0, "classes held")
	projectCmd.Flags().IntVar(&flagPresent, "present", 0, "classes attended")
	projectCmd.Flags().IntVar(&flagExtra, "extra", 0, "extra classes credited")
	projectCmd.Flags().StringVar(&flagCategory, "category", "Regular", "category label (ECA categories cap at 16 classes)")
	projectCmd.Flags().Float64Var(&flagTarget, "target", 0, "target percentage, 0 to 100")
	projectCmd.Flags().StringVarP(&flagFile, "file", "f", "", "dashboard JSON to project every category of")
	projectCmd.Flags().StringVar(&flagFormat, "format", "table", "output format: table or csv")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	if flagFormat != "table" && flagFormat != "csv" {
		return fmt.Errorf("invalid format %q (must be 'table' or 'csv')", flagFormat)
	}

	var target *int
	if cmd.Flags().Changed("target") {
		t := attendance.ClampTarget(flagTarget)
		target = &t
	}

	var projections []attendance.CategoryProjection
	if flagFile != "" {
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return fmt.Errorf("error reading dashboard file: %w", err)
		}
		categories, err := parseCategories(data)
		if err != nil {
			return err
		}
		projections = attendance.ProjectAll(categories, target)
	} else {
		if flagTotal < 0 || flagPresent < 0 || flagExtra < 0 {
			return fmt.Errorf("class counts must not be negative")
		}
		rec := attendance.Record{TotalClasses: flagTotal, Presentees: flagPresent, ExtraClasses: flagExtra}
		projections = []attendance.CategoryProjection{attendance.ProjectCategory(flagCategory, rec, target)}
	}
	log.WithField(logging.FieldCount, len(projections)).Debug("projected categories")

	out := cmd.OutOrStdout()
	if flagFormat == "csv" {
		return cli.WriteProjectionsCSV(out, projections)
	}
	printProjections(out, projections, target)
	return nil
}

func printProjections(out io.Writer, projections []attendance.CategoryProjection, target *int) {
	fmt.Fprintln(out, cli.RenderTitle("Attendance Planner"))
	fmt.Fprint(out, cli.RenderTable(cli.ProjectionTable(projections, target)))
	if len(projections) == 1 && target != nil {
		p := projections[0]
		res := attendance.Result{Mode: p.Mode, Count: p.Count, MaxRemaining: p.MaxRemaining}
		fmt.Fprintln(out, "  "+res.Describe(*target))
	}
}

// parseCategories accepts the /dashboard response, a bare dashboard
// document, or just its "Total Attendance Data" map.
func parseCategories(data []byte) (map[string]attendance.CategoryData, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing dashboard file: %w", err)
	}
	if inner, ok := doc["dashboardData"]; ok {
		return parseCategories(inner)
	}
	raw := data
	if total, ok := doc["Total Attendance Data"]; ok {
		raw = total
	}

	var categories map[string]attendance.CategoryData
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("error parsing attendance data: %w", err)
	}
	return categories, nil
}
