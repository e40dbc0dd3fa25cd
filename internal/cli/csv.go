package cli

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"vcePortalApi/internal/attendance"
)

// WriteProjectionsCSV writes projections as CSV with a header row.
func WriteProjectionsCSV(w io.Writer, projections []attendance.CategoryProjection) error {
	if projections == nil {
		projections = []attendance.CategoryProjection{}
	}
	if err := gocsv.Marshal(projections, w); err != nil {
		return fmt.Errorf("error writing projections CSV: %w", err)
	}
	return nil
}
