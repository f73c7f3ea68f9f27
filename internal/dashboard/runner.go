package dashboard

import (
	"context"
	"fmt"
	"io"
)

// Views selectable in one-shot mode.
const (
	ViewDashboard = "dashboard"
	ViewReport    = "report"
)

// RunOnce fetches once, builds the requested view and renders it to w.
func RunOnce(ctx context.Context, source Fetcher, view string, q Query, format Format, w io.Writer) error {
	records, err := source.FetchCleaned(ctx)
	if err != nil {
		return err
	}
	switch view {
	case ViewDashboard, "":
		v, err := BuildView(records, q)
		if err != nil {
			return fmt.Errorf("build view: %w", err)
		}
		return Render(w, format, v)
	case ViewReport:
		return Render(w, format, BuildReport(records))
	}
	return fmt.Errorf("%w: %q", ErrInvalidView, view)
}
