package assemble

import (
	"context"
	"time"

	"github.com/lajketz/site/internal/content"
	"github.com/lajketz/site/internal/models"
)

// DiagnosticsView is the raw accessor output used to verify connectivity to
// the content store.
type DiagnosticsView struct {
	Analyses  content.Listing[models.Report]   `json:"analyses"`
	Blogs     content.Listing[models.Article]  `json:"blogs"`
	Vlogs     content.Listing[models.VideoLog] `json:"vlogs"`
	Duration  time.Duration                    `json:"durationNs"`
	FetchedAt time.Time                        `json:"fetchedAt"`
}

// Healthy reports whether every fetch succeeded.
func (d DiagnosticsView) Healthy() bool {
	return !d.Analyses.Failed && !d.Blogs.Failed && !d.Vlogs.Failed
}

// Diagnostics fetches the three lists one after another so each timing and
// failure is attributable.
func (a *Assembler) Diagnostics(ctx context.Context) DiagnosticsView {
	start := time.Now()
	view := DiagnosticsView{FetchedAt: start.UTC()}
	view.Analyses = a.src.Analyses(ctx)
	view.Blogs = a.src.Blogs(ctx)
	view.Vlogs = a.src.Vlogs(ctx)
	view.Duration = time.Since(start)
	return view
}
