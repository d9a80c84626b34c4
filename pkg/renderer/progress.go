package renderer

import (
	"log/slog"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// ProgressReporter observes render progress. Increment is called once per
// dispatched scanline from the dispatching goroutine.
type ProgressReporter interface {
	Increment()
}

// NopProgress ignores progress
type NopProgress struct{}

// Increment does nothing
func (NopProgress) Increment() {}

// LogProgress logs progress through the package logger every tenth of the
// total. It is not safe for concurrent use.
type LogProgress struct {
	total   int
	done    int
	step    int
	printer *message.Printer
	logger  *slog.Logger
}

// NewLogProgress creates a progress logger for total scanlines
func NewLogProgress(total int) *LogProgress {
	return &LogProgress{
		total:   total,
		step:    max(1, total/10),
		printer: message.NewPrinter(language.English),
		logger:  core.Logger(),
	}
}

// Increment records one finished scanline
func (p *LogProgress) Increment() {
	p.done++
	if p.done%p.step != 0 && p.done != p.total {
		return
	}
	percent := 0
	if p.total > 0 {
		percent = p.done * 100 / p.total
	}
	p.logger.Info(p.printer.Sprintf("scanline %d of %d", p.done, p.total), "percent", percent)
}

// Done returns the number of scanlines reported so far
func (p *LogProgress) Done() int {
	return p.done
}
