package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mickleon/typdoc/internal/generator"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	out     io.Writer
	quiet   bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		out:   out,
		quiet: quiet,
	}
}

func (c *CLIProgressReporter) OnStart(totalFiles int) {
	if c.quiet {
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting headers"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

// OnFileProcessed may be called from several workers; the bar is safe for
// concurrent use.
func (c *CLIProgressReporter) OnFileProcessed(fileName string) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *generator.Stats) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Fprintf(c.out, "✓ Documentation written to %s: %s classes from %s files in %.2fs\n",
		stats.OutputPath,
		formatNumber(stats.Declarations),
		formatNumber(stats.Files),
		stats.Duration.Seconds())
	if stats.CacheHits > 0 {
		fmt.Fprintf(c.out, "  Unchanged files: %s\n", formatNumber(stats.CacheHits))
	}
}

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
