package generator

// ProgressReporter provides callbacks for reporting generation progress.
// With more than one worker OnFileProcessed is called concurrently.
type ProgressReporter interface {
	// OnStart is called before any file is extracted.
	OnStart(totalFiles int)

	// OnFileProcessed is called after each file is extracted.
	OnFileProcessed(filePath string)

	// OnComplete is called when the document has been written.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnStart(totalFiles int)          {}
func (n *NoOpProgressReporter) OnFileProcessed(filePath string) {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)         {}
