package commands

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	// IncludeHidden keeps dot-prefixed entries, which are skipped otherwise.
	IncludeHidden bool
	// Warn receives messages about subdirectories that could not be read.
	Warn func(message string)
}

func (treeBuilder *TreeBuilder) warn(message string) {
	if treeBuilder.Warn != nil {
		treeBuilder.Warn(message)
	}
}
