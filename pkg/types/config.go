package types

// PathMapping is a single substring rewrite rule: every occurrence of
// Old in a line becomes New.
type PathMapping struct {
	// Old is the path substring to replace (e.g. a Drive mount prefix).
	Old string `json:"old" yaml:"old"`

	// New is the replacement (e.g. "./" for a local relative path).
	New string `json:"new" yaml:"new"`
}

// RewriteConfig holds the rules applied to each code cell. The zero value
// is unusable; use DefaultRewriteConfig for the stock Borealis rules.
type RewriteConfig struct {
	// Mappings is the ordered path rewrite table. Order is a contract:
	// more specific prefixes must come before prefixes they contain,
	// otherwise the general entry rewrites first and leaves the tail of
	// the specific path behind.
	Mappings []PathMapping `json:"mappings" yaml:"mappings"`

	// TriggerMarkers are the substrings that identify a Drive mount line.
	// A line containing any marker is replaced or dropped, never rewritten.
	TriggerMarkers []string `json:"trigger_markers" yaml:"trigger_markers"`

	// ReplacementBlock is the text emitted in place of the first trigger
	// line in a cell. It is opaque to the rewriter.
	ReplacementBlock string `json:"replacement_block" yaml:"replacement_block"`
}

// BatchConfig holds settings for a directory conversion run.
type BatchConfig struct {
	// RootDir is the directory tree to walk for notebooks.
	RootDir string `json:"root_dir" yaml:"root_dir"`

	// Extension selects which files are converted (default ".ipynb").
	Extension string `json:"extension" yaml:"extension"`
}

// LedgerConfig holds settings for the run audit ledger.
type LedgerConfig struct {
	// LedgerDir is the directory holding the ledger database and exports.
	LedgerDir string `json:"ledger_dir" yaml:"ledger_dir"`

	// MaxRuns is the default maximum number of runs listed (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}

// Config groups all tool configuration.
type Config struct {
	Rewrite RewriteConfig `json:"rewrite" yaml:"rewrite"`
	Batch   BatchConfig   `json:"batch" yaml:"batch"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
}

// DefaultExtension is the notebook file extension matched during discovery.
const DefaultExtension = ".ipynb"

// DefaultPathMappings returns the stock mapping table for Drive-hosted
// notebook data. Entries are ordered longest prefix first so that the
// dataset subdirectory collapses to "./" before the bare mount prefix
// would match.
func DefaultPathMappings() []PathMapping {
	return []PathMapping{
		{Old: "/content/drive/MyDrive/shared-data/Notebook datafiles/", New: "./"},
		{Old: "/content/drive/My Drive/shared-data/Notebook datafiles/", New: "./"},
		{Old: "/content/drive/MyDrive/shared-data/", New: "./"},
		{Old: "/content/drive/My Drive/shared-data/", New: "./"},
		{Old: "/content/drive/", New: "./"},
	}
}

// DefaultTriggerMarkers returns the stock mount-trigger markers: the Colab
// drive import and the mount call itself.
func DefaultTriggerMarkers() []string {
	return []string{
		"from google.colab import drive",
		"drive.mount(",
	}
}

// DefaultRewriteConfig returns the stock Borealis rewrite rules.
func DefaultRewriteConfig() RewriteConfig {
	return RewriteConfig{
		Mappings:         DefaultPathMappings(),
		TriggerMarkers:   DefaultTriggerMarkers(),
		ReplacementBlock: BorealisBlock,
	}
}
