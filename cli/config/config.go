package config

import (
	"fmt"
	"time"

	"github.com/pithecene-io/terrace/archive"
)

// Config represents a terrace.yaml configuration file.
// All values are optional and act as defaults for terrace command
// flags. CLI flags always override config values.
type Config struct {
	// StagingRoot is the staging area holding incoming/, analysis/ and
	// outgoing/.
	StagingRoot string `yaml:"staging_root"`

	// Actor names the operator or service driving transitions, for the
	// status record and the journal.
	Actor string `yaml:"actor"`

	Ownership  OwnershipConfig  `yaml:"ownership"`
	Completion CompletionConfig `yaml:"completion"`
	Status     StatusConfig     `yaml:"status"`
	Journal    JournalConfig    `yaml:"journal"`
	Adapter    AdapterConfig    `yaml:"adapter"`
	Archive    archive.S3Config `yaml:"archive"`
}

// OwnershipConfig controls the post-move group fix-up.
type OwnershipConfig struct {
	// Fix enables the fix-up after successful moves.
	Fix bool `yaml:"fix"`
	// Group is the default group applied to moved folders.
	Group string `yaml:"group"`
	// AnalysisGroups overrides Group per staging-area root for moves
	// into analysis.
	AnalysisGroups map[string]string `yaml:"analysis_groups,omitempty"`
}

// CompletionConfig holds completion-detection thresholds.
type CompletionConfig struct {
	// Grace is the RTA marker age after which a NovaSeq run counts as
	// complete without its copy marker. Default 6h.
	Grace Duration `yaml:"grace,omitempty"`
	// MirrorWait is the RTA marker age after which mirroring counts as
	// complete. Default 10m.
	MirrorWait Duration `yaml:"mirror_wait,omitempty"`
	// TransferLog is the transfer log file name checked for the
	// copied sentinel. Default mirror.log.
	TransferLog string `yaml:"transfer_log,omitempty"`
}

// StatusConfig holds the external run-status record settings.
type StatusConfig struct {
	// Update enables status-record synchronization around moves.
	Update bool `yaml:"update"`
	// URL is the Redis connection string for the record.
	URL string `yaml:"url"`
	// KeyPrefix overrides the default per-run key prefix.
	KeyPrefix string `yaml:"key_prefix,omitempty"`
}

// JournalConfig holds the transition audit journal settings.
type JournalConfig struct {
	// Path is the journal file; empty disables journaling.
	Path string `yaml:"path"`
}

// AdapterConfig holds transition event publication defaults.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10m", "6h").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10m" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Or returns the parsed duration, or fallback when the field was absent.
func (d Duration) Or(fallback time.Duration) time.Duration {
	if d.Duration == 0 {
		return fallback
	}
	return d.Duration
}
