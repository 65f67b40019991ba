package search

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Options configures a search engine. The zero value is usable: expand
// fills in defaults for every unset field.
type Options struct {
	// Threads is the number of workers exploring the tree. 0 selects
	// runtime.NumCPU(); negative values are rejected at construction.
	Threads int `yaml:"threads"`

	// CommitDistance is the cloning distance c_d: during descent a
	// snapshot is kept every CommitDistance nodes. Minimum 1 (a snapshot
	// at every node).
	CommitDistance int `yaml:"commit_distance"`

	// AdaptDistance is the adaptive recomputation distance a_d: when a
	// recomputation has to replay more than AdaptDistance alternatives,
	// an intermediate snapshot is installed halfway. Minimum 1.
	AdaptDistance int `yaml:"adapt_distance"`

	// Stop is the optional early-termination policy, consulted at every
	// node. Not read from YAML.
	Stop Stop `yaml:"-"`

	// Cutoff is the restart sequence for restart-based search. Ignored
	// by plain DFS. Not read from YAML.
	Cutoff Cutoff `yaml:"-"`
}

// Default option values.
const (
	DefaultCommitDistance = 8
	DefaultAdaptDistance  = 2
)

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() *Options {
	return &Options{
		Threads:        runtime.NumCPU(),
		CommitDistance: DefaultCommitDistance,
		AdaptDistance:  DefaultAdaptDistance,
	}
}

// LoadOptions reads options from a YAML file and fills in defaults for
// fields the file leaves unset.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("load options %s: %w", path, err)
	}
	if err := o.expand(); err != nil {
		return nil, err
	}
	return &o, nil
}

// expand normalizes o in place, applying defaults and validating the
// remainder.
func (o *Options) expand() error {
	if o.Threads < 0 {
		return fmt.Errorf("%w: %d", ErrThreads, o.Threads)
	}
	if o.Threads == 0 {
		o.Threads = runtime.NumCPU()
	}
	if o.CommitDistance < 1 {
		o.CommitDistance = DefaultCommitDistance
	}
	if o.AdaptDistance < 1 {
		o.AdaptDistance = DefaultAdaptDistance
	}
	return nil
}
