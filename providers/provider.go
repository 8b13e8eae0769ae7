// Package providers defines the collector contract shared by all cloud
// providers and a registry the aggregator dispatches through.
package providers

import (
	"context"
	"fmt"
	"sort"

	"github.com/lyric-engineering/fleetscope/types"
)

// Collector enumerates the clusters visible to one provider account and
// normalizes them into ClusterRecords. Implementations treat any SDK fault
// as non-fatal: log, return an error, contribute zero clusters.
type Collector interface {
	// Collect lists all clusters visible to the given credentials.
	Collect(ctx context.Context, creds map[string]string, accountType string) ([]types.ClusterRecord, error)

	// Name returns the provider key used in configuration ("aws", "gcp", "azure").
	Name() string
}

// accountTypes are the account variants collected per provider. The
// asymmetry (AWS has notproduction, the others development) follows how the
// accounts are actually organized, it is not a typo.
var accountTypes = map[string][]string{
	"aws":   {"production", "notproduction"},
	"gcp":   {"production", "development"},
	"azure": {"production", "development"},
}

// AccountTypes returns the account variants to collect for a provider.
func AccountTypes(provider string) []string {
	return accountTypes[provider]
}

// Registry of available collectors
var collectors = make(map[string]Collector)

// Register registers a collector under its provider name.
func Register(c Collector) {
	collectors[c.Name()] = c
}

// Get returns a registered collector by provider name.
func Get(name string) (Collector, error) {
	c, exists := collectors[name]
	if !exists {
		return nil, fmt.Errorf("collector %s not found", name)
	}
	return c, nil
}

// Names returns registered provider names, sorted.
func Names() []string {
	names := make([]string, 0, len(collectors))
	for name := range collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
