package snapshot

import "strings"

// Config describes where snapshot feeds live and which labels to load.
type Config struct {
	// OlderLabel is the label of the earlier snapshot (e.g. "oct-2024").
	OlderLabel string `mapstructure:"older_label" default:"oct-2024"`
	// NewerLabel is the label of the later snapshot (e.g. "dec-2024").
	NewerLabel string `mapstructure:"newer_label" default:"dec-2024"`
	// BaseURL is the root under which per-label feed documents are published.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8081/feeds"`
	// Regions is a comma-separated list of GDOS region codes to load.
	Regions string `mapstructure:"regions" default:"USW,USE,USC,USS"`
	// TimeoutSeconds is the feed fetch timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Labels returns the snapshot labels in older-to-newer order.
func (c Config) Labels() []string {
	return []string{c.OlderLabel, c.NewerLabel}
}

// RegionList splits the configured region codes.
func (c Config) RegionList() []string {
	var regions []string
	for _, r := range strings.Split(c.Regions, ",") {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}
	return regions
}

// Sources builds the source descriptors for one snapshot label: one mandatory
// GDOS feed per region, one mandatory Zesty feed, and the optional score feed.
func (c Config) Sources(label string) []Source {
	base := strings.TrimSuffix(c.BaseURL, "/") + "/" + label
	var sources []Source
	for _, region := range c.RegionList() {
		sources = append(sources, Source{
			Name:   "gdos-" + region,
			URL:    base + "/gdos-" + region + ".json",
			Kind:   KindGDOS,
			Region: region,
		})
	}
	sources = append(sources, Source{
		Name: "zesty",
		URL:  base + "/zesty.json",
		Kind: KindZesty,
	})
	sources = append(sources, Source{
		Name:     "scores",
		URL:      base + "/scores.json",
		Kind:     KindScore,
		Optional: true,
	})
	return sources
}
