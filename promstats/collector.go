// Package promstats exports keyedhash table statistics to Prometheus.
package promstats

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/theflywheel/keyedhash"
)

const namespace = "keyedhash"

// Source is anything that reports table stats. Every *keyedhash.Table
// satisfies it. Tables are not safe for concurrent use, so a table that is
// written while being scraped should be wrapped with Guard.
type Source interface {
	Stats() keyedhash.Stats
	LoadFactor() float64
}

type guarded struct {
	mu  sync.Locker
	src Source
}

// Guard returns a Source that holds mu while reading from src.
func Guard(src Source, mu sync.Locker) Source {
	return &guarded{mu: mu, src: src}
}

func (g *guarded) Stats() keyedhash.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.src.Stats()
}

func (g *guarded) LoadFactor() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.src.LoadFactor()
}

type tableStatsCollector struct {
	src Source

	entries     *prometheus.Desc
	buckets     *prometheus.Desc
	usedBuckets *prometheus.Desc
	tombstones  *prometheus.Desc
	maxChain    *prometheus.Desc
	avgChain    *prometheus.Desc
	collisions  *prometheus.Desc
	loadFactor  *prometheus.Desc
}

// NewTableStatsCollector creates a collector reporting the stats of src,
// labelled with the given table name.
func NewTableStatsCollector(src Source, table string) prometheus.Collector {
	labels := prometheus.Labels{"table": table}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, labels)
	}
	return &tableStatsCollector{
		src:         src,
		entries:     desc("entries", "Number of live entries."),
		buckets:     desc("buckets", "Number of buckets or slots."),
		usedBuckets: desc("used_buckets", "Number of non-empty buckets or occupied slots."),
		tombstones:  desc("tombstones", "Number of tombstone slots."),
		maxChain:    desc("max_chain_or_probe", "Longest chain or probe sequence."),
		avgChain:    desc("average_chain_length", "Average chain or probe length."),
		collisions:  desc("collisions", "Collision count as of the last scrape."),
		loadFactor:  desc("load_factor", "Occupied fraction of the capacity."),
	}
}

func (c *tableStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.buckets
	ch <- c.usedBuckets
	ch <- c.tombstones
	ch <- c.maxChain
	ch <- c.avgChain
	ch <- c.collisions
	ch <- c.loadFactor
}

func (c *tableStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	gauge(c.entries, float64(s.TotalElements))
	gauge(c.buckets, float64(s.Buckets))
	gauge(c.usedBuckets, float64(s.UsedBuckets))
	gauge(c.tombstones, float64(s.Tombstones))
	gauge(c.maxChain, float64(s.MaxChainOrProbe))
	gauge(c.avgChain, s.AverageChainLength)
	gauge(c.collisions, float64(s.CollisionCount))
	gauge(c.loadFactor, c.src.LoadFactor())
}

var _ prometheus.Collector = new(tableStatsCollector)
