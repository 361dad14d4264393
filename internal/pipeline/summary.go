package pipeline

import "github.com/sanspareilsmyn/streampulse/internal/stats"

// BatchSummary is the only externally observable artifact per flushed batch.
// EventsTotal, DistinctEstimate, ProbeKeyEstimate, Mean and Variance cover
// the whole process lifetime; TopBuckets and the latency percentiles are
// computed over the bounded windows' current contents.
type BatchSummary struct {
	BatchSize        int
	EventsTotal      uint64
	DistinctEstimate float64
	ProbeKey         string
	ProbeKeyEstimate uint64
	TopBuckets       []stats.BucketCount
	Mean             float64
	Variance         float64
	LatencyP50Ms     float64
	LatencyP95Ms     float64
	LatencyP99Ms     float64
	ClockAnomalies   uint64
}
