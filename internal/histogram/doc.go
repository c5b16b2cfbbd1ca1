// Package histogram buckets latency values and aggregates bucket counts.
//
// Counting happens in two stages. Each worker owns a Local aggregator for
// the file it is scanning and records into it without any locking. When
// the file is finished the Local is merged exactly once into the shared
// Global aggregator, which serializes merges behind a mutex. Merging is
// plain addition, so the final counts do not depend on scheduling.
//
// # Basic Usage
//
//	layout := histogram.DefaultLayout()
//	global := histogram.NewGlobal(layout)
//
//	local := global.NewLocal()
//	local.Record(2.0)
//	local.Record(31.5)
//	global.Merge(local)
//
//	result := global.Snapshot()
//	fmt.Println(result.Total) // 2
//
// Alongside the fixed buckets every covered value is also recorded in an
// HDR histogram so that percentiles can be reported for the same run.
package histogram
