// Package scan runs a complete latency histogram pass: file discovery,
// the concurrent scan and aggregation.
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.Root = "/var/log/alb"
//
//	result, err := scan.NewRunner(cfg).Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, e := range result.Summary.Result.Counts.Entries() {
//	    fmt.Printf("%d - %d\n", e.Key, e.Count)
//	}
//
// # Time Windows
//
// When InitTime or EndTime is set only files whose name carries a
// timestamp inside [InitTime, EndTime) are scanned. A window whose start
// is after its end wraps past midnight:
//
//	cfg.InitTime = "22:00"
//	cfg.EndTime = "06:00"
//
// # Reports
//
// Result.Report converts a run into an output.Report, which can be
// printed as text, JSON or YAML or exported as Prometheus metrics.
package scan
