// Package gcevents turns pre-tokenized JVM garbage collection log records
// into normalized GC events.
//
// Each event carries an absolute UTC timestamp, the affected generations,
// the collector phase and cause, and per-generation heap capacities. Old
// generation figures that the log omits are reconstructed from the total
// heap and the preceding young collection.
//
// # Quick Start
//
//	p, err := gcevents.New(
//		gcevents.WithCollector(gcevents.CollectorG1),
//		gcevents.WithVMVersion(gcevents.HotSpot18),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := p.Parse(ctx, os.Stdin, func(ev gcevents.Event) error {
//		fmt.Println(ev.Occurred, ev.Phase, ev.Cause, ev.PauseMu)
//		return nil
//	})
//
// # Sessions
//
// A Session holds the state that spans records of one log: the timezone of
// the first datestamp and the last young collection. Use one Session per log
// and never share it between goroutines. A Parser is stateless and safe for
// concurrent use.
//
//	s, _ := p.NewSession()
//	ev, ok, err := s.Map(rec)
//
// # Input
//
// Parse reads NDJSON, one entry per line. An entry holds exactly one of a
// "record" object, a "header" line, or an "excluded" line. Headers feed
// Result.Metadata; excluded survivor-age lines feed Result.SurvivorAges.
package gcevents
