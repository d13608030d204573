/*
Package chain drives a strictly sequential chain of cell jobs.

Each job has two phases. The primary phase starts an asynchronous operation
(a copy or a paste) and returns its handle; the driver waits for that
operation and only then runs the completion phase (saving the schematic,
clearing the clipboard). The next job starts after the completion phase of
the previous one returns, so at most one job is ever in flight.

Plan turns a cell sequence and a resume range into a lazy sequence of jobs:

	jobs, rangeTotal, err := chain.Plan(cells, total, rng, time.Now(), build)
	stats, err := chain.NewDriver(session, chain.WithHooks(hooks)).Run(ctx, jobs)

A failing job halts the chain. The returned error is a *domain.CellError
carrying the posid and sequence of the failing cell, which is the value to
resume from.
*/
package chain
