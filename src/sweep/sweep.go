// Package sweep produces the rare-node datasets: it simulates each benchmark netlist with
// random vectors and records how many nodes are rare across a range of thresholds
// (threshold sweep) and across a range of vector counts (vector sweep).
//
// Dependency direction: cmd -> sweep -> netlist; the analysis package only reads what sweep writes.
package sweep

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/netlist"
	"github.com/weskkin/Hardware-Trojan-Insertion-Framework/src/types"
)

// Result holds the rows of both sweeps in plan order.
type Result struct {
	Thresholds []types.ThresholdRecord
	Vectors    []types.VectorRecord
	// Skipped lists benchmark paths that were missing or failed to parse.
	Skipped []string
}

// Runner executes a Plan over a bounded pool of workers, one circuit per task.
type Runner struct {
	Plan Plan
	// Parallel is the maximum number of circuits simulated concurrently (min 1).
	Parallel int
	// ProgressInterval enables periodic progress logging when > 0.
	ProgressInterval time.Duration
}

type circuitOutput struct {
	thresholds []types.ThresholdRecord
	vectors    []types.VectorRecord
	skipped    bool
}

// Run simulates every benchmark of the plan. Missing or unparsable benchmarks are skipped with
// a warning; only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.Plan.Validate(); err != nil {
		return nil, err
	}
	defer TimeTrack(time.Now(), "sweep")
	workerCount := r.Parallel
	if workerCount < 1 {
		workerCount = 1
	}
	total := len(r.Plan.Benchmarks)
	outputs := make([]circuitOutput, total)

	workCh := make(chan int)
	var wg sync.WaitGroup
	var inFlight, completed int32
	active := make([]string, workerCount)
	var activeMu sync.Mutex
	stopProgress := make(chan struct{})
	var progressDone sync.WaitGroup
	if r.ProgressInterval > 0 {
		progressDone.Add(1)
		go func() {
			defer progressDone.Done()
			ticker := time.NewTicker(r.ProgressInterval)
			defer ticker.Stop()
			for {
				select {
				case <-stopProgress:
					return
				case <-ticker.C:
					activeMu.Lock()
					var names []string
					for _, n := range active {
						if n != "" {
							names = append(names, n)
						}
					}
					activeMu.Unlock()
					comp := atomic.LoadInt32(&completed)
					inF := atomic.LoadInt32(&inFlight)
					Infof("[progress] completed=%d/%d in_flight=%d active=[%s]", comp, total, inF, strings.Join(names, ","))
				}
			}
		}()
	}

	var firstErr error
	var errOnce sync.Once
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range workCh {
				path := r.Plan.Benchmarks[idx]
				activeMu.Lock()
				active[workerID] = netlist.CircuitName(path)
				activeMu.Unlock()
				atomic.AddInt32(&inFlight, 1)

				out, err := r.runCircuit(ctx, path)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
				}
				outputs[idx] = out

				atomic.AddInt32(&inFlight, -1)
				atomic.AddInt32(&completed, 1)
				activeMu.Lock()
				active[workerID] = ""
				activeMu.Unlock()
			}
		}(w)
	}
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		workCh <- i
	}
	close(workCh)
	wg.Wait()
	close(stopProgress)
	progressDone.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{}
	for i, o := range outputs {
		if o.skipped {
			res.Skipped = append(res.Skipped, r.Plan.Benchmarks[i])
			continue
		}
		res.Thresholds = append(res.Thresholds, o.thresholds...)
		res.Vectors = append(res.Vectors, o.vectors...)
	}
	return res, nil
}

// runCircuit returns an error only for context cancellation; other problems mark the circuit skipped.
func (r *Runner) runCircuit(ctx context.Context, path string) (circuitOutput, error) {
	if _, err := os.Stat(path); err != nil {
		Warnf("Skipping %s (not found)", path)
		return circuitOutput{skipped: true}, nil
	}
	nl, err := netlist.ParseFile(path)
	if err != nil {
		Errorf("Failed to parse %s: %v", path, err)
		return circuitOutput{skipped: true}, nil
	}
	Infof("Processing: %s (%d inputs, %d outputs, %d gates)", nl.Name, len(nl.Inputs()), len(nl.Outputs()), len(nl.Gates()))
	sim := netlist.NewSimulator(nl, r.Plan.Seed)
	sim.Progress = func(done, total int) {
		Debugf("[%s] simulation %d/%d", nl.Name, done, total)
	}
	var out circuitOutput

	// One simulation serves every threshold: classification only moves the cut-off.
	if len(r.Plan.Thresholds) > 0 {
		ones, err := sim.OnesCounts(ctx, r.Plan.ThresholdVectors)
		if err != nil {
			return out, err
		}
		for _, th := range r.Plan.Thresholds {
			rare := sim.Classify(ones, r.Plan.ThresholdVectors, th)
			rec := types.ThresholdRecord{
				Circuit:        nl.Name,
				Threshold:      th * 100,
				TotalNodes:     nl.Len(),
				RareNodes:      rare.Count,
				RarePercentage: types.RarePercent(rare.Count, nl.Len()),
			}
			out.thresholds = append(out.thresholds, rec)
			Infof("[%s] theta=%3.0f%%: %d/%d nodes (%.2f%%)", nl.Name, rec.Threshold, rec.RareNodes, rec.TotalNodes, rec.RarePercentage)
		}
	}
	for _, n := range r.Plan.VectorCounts {
		start := time.Now()
		rare, err := sim.FindRareNodes(ctx, n, r.Plan.VectorThreshold)
		if err != nil {
			return out, err
		}
		rec := types.VectorRecord{
			Circuit:        nl.Name,
			NumVectors:     n,
			TotalNodes:     nl.Len(),
			RareNodes:      rare.Count,
			RarePercentage: types.RarePercent(rare.Count, nl.Len()),
		}
		out.vectors = append(out.vectors, rec)
		Infof("[%s] N=%5d: %d/%d nodes (%.2f%%) [%dms]", nl.Name, n, rec.RareNodes, rec.TotalNodes, rec.RarePercentage, time.Since(start).Milliseconds())
	}
	return out, nil
}

// ErrNoCircuits is returned by RunAndWrite when every benchmark was skipped.
var ErrNoCircuits = errors.New("no benchmark could be simulated")

// RunAndWrite runs the plan and writes both CSV datasets to the plan's output paths.
func (r *Runner) RunAndWrite(ctx context.Context) (*Result, error) {
	res, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Thresholds) == 0 && len(res.Vectors) == 0 {
		return res, ErrNoCircuits
	}
	if len(r.Plan.Thresholds) > 0 {
		if err := WriteThresholdCSV(r.Plan.ThresholdCSV, res.Thresholds); err != nil {
			return res, err
		}
		Infof("Results saved to: %s", r.Plan.ThresholdCSV)
	}
	if len(r.Plan.VectorCounts) > 0 {
		if err := WriteVectorCSV(r.Plan.VectorCSV, res.Vectors); err != nil {
			return res, err
		}
		Infof("Results saved to: %s", r.Plan.VectorCSV)
	}
	return res, nil
}
