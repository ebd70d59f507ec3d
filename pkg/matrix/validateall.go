package matrix

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/arthur-debert/strata/pkg/compose"
	"github.com/arthur-debert/strata/pkg/config"
	"github.com/arthur-debert/strata/pkg/layer"
	"github.com/arthur-debert/strata/pkg/logging"
	"github.com/arthur-debert/strata/pkg/manifest"
)

// Outcome records one configuration's compose result. Err is nil on
// success.
type Outcome struct {
	Config config.Config
	Files  int
	Err    error
}

// Report is the batch result of ValidateAll, keyed by configuration and
// sorted by canonical key so it reads the same regardless of worker
// scheduling
type Report struct {
	Outcomes []Outcome
}

// Failures returns the outcomes whose compose failed
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// OK reports whether every configuration composed cleanly
func (r *Report) OK() bool {
	return len(r.Failures()) == 0
}

// ValidateAll composes the layer set once per legal configuration and
// collects every outcome. One configuration's failure is recorded and does
// not stop the rest of the batch.
//
// The merged manifest is built once and shared read-only across workers;
// per-configuration composition is pure, so no locking is needed beyond
// the result slice. workers <= 0 means one worker per CPU.
func ValidateAll(schema config.Schema, rules []config.Rule, set layer.Set, workers int) (*Report, error) {
	logger := logging.GetLogger("matrix.validateall")
	start := time.Now()

	configs, err := Enumerate(schema, rules)
	if err != nil {
		return nil, err
	}

	// A merge failure is configuration-independent: it fails the whole
	// batch, not one combination.
	m, err := manifest.Merge(set)
	if err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(configs) {
		workers = len(configs)
	}

	outcomes := make([]Outcome, len(configs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				cfg := configs[i]
				tree, err := compose.FromManifest(cfg, m)
				outcome := Outcome{Config: cfg, Err: err}
				if err == nil {
					outcome.Files = len(tree.Files)
				}
				outcomes[i] = outcome
			}
		}()
	}
	for i := range configs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Config.Key() < outcomes[j].Config.Key()
	})

	report := &Report{Outcomes: outcomes}
	logger.Info().
		Int("configurations", len(configs)).
		Int("failures", len(report.Failures())).
		Dur("duration", time.Since(start)).
		Msg("Matrix validation finished")

	return report, nil
}
