package sim

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/<scenario-name>.golden.
//
// To regenerate golden files:
//
//	go test ./internal/sim -update
func RunWithGolden(t *testing.T, r *Runner, sc *Scenario) *Result {
	t.Helper()

	res, err := r.Run(sc)
	if err != nil {
		t.Fatalf("scenario %q failed: %v", sc.Name, err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		t.Fatalf("marshal trace: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, sc.Name, data)
	return res
}
