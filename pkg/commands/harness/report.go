package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/aptos-raffle-harness/operations"
	"github.com/smartcontractkit/aptos-raffle-harness/workflow"
)

// Report is the record of one scenario run.
type Report struct {
	Network    string                        `json:"network"`
	Summary    workflow.Summary              `json:"summary"`
	Operations []operations.Report[any, any] `json:"operations"`
	Error      string                        `json:"error,omitempty"`
}

// SaveReport writes report to path as JSON when path ends in .json and as YAML otherwise.
//
// The YAML document is converted from the JSON encoding so that both formats share field names
// and the representation of addresses and versions.
func SaveReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		var doc any
		if err = json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to convert report: %w", err)
		}
		if data, err = yaml.Marshal(doc); err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0o600)
}

// writeResults renders the step results as a table.
func writeResults(w io.Writer, results []workflow.StepResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Step", "Outcome", "Tx"})
	table.SetAutoWrapText(false)
	for i, r := range results {
		table.Append([]string{fmt.Sprint(i + 1), r.Step, r.Outcome(), r.TxHash})
	}
	table.Render()
}
