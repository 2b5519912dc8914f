package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/eventstack/rollcall/pkg/reconcile"
)

// applyCmd submits a batch from a file on disk.
var applyCmd = &cobra.Command{
	Use:   "apply <batch-file>",
	Short: "Apply a batch of participant records from a YAML or JSON file",
	Long: `Apply reads a batch file, runs it through the reconciliation engine
and prints the aggregate result. The file holds an optional batchId and
source plus a non-empty participants array:

  batchId: b-2024-09-01
  source: crm-export
  participants:
    - participantId: p-1
      firstName: Ann
      lastName: Lee
      email: ann@example.com

A batch either fully applies or leaves the store untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading batch file: %w", err)
	}

	var batch reconcile.Batch
	if strings.HasSuffix(args[0], ".json") {
		err = json.Unmarshal(data, &batch)
	} else {
		err = yaml.Unmarshal(data, &batch)
	}
	if err != nil {
		return fmt.Errorf("decoding batch file %s: %w", args[0], err)
	}

	rc, err := newRollcall()
	if err != nil {
		return err
	}

	result, applyErr := rc.Apply(cmd.Context(), batch)

	out, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))

	return applyErr
}
