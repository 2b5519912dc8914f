package cmd

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/eventstack/rollcall/pkg/errors"
)

// getCmd prints one stored record.
var getCmd = &cobra.Command{
	Use:   "get <participant-id>",
	Short: "Print one stored participant record as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// listCmd prints every stored record.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all stored participant records as YAML",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	rc, err := newRollcall()
	if err != nil {
		return err
	}

	record, ok := rc.Participant(args[0])
	if !ok {
		return errors.NewNotFoundError("participant", args[0])
	}

	out, err := yaml.Marshal(record.AsMap())
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	rc, err := newRollcall()
	if err != nil {
		return err
	}

	for _, record := range rc.Participants() {
		out, err := yaml.Marshal(record.AsMap())
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", record.ParticipantID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "---\n%s", string(out))
	}
	return nil
}
