package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aufaim/portfoliochat/internal/render"
)

func newProjectsCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the portfolio projects",
		Long: `Fetch the project list and print it as cards.

Use --json to print the list as JSON, for example to pipe it into jq.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(deps, flags, false)
			if err != nil {
				return err
			}
			defer a.close()

			client, err := deps.NewProjects(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create projects client: %w", err)
			}

			decorated := deps.StdoutTTY() && !jsonOutput
			var spin *spinner
			if decorated {
				spin = newSpinner(cmd.ErrOrStderr(), "Loading projects")
				spin.start()
			}

			projects, err := client.FetchProjects(cmd.Context())
			if err != nil {
				if spin != nil {
					spin.stopWithError()
				}
				return fmt.Errorf("failed to load projects: %w", err)
			}
			if spin != nil {
				spin.stopWithSuccess(fmt.Sprintf("%d projects", len(projects)))
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				data, err := json.MarshalIndent(projects, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode projects: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			width := 80
			if decorated {
				width = getTerminalWidth()
			}
			fmt.Fprintln(out, render.ProjectCards(projects, width))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the project list as JSON")
	return cmd
}
