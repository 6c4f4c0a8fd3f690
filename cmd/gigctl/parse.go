package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harx/gig-wizard-api/internal/service"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [text...]",
		Short: "Print the heuristic gig suggestion for a job description",
		Long:  `Runs the offline keyword parser. Pass the description as arguments, or "-" to read stdin.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("description is empty")
			}

			parser, err := service.LoadHeuristicParser()
			if err != nil {
				return err
			}
			suggestion := parser.Parse(text)
			service.SanitizeSuggestion(&suggestion)

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			return out.Encode(suggestion)
		},
	}
}
