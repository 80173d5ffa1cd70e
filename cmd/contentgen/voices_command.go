package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contentgen/internal/services/elevenlabs"
	"contentgen/internal/services/minimax"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:         "voices",
		Short:       "List built-in narrator voices",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if provider == "" || provider == "elevenlabs" {
				rows := make([][]string, 0)
				for _, voice := range elevenlabs.Voices() {
					rows = append(rows, []string{voice.ID, voice.Name, voice.Description})
				}
				fmt.Fprintln(out, "ElevenLabs:")
				fmt.Fprintln(out, renderTable([]string{"Voice ID", "Name", "Description"}, rows))
			}
			if provider == "" || provider == "minimax" {
				rows := make([][]string, 0)
				for _, voice := range minimax.Voices() {
					rows = append(rows, []string{voice.ID, voice.Name, voice.Description})
				}
				fmt.Fprintln(out, "MiniMax:")
				fmt.Fprintln(out, renderTable([]string{"Voice ID", "Name", "Description"}, rows))
			}
			if provider != "" && provider != "elevenlabs" && provider != "minimax" {
				return fmt.Errorf("unknown provider %q (use elevenlabs or minimax)", provider)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Limit to one provider")
	return cmd
}
