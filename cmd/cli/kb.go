package main

import (
	"dsemotion/adapters/kbfile"
	"dsemotion/domain/knowledge"

	"github.com/spf13/cobra"
)

func newKnowledgeBaseCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Print the active knowledge base as TOML",
		Long: `Print the knowledge base the classifier would use. The output is a valid knowledge
base file; edit it and pass it back with --kb or KNOWLEDGE_BASE_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kb := knowledge.Default()
			if path != "" {
				var err error
				if kb, err = kbfile.Load(path); err != nil {
					return err
				}
			}
			return kbfile.Encode(cmd.OutOrStdout(), kb)
		},
	}

	cmd.Flags().StringVar(&path, "kb", "", "knowledge base TOML file to validate and print")
	return cmd
}
