package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "slidenotes",
		Short:         "Summarize presentations and build quizzes with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: slidenotes.yaml if present)")
	root.PersistentFlags().StringVar(&a.provider, "provider", "", "LLM provider: openai|gemini|noop")
	root.PersistentFlags().StringVar(&a.extractor, "extractor", "", "extraction: service|local or an extraction service URL")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(summarizeCmd(a))
	root.AddCommand(quizCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(historyCmd(a))
	root.AddCommand(themeCmd(a))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
