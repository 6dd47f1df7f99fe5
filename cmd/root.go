package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL  string
	timeout time.Duration
	verbose bool
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "fid",
		Short:         "Face ID CLI (fid): identify faces and enroll subjects",
		Long:          "fid drives a face-recognition server from the terminal: identify or analyze a frame, enroll a subject from five guided poses, and list enrolled subjects.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "Recognition API base URL (default "+defaultAPIBaseURL+")")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (default "+defaultAPITimeout.String()+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newIdentifyCmd(opts),
		newAnalyzeCmd(opts),
		newEnrollCmd(opts),
		newSubjectsCmd(opts),
		newUICmd(opts),
	)

	return rootCmd
}
