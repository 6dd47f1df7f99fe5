package cmd

import "github.com/spf13/cobra"

type frameOptions struct {
	file string
	dir  string
}

func (o frameOptions) path() string {
	if o.file != "" {
		return o.file
	}
	return o.dir
}

func addFrameFlags(cmd *cobra.Command, opts *frameOptions, required bool) {
	cmd.Flags().StringVar(&opts.file, "frame", "", "Image file to use as the camera frame")
	cmd.Flags().StringVar(&opts.dir, "frames", "", "Directory of images used as successive camera frames")
	cmd.MarkFlagsMutuallyExclusive("frame", "frames")
	if required {
		cmd.MarkFlagsOneRequired("frame", "frames")
	}
}
