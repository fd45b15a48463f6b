package main

import (
	"flag"
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/realnvp/internal/backend/cpu"
)

// Backend is the compute backend used by every command.
type Backend = *cpu.CPUBackend

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "realnvp",
		Short:         "RealNVP normalizing flows on the CPU",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// klog flags (-v, --logtostderr, ...) on every command.
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newSampleCmd(),
		newLogProbCmd(),
		newCheckCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "realnvp %s\n", version)
		},
	}
}
