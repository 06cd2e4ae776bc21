// Command rsjsonnet evaluates and manifests a Jsonnet program, per
// spec.md §6's CLI surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	os.Exit(mainRun())
}

// mainRun builds the root command, executes it, and returns the process
// exit code. Kept out of main so os.Exit is the only exit path, letting
// klog.Flush run first.
func mainRun() int {
	exitCode := exitOK
	o := NewOptions()

	cmd := &cobra.Command{
		Use:           "rsjsonnet [OPTIONS] <filename>",
		Short:         "Evaluate and manifest a Jsonnet program.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(_ *cobra.Command, args []string) error {
			o.Filename = args[0]
			exitCode = run(o)
			return nil
		},
	}
	o.AddFlags(cmd)

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.Flags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(versionCommand())

	if err := cmd.Execute(); err != nil {
		return exitUsage
	}
	klog.Flush()
	return exitCode
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("rsjsonnet (development build)")
			klog.Flush()
		},
	}
}
