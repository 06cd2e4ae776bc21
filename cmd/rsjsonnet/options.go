package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Options are the configurable parameters of a single rsjsonnet run,
// populated from the command line, per spec.md §6's CLI surface.
type Options struct {
	cmd *cobra.Command

	Filename string
	AsCode   bool // -e: treat Filename as an inline snippet, not a path

	JPath []string // -J, rightmost wins

	OutputFile  string // -o
	MultiDir    string // -m
	YAMLStream  bool   // -y
	StringOut   bool   // -S
	MaxStack    int    // -s
	MaxTrace    int    // -t
	ExtStr      []string // -V var[=val]
	ExtStrFile  []string // --ext-str-file var=file
	ExtCode     []string // --ext-code var[=code]
	ExtCodeFile []string // --ext-code-file var=file
	TlaStr      []string // -A var[=val]
	TlaStrFile  []string // --tla-str-file var=file
	TlaCode     []string // --tla-code var[=code]
	TlaCodeFile []string // --tla-code-file var=file
}

// NewOptions returns a new instance of `Options`.
func NewOptions() *Options {
	return &Options{}
}

// AddFlags populates the Options struct from the command's flag set.
func (o *Options) AddFlags(cmd *cobra.Command) {
	o.cmd = cmd

	flags := cmd.Flags()
	flags.BoolVarP(&o.AsCode, "exec", "e", false, "treat the filename argument as inline Jsonnet code")
	flags.StringArrayVarP(&o.JPath, "jpath", "J", nil, "prepend a library search directory (may be repeated; rightmost wins)")
	flags.StringVarP(&o.OutputFile, "output-file", "o", "", "write output to this file instead of stdout")
	flags.StringVarP(&o.MultiDir, "multi", "m", "", "write multiple files to this directory, keyed by the result object's fields")
	flags.BoolVarP(&o.YAMLStream, "yaml-stream", "y", false, "the result is an array; manifest it as a YAML stream")
	flags.BoolVarP(&o.StringOut, "string", "S", false, "the result is a string; write it raw instead of as JSON")
	flags.IntVarP(&o.MaxStack, "max-stack", "s", 0, "maximum call/force stack depth (0 uses the evaluator's default)")
	flags.IntVarP(&o.MaxTrace, "max-trace", "t", 0, "maximum number of trace lines shown for an error (0 shows all)")

	flags.StringArrayVarP(&o.ExtStr, "ext-str", "V", nil, "external string variable, var=value (reads the environment if =value is omitted)")
	flags.StringArrayVar(&o.ExtStrFile, "ext-str-file", nil, "external string variable, var=file, read from file")
	flags.StringArrayVar(&o.ExtCode, "ext-code", nil, "external variable, var=code (reads the environment if =code is omitted)")
	flags.StringArrayVar(&o.ExtCodeFile, "ext-code-file", nil, "external variable, var=file, code read from file")

	flags.StringArrayVarP(&o.TlaStr, "tla-str", "A", nil, "top-level string argument, var=value (reads the environment if =value is omitted)")
	flags.StringArrayVar(&o.TlaStrFile, "tla-str-file", nil, "top-level string argument, var=file, read from file")
	flags.StringArrayVar(&o.TlaCode, "tla-code", nil, "top-level argument, var=code (reads the environment if =code is omitted)")
	flags.StringArrayVar(&o.TlaCodeFile, "tla-code-file", nil, "top-level argument, var=file, code read from file")
}

// Validate checks for mutually exclusive or otherwise malformed flag
// combinations, independent of evaluating anything.
func (o *Options) Validate() error {
	modes := 0
	if o.YAMLStream {
		modes++
	}
	if o.StringOut {
		modes++
	}
	if o.MultiDir != "" {
		modes++
	}
	if modes > 1 {
		return fmt.Errorf("-y, -S and -m are mutually exclusive")
	}
	if o.MultiDir != "" && o.OutputFile != "" {
		return fmt.Errorf("-o cannot be combined with -m")
	}
	if o.Filename == "" {
		return fmt.Errorf("no input file given")
	}
	return nil
}
