// Package cli implements xpathctl's command tree, following the same
// router-of-verbs shape as the teacher's main.go (fmt/json/csv/query/
// soap/call) but built on cobra rather than a bare os.Args switch, the
// way termfx-morfx's demo CLI wires its own subcommands.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-xpath/xpath"
)

// Execute builds and runs the root command, returning the process exit
// code the caller should pass to os.Exit.
func Execute() int {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "xpathctl",
		Short: "xpathctl - an XPath 1.0/2.0/3.0/3.1 query tool",
		Long:  "xpathctl parses and evaluates XPath expressions against XML documents.",
	}

	var version string
	var verbose bool
	root.PersistentFlags().StringVarP(&version, "xpath-version", "x", "3.1", "XPath grammar version (1.0, 2.0, 3.0, 3.1)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log parser/evaluator trace output")

	root.AddCommand(
		newEvalCommand(&version, &verbose),
		newParseCommand(&version, &verbose),
		newReplCommand(&version, &verbose),
	)
	return root
}

func staticOptions(versionFlag string, verbose bool, ns map[string]string) (xpath.Version, []xpath.StaticOption) {
	v := xpath.Version(versionFlag)
	opts := []xpath.StaticOption{}
	if verbose {
		opts = append(opts, xpath.WithLogger(xpath.StdLogger{Prefix: "[xpathctl] "}))
	}
	for prefix, uri := range ns {
		opts = append(opts, xpath.WithNamespace(prefix, uri))
	}
	return v, opts
}

// nsFlag accumulates repeated --ns prefix=uri flags into a map.
type nsFlag struct{ m map[string]string }

func (n *nsFlag) String() string { return "" }
func (n *nsFlag) Set(v string) error {
	prefix, uri, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected prefix=uri, got %q", v)
	}
	if n.m == nil {
		n.m = map[string]string{}
	}
	n.m[prefix] = uri
	return nil
}
func (n *nsFlag) Type() string { return "prefix=uri" }

func newEvalCommand(versionFlag *string, verbose *bool) *cobra.Command {
	var file string
	ns := &nsFlag{}

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an XPath expression against an XML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(file)
			if err != nil {
				return err
			}
			v, opts := staticOptions(*versionFlag, *verbose, ns.m)
			sc := xpath.NewStaticContext(v, opts...)
			dcOpts := []xpath.DynamicOption{}
			if doc != nil {
				dcOpts = append(dcOpts, xpath.WithContextItem(doc))
			}
			dc := xpath.NewDynamicContext(sc, dcOpts...)

			seq, err := xpath.Evaluate(context.Background(), args[0], dc)
			if err != nil {
				return err
			}
			printSequence(cmd.OutOrStdout(), seq)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "XML document to evaluate against (omit for a document-less expression)")
	cmd.Flags().VarP(ns, "ns", "n", "namespace binding prefix=uri, may be repeated")
	return cmd
}

func newParseCommand(versionFlag *string, verbose *bool) *cobra.Command {
	ns := &nsFlag{}
	cmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse an XPath expression and report syntax errors without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, opts := staticOptions(*versionFlag, *verbose, ns.m)
			sc := xpath.NewStaticContext(v, opts...)
			if _, err := xpath.Parse(args[0], sc); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().VarP(ns, "ns", "n", "namespace binding prefix=uri, may be repeated")
	return cmd
}

func newReplCommand(versionFlag *string, verbose *bool) *cobra.Command {
	var file string
	ns := &nsFlag{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read-eval-print loop over an optional XML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(file)
			if err != nil {
				return err
			}
			v, opts := staticOptions(*versionFlag, *verbose, ns.m)
			sc := xpath.NewStaticContext(v, opts...)

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "xpath> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					fmt.Fprint(out, "xpath> ")
					continue
				}
				if line == "quit" || line == "exit" {
					break
				}
				dcOpts := []xpath.DynamicOption{}
				if doc != nil {
					dcOpts = append(dcOpts, xpath.WithContextItem(doc))
				}
				dc := xpath.NewDynamicContext(sc, dcOpts...)
				seq, err := xpath.Evaluate(context.Background(), line, dc)
				if err != nil {
					fmt.Fprintln(out, err)
				} else {
					printSequence(out, seq)
				}
				fmt.Fprint(out, "xpath> ")
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "XML document to hold in context through the session")
	cmd.Flags().VarP(ns, "ns", "n", "namespace binding prefix=uri, may be repeated")
	return cmd
}

func loadDocument(path string) (*xpath.Node, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return xpath.LoadXML(f, xpath.WithBaseURI(path))
}

func printSequence(w io.Writer, seq xpath.Sequence) {
	if seq.IsEmpty() {
		fmt.Fprintln(w, "()")
		return
	}
	for _, item := range seq {
		fmt.Fprintln(w, item.StringValue())
	}
}
