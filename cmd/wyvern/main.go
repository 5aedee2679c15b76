package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wyvern-compute/wyvern/builder"
	"github.com/wyvern-compute/wyvern/program"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "wyvern",
		Short: "Inspect serialized wyvern program documents",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			builder.SetLogger(logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	showCmd := &cobra.Command{
		Use:   "show <program.json>",
		Short: "Print a summary of a program document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			show(p)
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <program.json>",
		Short: "Run structural checks on a program document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			fmt.Printf("%s: ok (%d symbols, %d root operations)\n",
				args[0], len(p.Symbols), len(p.Operations))
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <program.json>",
		Short: "Browse a program document interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(args[0])
		},
	}

	rootCmd.AddCommand(showCmd, validateCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadProgram(path string) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	p, err := program.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

func show(p *program.Program) {
	fmt.Printf("Symbols: %d\n", len(p.Symbols))
	fmt.Printf("Storage entries: %d\n", len(p.Storage))
	fmt.Printf("Inputs: %d\n", len(p.Input))
	fmt.Printf("Outputs: %d\n", len(p.Output))
	fmt.Printf("Root operations: %d\n", len(p.Operations))

	if len(p.Input) > 0 {
		fmt.Printf("\nInput directory:\n")
		for _, line := range directoryLines(p.Input, p) {
			fmt.Printf("  %s\n", line)
		}
	}
	if len(p.Output) > 0 {
		fmt.Printf("\nOutput directory:\n")
		for _, line := range directoryLines(p.Output, p) {
			fmt.Printf("  %s\n", line)
		}
	}

	if len(p.Operations) > 0 {
		fmt.Printf("\nOperations:\n")
		for _, line := range operationLines(p.Operations, 1) {
			fmt.Println(line)
		}
	}
}

func directoryLines(dir map[string]program.Token, p *program.Program) []string {
	names := make([]string, 0, len(dir))
	for name := range dir {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		tid := dir[name]
		desc := "?"
		if sym, ok := p.Symbols[tid]; ok {
			desc = fmt.Sprintf("%s %s", sym.Kind, sym.Type)
		}
		lines = append(lines, fmt.Sprintf("%-16s -> t%d (%s)", name, tid, desc))
	}
	return lines
}

// operationLines renders an operation list as indented text, one line per
// record, descending into control-flow bodies.
func operationLines(ops program.OpList, depth int) []string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	for _, op := range ops {
		switch o := op.(type) {
		case *program.Binary:
			lines = append(lines, fmt.Sprintf("%s%s t%d = t%d, t%d", indent, o.Op, o.Result, o.LHS, o.RHS))
		case *program.Unary:
			lines = append(lines, fmt.Sprintf("%s%s t%d = t%d", indent, o.Op, o.Result, o.Operand))
		case *program.Constant:
			lines = append(lines, fmt.Sprintf("%sConstant t%d = %s", indent, o.Result, o.Value))
		case *program.Load:
			lines = append(lines, fmt.Sprintf("%sLoad t%d = t%d", indent, o.Result, o.Var))
		case *program.Store:
			lines = append(lines, fmt.Sprintf("%sStore t%d <- t%d", indent, o.Var, o.Value))
		case *program.ArrayNew:
			lines = append(lines, fmt.Sprintf("%sArrayNew t%d size=t%d %s max=%d shared=%v",
				indent, o.Array, o.Size, o.Elem, o.MaxSize, o.Shared))
		case *program.ArrayStore:
			lines = append(lines, fmt.Sprintf("%sArrayStore t%d[t%d] <- t%d", indent, o.Array, o.Index, o.Value))
		case *program.ArrayLoad:
			lines = append(lines, fmt.Sprintf("%sArrayLoad t%d = t%d[t%d]", indent, o.Result, o.Array, o.Index))
		case *program.ArrayLen:
			lines = append(lines, fmt.Sprintf("%sArrayLen t%d = len(t%d)", indent, o.Result, o.Array))
		case *program.Nullary:
			lines = append(lines, fmt.Sprintf("%s%s t%d", indent, o.Op, o.Result))
		case *program.If:
			lines = append(lines, fmt.Sprintf("%sIf cond=t%d L%d L%d", indent, o.CondSlot, o.CondEnd, o.ThenEnd))
			lines = append(lines, fmt.Sprintf("%s  cond:", indent))
			lines = append(lines, operationLines(o.Cond, depth+2)...)
			lines = append(lines, fmt.Sprintf("%s  then:", indent))
			lines = append(lines, operationLines(o.Then, depth+2)...)
		case *program.IfElse:
			lines = append(lines, fmt.Sprintf("%sIfElse cond=t%d L%d L%d L%d",
				indent, o.CondSlot, o.CondEnd, o.ThenEnd, o.ElseEnd))
			lines = append(lines, fmt.Sprintf("%s  cond:", indent))
			lines = append(lines, operationLines(o.Cond, depth+2)...)
			lines = append(lines, fmt.Sprintf("%s  then:", indent))
			lines = append(lines, operationLines(o.Then, depth+2)...)
			lines = append(lines, fmt.Sprintf("%s  else:", indent))
			lines = append(lines, operationLines(o.Else, depth+2)...)
		case *program.While:
			lines = append(lines, fmt.Sprintf("%sWhile L%d cond=t%d L%d L%d",
				indent, o.Head, o.CondSlot, o.CondEnd, o.Exit))
			lines = append(lines, fmt.Sprintf("%s  cond:", indent))
			lines = append(lines, operationLines(o.Cond, depth+2)...)
			lines = append(lines, fmt.Sprintf("%s  body:", indent))
			lines = append(lines, operationLines(o.Body, depth+2)...)
		default:
			lines = append(lines, fmt.Sprintf("%s%s", indent, op.Tag()))
		}
	}
	return lines
}
