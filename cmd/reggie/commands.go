package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/reggie"
	"github.com/kolkov/reggie/ast"
	"github.com/kolkov/reggie/cst"
	"github.com/kolkov/reggie/engine"
	"github.com/kolkov/reggie/internal/parser"
)

func (c *cli) parseCommand() *cobra.Command {
	var showCST bool
	cmd := &cobra.Command{
		Use:   "parse PATTERN",
		Short: "Print the syntax tree of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showCST {
				tree, err := parser.Parse(args[0])
				if err != nil {
					return xerrors.Errorf("invalid pattern %q: %w", args[0], err)
				}
				return cst.Fprint(cmd.OutOrStdout(), tree)
			}
			p, err := c.parse(args[0], nil)
			if err != nil {
				return err
			}
			return ast.Fdump(cmd.OutOrStdout(), p.AST())
		},
	}
	cmd.Flags().BoolVar(&showCST, "cst", false, "Print the concrete parse tree instead of the AST")
	return cmd
}

func (c *cli) fmtCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt PATTERN",
		Short: "Print a pattern in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.parse(args[0], nil)
			if err != nil {
				return err
			}
			fprintln(cmd, p.String())
			return nil
		},
	}
}

// report is the output of the analyze command.
type report struct {
	Pattern   string        `yaml:"pattern"`
	Canonical string        `yaml:"canonical"`
	Flags     string        `yaml:"flags,omitempty"`
	MinLength int           `yaml:"min_length"`
	MaxLength *int          `yaml:"max_length"`
	Finite    bool          `yaml:"finite"`
	Groups    []groupReport `yaml:"groups"`
	Warnings  []string      `yaml:"warnings,omitempty"`
}

type groupReport struct {
	Number int    `yaml:"number"`
	Name   string `yaml:"name,omitempty"`
	Text   string `yaml:"text"`
	At     string `yaml:"at"`
}

func newReport(p *reggie.Pattern) report {
	r := report{
		Pattern:   p.Source(),
		Canonical: p.String(),
		Flags:     p.AST().Flags.Codes(),
		MinLength: p.MinMatchLen(),
		Finite:    p.IsFinite(),
		Groups:    []groupReport{},
		Warnings:  p.Warnings(),
	}
	if n, ok := p.MaxMatchLen(); ok {
		r.MaxLength = &n
	}
	for i := 1; i <= p.GroupsCount(); i++ {
		node, _ := p.Group(i)
		g := node.(*ast.Group)
		r.Groups = append(r.Groups, groupReport{
			Number: i,
			Name:   g.Name,
			Text:   ast.String(g),
			At:     g.Pos().String(),
		})
	}
	return r
}

func (c *cli) analyzeCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "analyze PATTERN",
		Short: "Report length bounds, finiteness and capture groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.parse(args[0], nil)
			if err != nil {
				return err
			}
			r := newReport(p)
			switch output {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(r); err != nil {
					return xerrors.Errorf("unable to encode report: %w", err)
				}
				return enc.Close()
			case "text":
				writeReport(cmd.OutOrStdout(), r)
				return nil
			default:
				return xerrors.Errorf("unsupported value %q for --output", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", `Output format ("text", "yaml")`)
	return cmd
}

func writeReport(w io.Writer, r report) {
	var sb strings.Builder
	line := func(key, value string) {
		sb.WriteString(key)
		sb.WriteString(strings.Repeat(" ", 12-len(key)))
		sb.WriteString(value)
		sb.WriteByte('\n')
	}
	line("pattern", r.Pattern)
	line("canonical", r.Canonical)
	if r.Flags != "" {
		line("flags", r.Flags)
	}
	line("min length", itoa(r.MinLength))
	if r.MaxLength != nil {
		line("max length", itoa(*r.MaxLength))
	} else {
		line("max length", "unbounded")
	}
	line("finite", boolString(r.Finite))
	line("groups", itoa(len(r.Groups)))
	for _, g := range r.Groups {
		label := "#" + itoa(g.Number)
		if g.Name != "" {
			label += " " + g.Name
		}
		line("  "+label, g.Text+" @"+g.At)
	}
	for _, warning := range r.Warnings {
		line("warning", warning)
	}
	io.WriteString(w, sb.String())
}

// dialectValue adapts engine.Dialect to a command-line flag.
type dialectValue engine.Dialect

var _ pflag.Value = (*dialectValue)(nil)

func (d *dialectValue) String() string { return engine.Dialect(*d).String() }
func (d *dialectValue) Type() string   { return "dialect" }

func (d *dialectValue) Set(s string) error {
	parsed, err := engine.ParseDialect(s)
	if err != nil {
		return err
	}
	*d = dialectValue(parsed)
	return nil
}

func (c *cli) matchCommand() *cobra.Command {
	var (
		dialect  dialectValue
		submatch bool
	)
	cmd := &cobra.Command{
		Use:   "match PATTERN [FILE]",
		Short: "Print input lines that contain a match",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.parse(args[0], &reggie.Config{Dialect: engine.Dialect(dialect)})
			if err != nil {
				return err
			}
			m, err := p.Matcher()
			if err != nil {
				return xerrors.Errorf("unable to compile %q: %w", args[0], err)
			}
			c.logger.Sugar().Debugf("matching with %s engine: %s", m.Dialect(), m.String())

			in := cmd.InOrStdin()
			if len(args) == 2 {
				f, err := os.Open(args[1])
				if err != nil {
					return xerrors.Errorf("unable to open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			return matchLines(cmd, m, in, submatch)
		},
	}
	cmd.Flags().Var(&dialect, "dialect", `Matching engine ("auto", "re2", "backtrack")`)
	cmd.Flags().BoolVar(&submatch, "submatch", false, "Print capture groups after each matching line")
	return cmd
}

func matchLines(cmd *cobra.Command, m engine.Matcher, in io.Reader, submatch bool) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if !submatch {
			ok, err := m.MatchString(line)
			if err != nil {
				return err
			}
			if ok {
				fprintln(cmd, line)
			}
			continue
		}
		groups, err := m.FindStringSubmatch(line)
		if err != nil {
			return err
		}
		if groups == nil {
			continue
		}
		fprintln(cmd, line)
		names := m.SubexpNames()
		for i, g := range groups[1:] {
			label := "  " + itoa(i+1)
			if i+1 < len(names) && names[i+1] != "" {
				label += " " + names[i+1]
			}
			fprintln(cmd, label+": "+g)
		}
	}
	if err := scanner.Err(); err != nil {
		return xerrors.Errorf("unable to read input: %w", err)
	}
	return nil
}
