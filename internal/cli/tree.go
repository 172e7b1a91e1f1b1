// pattern: Imperative Shell
package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dia/internal/command"
	"dia/internal/config"
	"dia/internal/fanout"
	"dia/internal/process"
	"dia/internal/project"
)

// executeFunc runs a job and records its exit code. echo is printed before
// the job starts.
type executeFunc func(cmd *cobra.Command, job process.Job, echo string) error

// treeBuilder maps a project tree onto cobra commands.
type treeBuilder struct {
	ctx      Context
	settings config.Config
	execute  executeFunc
}

// Root builds the root command. The root project is not a subcommand: its
// children and commands are registered at the top level.
func (b *treeBuilder) Root(tree project.Project) *cobra.Command {
	root := &cobra.Command{
		Use:           b.settings.ToolName,
		Short:         "Run commands across the projects of a repository",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE:          requireSubcommand,
	}
	root.PersistentFlags().String("cwd", "", "directory to build the project tree from")

	if tree.Enabled {
		b.addProjectCommands(root, tree)
	}
	if b.ctx.IsGitRoot() {
		root.AddCommand(b.allCommand(tree))
	}
	return root
}

func (b *treeBuilder) addProjectCommands(parent *cobra.Command, p project.Project) {
	for _, child := range p.Children {
		if child.Enabled {
			parent.AddCommand(b.projectCommand(child))
		}
	}

	commands := command.Normalize(p.Commands)
	for _, key := range slices.Sorted(maps.Keys(commands)) {
		parent.AddCommand(b.leaf(key, commands[key]))
	}
	parent.AddCommand(b.runCommand(p))
}

func (b *treeBuilder) projectCommand(p project.Project) *cobra.Command {
	cmd := &cobra.Command{
		Use:     p.Name,
		Short:   b.rel(p.Path),
		Aliases: project.Aliases(p, b.ctx.CurrPath),
		RunE:    requireSubcommand,
	}
	b.addProjectCommands(cmd, p)
	return cmd
}

func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return cmd.Help()
}

// leaf registers one command. Templates get typed flags and positionals;
// everything else passes its arguments through untouched.
func (b *treeBuilder) leaf(key string, cmd project.CommandAndPath) *cobra.Command {
	if tpl, ok := cmd.Spec.(config.Templated); ok {
		return b.templateLeaf(key, tpl, cmd.Path)
	}
	return &cobra.Command{
		Use:                key + " [args...]",
		Short:              command.Describe(cmd.Spec),
		DisableFlagParsing: true,
		RunE: func(c *cobra.Command, args []string) error {
			args = command.ResolveArgs(b.ctx.RootPath, args)
			job := process.Job{Spec: cmd.Spec, Dir: cmd.Path, Args: args}
			return b.execute(c, job, command.Describe(cmd.Spec))
		},
	}
}

func (b *treeBuilder) templateLeaf(key string, tpl config.Templated, dir string) *cobra.Command {
	use := []string{key}
	scalars, variadic := 0, false
	for _, a := range tpl.Args {
		if a.Type == config.TypeArray {
			use = append(use, "["+a.Name+"...]")
			variadic = true
			continue
		}
		use = append(use, "<"+a.Name+">")
		scalars++
	}

	positional := cobra.ExactArgs(scalars)
	if variadic {
		positional = cobra.MinimumNArgs(scalars)
	}

	c := &cobra.Command{
		Use:   strings.Join(use, " "),
		Short: command.Describe(tpl),
		Args:  positional,
		RunE: func(c *cobra.Command, args []string) error {
			bindings, err := bind(c, tpl, args)
			if err != nil {
				return err
			}
			rendered := command.Render(tpl, dir, bindings)
			job := process.Job{Spec: config.Literal(rendered.Command), Dir: rendered.Dir}
			return b.execute(c, job, rendered.Command)
		},
	}

	flags := c.Flags()
	for _, o := range tpl.Options {
		if flags.Lookup(o.Name) != nil {
			continue
		}
		// pflag panics on shorthands longer than one letter or reused ones.
		short := o.Alias
		if len(short) != 1 || flags.ShorthandLookup(short) != nil {
			short = ""
		}
		switch o.Type {
		case config.TypeArray:
			flags.StringArrayP(o.Name, short, nil, "")
		case config.TypeBoolean:
			flags.BoolP(o.Name, short, false, "")
		case config.TypeNumber:
			flags.Float64P(o.Name, short, 0, "")
		default:
			flags.StringP(o.Name, short, "", "")
		}
		if o.Required {
			_ = c.MarkFlagRequired(o.Name)
		}
	}
	return c
}

// bind collects the values a template is rendered with. Scalar args take
// one positional each in order; a variadic arg takes the rest. Options are
// bound only when set on the command line.
func bind(c *cobra.Command, tpl config.Templated, args []string) (command.Bindings, error) {
	b := command.Bindings{
		Args:    make(map[string][]string),
		Options: make(map[string][]string),
	}

	rest := args
	for _, a := range tpl.Args {
		if a.Type == config.TypeArray {
			if len(rest) > 0 {
				b.Args[a.Name] = rest
			}
			rest = nil
			continue
		}
		if len(rest) == 0 {
			break
		}
		b.Args[a.Name] = rest[:1]
		rest = rest[1:]
	}

	flags := c.Flags()
	for _, o := range tpl.Options {
		if !flags.Changed(o.Name) {
			continue
		}
		switch o.Type {
		case config.TypeArray:
			v, err := flags.GetStringArray(o.Name)
			if err != nil {
				return b, err
			}
			b.Options[o.Name] = v
		case config.TypeBoolean:
			v, err := flags.GetBool(o.Name)
			if err != nil {
				return b, err
			}
			b.Options[o.Name] = []string{strconv.FormatBool(v)}
		case config.TypeNumber:
			v, err := flags.GetFloat64(o.Name)
			if err != nil {
				return b, err
			}
			b.Options[o.Name] = []string{strconv.FormatFloat(v, 'f', -1, 64)}
		default:
			v, err := flags.GetString(o.Name)
			if err != nil {
				return b, err
			}
			b.Options[o.Name] = []string{v}
		}
	}
	return b, nil
}

// runCommand runs an arbitrary shell command in the project directory. A
// name the project declares runs that command instead.
func (b *treeBuilder) runCommand(p project.Project) *cobra.Command {
	return &cobra.Command{
		Use:                "run [shell...]",
		Short:              "run a shell command in " + b.rel(p.Path),
		DisableFlagParsing: true,
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.Help()
			}
			resolved, _ := command.Resolve(args[0], p.Commands, p.Path)
			if _, ok := resolved.Spec.(config.Templated); ok {
				return fmt.Errorf("%s takes arguments; run it as \"%s\"", args[0], strings.TrimSpace(c.Parent().CommandPath()+" "+args[0]))
			}
			job := process.Job{
				Spec: resolved.Spec,
				Dir:  resolved.Path,
				Args: command.ResolveArgs(b.ctx.RootPath, args[1:]),
			}
			return b.execute(c, job, command.Describe(resolved.Spec))
		},
	}
}

// allCommand fans a command out to every project that has it. The root
// project's own commands do not take part.
func (b *treeBuilder) allCommand(tree project.Project) *cobra.Command {
	var panes, sequence bool
	c := &cobra.Command{
		Use:   "all <command> [-- args...]",
		Short: "run command in all projects that have it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			scope := tree
			scope.Commands = nil
			job, err := fanout.Plan(scope, fanout.Request{
				Tool:     b.settings.ToolName,
				GitRoot:  b.ctx.GitRoot,
				Command:  args[0],
				Args:     args[1:],
				Panes:    panes,
				Sequence: sequence,
			})
			if err != nil {
				return err
			}
			return b.execute(c, job, command.Describe(job.Spec))
		},
	}
	c.Flags().BoolVarP(&panes, "panes", "p", false, "run command in all projects with split panes")
	c.Flags().BoolVarP(&sequence, "sequence", "s", false, "run command in all projects in sequence")
	return c
}

func (b *treeBuilder) rel(path string) string {
	return relPath(b.ctx.GitRoot, path)
}
