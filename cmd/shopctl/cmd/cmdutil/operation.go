// Package cmdutil builds cobra commands from dispatch operation descriptors
// so every API action shares one flag, dispatch and rendering path.
package cmdutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/config"
	"github.com/terraconstructs/shopctl/cmd/shopctl/internal/output"
	"github.com/terraconstructs/shopctl/internal/dispatch"
)

// Option customises an operation command.
type Option func(*commandSpec)

// Prepare runs after flags are collected and before dispatch.
type Prepare func(cmd *cobra.Command, args []string, in *dispatch.Input) error

type commandSpec struct {
	use        string
	long       string
	positional string
	prepare    []Prepare
}

// WithUse overrides the command name.
func WithUse(use string) Option {
	return func(s *commandSpec) { s.use = use }
}

// WithLong sets the long help text.
func WithLong(long string) Option {
	return func(s *commandSpec) { s.long = long }
}

// WithPositional fills field from the first positional argument.
func WithPositional(field string) Option {
	return func(s *commandSpec) { s.positional = field }
}

// WithPrepare adds an input hook.
func WithPrepare(fn Prepare) Option {
	return func(s *commandSpec) { s.prepare = append(s.prepare, fn) }
}

// FilterFlag narrows list responses client-side.
const FilterFlag = "filter"

// FlagName maps a wire field name to its flag.
func FlagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// Global returns the configuration injected by the root command.
func Global(cmd *cobra.Command) *config.GlobalConfig {
	return config.MustFromContext(cmd.Context())
}

// Operation returns a command that dispatches the named operation. It panics
// on names missing from the catalog, which is a programming error.
func Operation(name string, opts ...Option) *cobra.Command {
	op, ok := dispatch.Lookup(name)
	if !ok {
		panic("cmdutil: unknown operation " + name)
	}

	spec := commandSpec{use: name[strings.LastIndex(name, ".")+1:]}
	for _, opt := range opts {
		opt(&spec)
	}

	use := spec.use
	args := cobra.NoArgs
	switch {
	case op.HasPathID():
		use += fmt.Sprintf(" [<%s-id>]", op.PathKind)
		args = cobra.MaximumNArgs(1)
	case spec.positional != "":
		use += fmt.Sprintf(" [<%s>]", spec.positional)
		args = cobra.MaximumNArgs(1)
	}

	long := spec.long
	if long == "" {
		long = op.Summary + "."
	}
	if op.HasPathID() {
		long += fmt.Sprintf("\n\nWithout an explicit id the current %s is used (see `shopctl refs show`).", op.PathKind)
	}
	if op.Requirement != dispatch.RequireNone {
		long += fmt.Sprintf("\n\nRequires: %s.", op.Requirement)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: op.Summary,
		Long:  long,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := CollectInput(cmd, op, spec.positional, args)
			if err != nil {
				return err
			}
			for _, fn := range spec.prepare {
				if err := fn(cmd, args, &in); err != nil {
					return err
				}
			}
			return Run(cmd, op.Name, in)
		},
	}
	RegisterFieldFlags(cmd, op.Fields)
	if op.Method == http.MethodGet && !op.Local {
		cmd.Flags().String(FilterFlag, "", `keep list entries matching a go-bexpr expression, e.g. 'status == "pending"'`)
	}
	return cmd
}

// RegisterFieldFlags declares one flag per field. Checkbox fields become
// boolean flags.
func RegisterFieldFlags(cmd *cobra.Command, fields []dispatch.Field) {
	for _, f := range fields {
		usage := f.Usage
		if f.IsBool() {
			def, _ := strconv.ParseBool(f.Default)
			cmd.Flags().Bool(FlagName(f.Name), def, usage)
			continue
		}
		cmd.Flags().String(FlagName(f.Name), f.Default, usage)
	}
}

// CollectInput gathers the flags the operator set. Unset flags are left
// out so the operation's own defaults and partial semantics apply.
func CollectInput(cmd *cobra.Command, op dispatch.Operation, positional string, args []string) (dispatch.Input, error) {
	in := dispatch.Input{Fields: map[string]string{}}
	for _, f := range op.Fields {
		flag := FlagName(f.Name)
		if !cmd.Flags().Changed(flag) {
			continue
		}
		if f.IsBool() {
			v, err := cmd.Flags().GetBool(flag)
			if err != nil {
				return in, err
			}
			in.Fields[f.Name] = strconv.FormatBool(v)
			continue
		}
		v, err := cmd.Flags().GetString(flag)
		if err != nil {
			return in, err
		}
		in.Fields[f.Name] = v
	}

	if len(args) > 0 {
		switch {
		case op.HasPathID():
			in.ID = args[0]
		case positional != "":
			in.Fields[positional] = args[0]
		}
	}
	return in, nil
}

// Run dispatches name and renders the result. A --filter expression is
// compiled before the request is sent; once the call has succeeded, a body
// the filter cannot apply to is shown unfiltered with a warning. Failures
// are returned so the root command reports them and exits non-zero.
func Run(cmd *cobra.Command, name string, in dispatch.Input) error {
	var filter *output.ListFilter
	if f := cmd.Flags().Lookup(FilterFlag); f != nil && f.Changed {
		var err error
		if filter, err = output.CompileFilter(f.Value.String()); err != nil {
			return err
		}
	}

	g := Global(cmd)
	d, err := g.ClientProvider.Dispatcher(cmd.Context())
	if err != nil {
		return err
	}
	res, err := d.Dispatch(cmd.Context(), name, in)
	if err != nil {
		return err
	}
	if filter != nil {
		if body, kept, err := filter.Apply(res.Body); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("filter not applied: %v", err))
		} else {
			res.Body = body
			res.Effects = append(res.Effects, fmt.Sprintf("%d entries match %s", kept, filter))
		}
	}
	g.Printer.Result(res)
	return nil
}
