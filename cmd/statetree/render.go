package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/pkg/dom"
	"github.com/vango-dev/statetree/pkg/protocol"
	"github.com/vango-dev/statetree/pkg/state"
	"github.com/vango-dev/statetree/pkg/template/loader"
)

type renderOptions struct {
	values map[string]any
	child  string
	pretty bool

	// changes receives the splice changes made while assembling the
	// instance, one per line. Nil skips tracking.
	changes io.Writer
}

func renderCmd(a *app) *cobra.Command {
	var (
		assignments []string
		opts        renderOptions
		showChanges bool
	)

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Instantiate a template and print it as HTML",
		Long: `Instantiate a template, set model values and print the HTML seen
through the element API.

Values given with --set are strings, except true and false, which are
booleans so they can switch class bindings. --child instantiates a second
template with the same values and places it in the child slot.

Examples:
  statetree render card.html --set title=Hello --set open=true
  statetree render layout.html --child card.html --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(assignments)
			if err != nil {
				return err
			}
			opts.values = values
			if showChanges {
				opts.changes = cmd.ErrOrStderr()
			}

			l := a.newLoader(prometheus.NewRegistry())
			out, err := renderTemplate(cmd.Context(), l, args[0], opts)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Set a model value (key=value, repeatable)")
	cmd.Flags().StringVar(&opts.child, "child", "", "Template to place in the child slot")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&showChanges, "changes", false, "Print the splice changes to stderr")

	return cmd
}

// parseAssignments turns key=value pairs into model values.
func parseAssignments(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, treeerrors.New(treeerrors.CodeIllegalState).
				WithDetailf("invalid assignment %q", pair).
				WithSuggestion("Use --set key=value")
		}
		values[key] = modelValue(value)
	}
	return values, nil
}

// modelValue maps "true" and "false" to booleans and keeps anything else
// as a string.
func modelValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	default:
		return s
	}
}

// renderTemplate loads name, instantiates it with opts and renders the
// instance.
func renderTemplate(ctx context.Context, l *loader.Loader, name string, opts renderOptions) (string, error) {
	el, err := instantiate(ctx, l, name, opts.values)
	if err != nil {
		return "", err
	}

	if opts.child != "" {
		var tracker *protocol.Tracker
		if opts.changes != nil {
			tm, err := state.Get[*state.TemplateMap](el.Node())
			if err != nil {
				return "", err
			}
			tracker = protocol.NewTracker()
			tracker.Watch(tm)
			defer tracker.Close()
		}

		child, err := instantiate(ctx, l, opts.child, opts.values)
		if err != nil {
			return "", err
		}
		if err := el.SetChildSlot(child); err != nil {
			return "", err
		}

		if tracker != nil {
			if err := writeChanges(opts.changes, tracker.Flush()); err != nil {
				return "", err
			}
		}
	}

	out, err := dom.NewRenderer(dom.RendererConfig{Pretty: opts.pretty, Indent: "  "}).RenderToString(el)
	if err != nil {
		return "", err
	}
	if !opts.pretty {
		out += "\n"
	}
	return out, nil
}

func instantiate(ctx context.Context, l *loader.Loader, name string, values map[string]any) (*dom.Element, error) {
	def, err := l.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	el, err := dom.NewTemplate(def)
	if err != nil {
		return nil, err
	}
	model, err := el.Model()
	if err != nil {
		return nil, err
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		model.SetValue(key, values[key])
	}
	return el, nil
}

func writeChanges(w io.Writer, frame *protocol.ChangesFrame) error {
	if frame == nil {
		return nil
	}
	for _, c := range frame.Changes {
		if _, err := fmt.Fprintf(w, "change %d: %s\n", frame.Seq, c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "frame %d: % x\n", frame.Seq, protocol.EncodeChanges(frame))
	return err
}
