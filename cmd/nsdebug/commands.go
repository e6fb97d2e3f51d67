package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/smallnest/nsdebug/debug"
	"github.com/smallnest/nsdebug/namespace"
	"github.com/smallnest/nsdebug/store"
	"github.com/spf13/cobra"
)

func newMatchCmd(a *app) *cobra.Command {
	var patterns string
	cmd := &cobra.Command{
		Use:   "match NAME...",
		Short: "Report whether names are enabled",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("patterns") {
				var err error
				if patterns, err = store.Latest(cmd.Context(), a.store); err != nil {
					return err
				}
			}
			set := namespace.Compile(patterns)
			for _, name := range args {
				state := "disabled"
				if set.Enabled(name) {
					state = "enabled"
				}
				printf(cmd, "%s %s\n", name, state)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&patterns, "patterns", "p", "", "Enable-string to match against instead of the stored one")
	return cmd
}

func newColorCmd(a *app) *cobra.Command {
	var extended bool
	cmd := &cobra.Command{
		Use:   "color NAME...",
		Short: "Show the color each name is printed in",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			palette := debug.BasicPalette
			if extended || a.cfg.Output.ExtendedColors {
				palette = debug.ExtendedPalette
			}
			r := lipgloss.NewRenderer(cmd.OutOrStdout())
			for _, name := range args {
				idx := debug.ColorIndex(name, len(palette))
				code := palette[idx]
				style := r.NewStyle().Bold(true).Foreground(lipgloss.Color(strconv.Itoa(code)))
				printf(cmd, "%s %d %d\n", style.Render(name), idx, code)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&extended, "extended", false, "Use the 256-color palette")
	return cmd
}

func newEnableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enable PATTERNS...",
		Short: "Replace the enabled namespaces",
		Long: `Replace the enabled namespaces. Several arguments are joined with commas.

Patterns use '*' as a wildcard and a leading '-' to exclude:
  nsdebug enable 'app:*' -- -app:verbose`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.warnEnvStore(cmd)
			reg := a.registry(cmd)
			reg.Enable(strings.Join(args, ","))
			return a.report(cmd, reg)
		},
	}
}

func newDisableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable every namespace and print what was enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.warnEnvStore(cmd)
			reg := a.registry(cmd)
			printf(cmd, "%s\n", reg.Disable())
			latest, err := store.Latest(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			if latest != "" {
				return errors.New("failed to persist namespaces, see the log output")
			}
			return nil
		},
	}
}

// report checks the enable-string reached the store and prints it.
func (a *app) report(cmd *cobra.Command, reg *debug.Registry) error {
	latest, err := store.Latest(cmd.Context(), a.store)
	if err != nil {
		return err
	}
	if latest != reg.Namespaces() {
		return errors.New("failed to persist namespaces, see the log output")
	}
	printf(cmd, "namespaces: %s\n", latest)
	return nil
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the enabled namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			latest, err := store.Latest(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			set := namespace.Compile(latest)
			printf(cmd, "namespaces: %s\n", latest)
			printf(cmd, "enabled:    %s\n", strings.Join(set.Positives(), ", "))
			printf(cmd, "excluded:   %s\n", strings.Join(set.Negatives(), ", "))
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved enable-strings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := a.store.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tTIME\tID\tNAMESPACES")
			for _, s := range snapshots {
				ts := "-"
				if !s.Timestamp.IsZero() {
					ts = s.Timestamp.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, ts, s.ID, s.Namespaces)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries, 0 for all")
	return cmd
}

func newEmitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "emit NAMESPACE TEMPLATE [ARGS...]",
		Short: "Log a message on a channel, as an application would",
		Long: `Log a message on a channel. The message only appears when the namespace
is enabled. Arguments are converted like DEBUG_* values, so numbers work
with %d.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.registry(cmd)
			ch := reg.Channel(args[0])
			if force {
				ch.SetEnabled(true)
			}

			values := make([]any, 0, len(args)-1)
			values = append(values, args[1])
			for _, arg := range args[2:] {
				values = append(values, debug.Coerce(arg))
			}
			ch.Log(values...)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Emit even when the namespace is disabled")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print every change of the enabled namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, ok := a.store.(store.Watcher)
			if !ok {
				return fmt.Errorf("%s store: %w", a.cfg.Store.Type, store.ErrWatchUnsupported)
			}
			err := w.Watch(cmd.Context(), func(s *store.Snapshot) {
				printf(cmd, "%d %s\n", s.Version, s.Namespaces)
			})
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}
			return err
		},
	}
}
