package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-swmodule/pkg/dialog"
	"github.com/goliatone/go-swmodule/pkg/notify"
	"github.com/goliatone/go-swmodule/pkg/renderers/tui"
	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

var errValidation = errors.New("software module not saved")

func (c *cli) serveCommand() *cobra.Command {
	var grace time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dialog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := c.app.NewServer(cmd.Context())
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), c.app.Config.Server.Addr, grace)
		},
	}
	cmd.Flags().String("server.addr", ":8080", "HTTP listen address")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "shutdown grace period")
	return cmd
}

func (c *cli) addCommand() *cobra.Command {
	var (
		values      dialog.Values
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a software module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, recorder, err := c.dialog(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.OpenAdd(cmd.Context()); err != nil {
				return err
			}
			if interactive {
				return c.interactiveSave(cmd.Context(), d, recorder)
			}
			d.Bind(values)
			return c.save(cmd.Context(), d, recorder)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&values.Type, "type", "", "module type name")
	flags.StringVar(&values.Name, "name", "", "module name")
	flags.StringVar(&values.Version, "version", "", "module version")
	flags.StringVar(&values.Vendor, "vendor", "", "vendor")
	flags.StringVar(&values.Description, "description", "", "description")
	flags.BoolVarP(&interactive, "interactive", "i", false, "prompt for every field")
	return cmd
}

func (c *cli) editCommand() *cobra.Command {
	var (
		vendor, description string
		interactive         bool
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update vendor and description of a software module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := softwaremodule.ParseID(args[0])
			if err != nil {
				return fmt.Errorf("invalid module id %q: %w", args[0], err)
			}
			d, recorder, err := c.dialog(cmd.Context())
			if err != nil {
				return err
			}
			if err := d.OpenEdit(cmd.Context(), id); err != nil {
				return err
			}
			if interactive {
				return c.interactiveSave(cmd.Context(), d, recorder)
			}
			values := d.Values()
			if cmd.Flags().Changed("vendor") {
				values.Vendor = vendor
			}
			if cmd.Flags().Changed("description") {
				values.Description = description
			}
			d.Bind(values)
			return c.save(cmd.Context(), d, recorder)
		},
	}
	cmd.Flags().StringVar(&vendor, "vendor", "", "vendor")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for vendor and description")
	return cmd
}

func (c *cli) listCommand() *cobra.Command {
	var includeDeleted bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List software modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modules, err := c.app.Store.ListModules(cmd.Context(), includeDeleted)
			if err != nil {
				return err
			}
			printTable(c.out, []string{"ID", "TYPE", "NAME", "VERSION", "VENDOR", "REV", "DELETED"}, moduleRows(modules))
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeDeleted, "deleted", false, "include deleted modules")
	return cmd
}

func (c *cli) typesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List software module types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types, err := c.app.Store.ListTypes(cmd.Context())
			if err != nil {
				return err
			}
			printTable(c.out, []string{"ID", "KEY", "NAME", "MAX", "DESCRIPTION"}, typeRows(types))
			return nil
		},
	}

	var typ softwaremodule.ModuleType
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Register a software module type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ.Name = args[0]
			created, err := c.app.Store.CreateType(cmd.Context(), typ)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf("Created type %s (%s)", created.Name, created.ID)))
			return nil
		},
	}
	create.Flags().StringVar(&typ.Key, "key", "", "type key (defaults to the lower case name)")
	create.Flags().StringVar(&typ.Description, "description", "", "description")
	create.Flags().IntVar(&typ.MaxAssignments, "max-assignments", 0, "maximum assignments per distribution")

	remove := &cobra.Command{
		Use:   "delete NAME",
		Short: "Soft-delete a software module type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Store.DeleteType(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(c.out, successStyle.Render("Deleted type "+args[0]))
			return nil
		},
	}

	cmd.AddCommand(create, remove)
	return cmd
}

func (c *cli) renderCommand() *cobra.Command {
	var (
		renderer string
		id       int64
		output   string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dialog (new mode, or edit mode with --id)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, _, err := c.dialog(cmd.Context())
			if err != nil {
				return err
			}
			if id > 0 {
				err = d.OpenEdit(cmd.Context(), softwaremodule.ID(id))
			} else {
				err = d.OpenAdd(cmd.Context())
			}
			if err != nil {
				return err
			}
			payload, err := c.app.RenderDialog(cmd.Context(), d, renderer)
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, payload, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintln(c.out, mutedStyle.Render("Dialog written to "+output))
				return nil
			}
			fmt.Fprintln(c.out, string(payload))
			return nil
		},
	}
	cmd.Flags().StringVar(&renderer, "renderer", "vanilla", "renderer (vanilla or json)")
	cmd.Flags().Int64Var(&id, "id", 0, "module to edit")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *cli) dialog(ctx context.Context) (*dialog.Dialog, *notify.Recorder, error) {
	recorder := &notify.Recorder{}
	d, err := c.app.NewDialog(ctx, "", recorder)
	return d, recorder, err
}

func (c *cli) save(ctx context.Context, d *dialog.Dialog, recorder *notify.Recorder) error {
	module, err := d.Save(ctx)
	printNotifications(c.out, recorder.Drain())

	var verr *dialog.ValidationError
	if errors.As(err, &verr) {
		printValidation(c.out, verr)
		return errValidation
	}
	if err != nil {
		fmt.Fprintln(c.errOut, errorStyle.Render(err.Error()))
		return err
	}
	c.printModule(module)
	return nil
}

// interactiveSave prompts until the dialog saves or the user aborts.
// Validation messages are shown next to the reprompted fields.
func (c *cli) interactiveSave(ctx context.Context, d *dialog.Dialog, recorder *notify.Recorder) error {
	driver := c.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(c.out)
	}
	prompter := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithConfirm(true),
		tui.WithTheme(tui.Theme{InfoPrefix: "· ", ErrorPrefix: "✗ "}),
	)

	var previous *dialog.ValidationError
	for {
		form := d.Form()
		opts := d.RenderOptions()
		previous.Apply(form, &opts)

		collected, err := prompter.Collect(ctx, form, opts)
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(c.out, mutedStyle.Render("Aborted"))
			return nil
		}
		if err != nil {
			return err
		}
		values := d.Values()
		values.Type = collected[dialog.FieldType]
		values.Name = collected[dialog.FieldName]
		values.Version = collected[dialog.FieldVersion]
		values.Vendor = collected[dialog.FieldVendor]
		values.Description = collected[dialog.FieldDescription]
		d.Bind(values)

		module, err := d.Save(ctx)
		printNotifications(c.out, recorder.Drain())
		if errors.As(err, &previous) {
			continue
		}
		if err != nil {
			return err
		}
		c.printModule(module)
		return nil
	}
}

func (c *cli) printModule(module *softwaremodule.SoftwareModule) {
	fmt.Fprintf(c.out, "%s %s  %s %s  %s %d\n",
		mutedStyle.Render("id"), module.ID,
		mutedStyle.Render("type"), module.TypeName(),
		mutedStyle.Render("revision"), module.OptLockRevision)
	if module.Vendor != "" || module.Description != "" {
		fmt.Fprintln(c.out, mutedStyle.Render(strings.TrimSpace(module.Vendor+" "+module.Description)))
	}
}
