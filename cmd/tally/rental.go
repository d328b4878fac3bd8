package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/rental"
	"github.com/tallybook/tally/pkg/surface"
)

func openDesk(ctx context.Context, g *globalOpts, id string) (*rental.Desk, func(context.Context) error, error) {
	if err := store.CheckKey(id); err != nil {
		return nil, nil, fmt.Errorf("desk: %w", err)
	}
	docs, err := g.store(ctx, g.config())
	if err != nil {
		return nil, nil, err
	}
	desk := rental.NewDesk()
	if _, err := store.Load(ctx, docs, g.namespace, store.KindDesk, id, desk); err != nil {
		return nil, nil, fmt.Errorf("loading desk %s: %w", id, err)
	}
	save := func(ctx context.Context) error {
		if err := store.Save(ctx, docs, g.namespace, store.KindDesk, id, desk); err != nil {
			return fmt.Errorf("saving desk %s: %w", id, err)
		}
		return nil
	}
	return desk, save, nil
}

func newRentalCmd(g *globalOpts) *cobra.Command {
	var deskID string

	cmd := &cobra.Command{
		Use:   "rental",
		Short: "Run the car rental desk: fleet, clients, rentals and returns",
	}
	cmd.PersistentFlags().StringVar(&deskID, "desk", "default", "Rental desk name")

	edit := func(cmd *cobra.Command, fn func(d *rental.Desk) error) error {
		d, save, err := openDesk(cmd.Context(), g, deskID)
		if err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		return save(cmd.Context())
	}
	view := func(cmd *cobra.Command) (*rental.Desk, error) {
		d, _, err := openDesk(cmd.Context(), g, deskID)
		return d, err
	}

	cmd.AddCommand(
		newAddCarCmd(edit),
		newAddClientCmd(edit),
		newScheduleCmd(edit),
		newReturnCmd(edit),
		&cobra.Command{
			Use:   "cars",
			Short: "List cars available for rent",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := view(cmd)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "PLATE\tMODEL\tCOLOR\tDAILY RATE")
				for _, c := range d.Cars() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", c.Plate, c.Model, c.Color, c.DailyRate)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "clients",
			Short: "List registered clients",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := view(cmd)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CPF\tNAME\tPHONE")
				for _, c := range d.Clients() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.CPF, c.Name, c.Phone)
				}
				return tw.Flush()
			},
		},
		newListRentalsCmd(view),
		newRentalReportCmd(view),
		newRentalExportCmd(view),
	)
	return cmd
}

type deskEditFunc func(cmd *cobra.Command, fn func(d *rental.Desk) error) error

type deskViewFunc func(cmd *cobra.Command) (*rental.Desk, error)

func newAddCarCmd(edit deskEditFunc) *cobra.Command {
	var nc rental.NewCar
	cmd := &cobra.Command{
		Use:   "add-car",
		Short: "Register a car in the fleet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, func(d *rental.Desk) error {
				car, err := d.RegisterCar(nc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Car registered: %s %s at %.2f/day\n", car.Plate, car.Model, car.DailyRate)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&nc.Model, "model", "", "Car model")
	cmd.Flags().StringVar(&nc.Plate, "plate", "", "License plate")
	cmd.Flags().StringVar(&nc.Color, "color", "", "Color")
	cmd.Flags().StringVar(&nc.DailyRate, "rate", "", "Daily rate, e.g. 120,50")
	return cmd
}

func newAddClientCmd(edit deskEditFunc) *cobra.Command {
	var nc rental.NewClient
	cmd := &cobra.Command{
		Use:   "add-client",
		Short: "Register a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, func(d *rental.Desk) error {
				c, err := d.RegisterClient(nc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Client registered: %s (%s)\n", c.Name, c.CPF)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&nc.Name, "name", "", "Client name")
	cmd.Flags().StringVar(&nc.CPF, "cpf", "", "Client CPF")
	cmd.Flags().StringVar(&nc.Phone, "phone", "", "Phone number")
	return cmd
}

func newScheduleCmd(edit deskEditFunc) *cobra.Command {
	var b rental.Booking
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Rent a car to a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, func(d *rental.Desk) error {
				q, err := d.Schedule(b)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rental %s: %s for %d day(s) at %.2f = %.2f\n",
					q.Rental.ID, q.Rental.Car.Plate, q.Days, q.DailyRate, q.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&b.CPF, "cpf", "", "Client CPF")
	cmd.Flags().StringVar(&b.Plate, "plate", "", "Car plate")
	cmd.Flags().StringVar(&b.Start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&b.End, "end", "", "Expected end date (YYYY-MM-DD)")
	return cmd
}

func newReturnCmd(edit deskEditFunc) *cobra.Command {
	var co rental.Checkout
	cmd := &cobra.Command{
		Use:   "return ID",
		Short: "Close a rental and take payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(cmd, func(d *rental.Desk) error {
				rc, err := d.Return(args[0], co)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Returned %s after %d day(s): %.2f via %s\n", rc.Rental.Car.Plate, rc.Days, rc.Total, rc.Rental.Payment)
				if rc.Rental.Payment == rental.PaymentCash {
					fmt.Fprintf(out, "Change: %.2f\n", rc.Change)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&co.End, "end", "", "Actual end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&co.Payment, "payment", "", "Payment method: cash, pix or card (default pix)")
	cmd.Flags().StringVar(&co.Cash, "cash", "", "Cash handed over, for cash payments")
	return cmd
}

func newListRentalsCmd(view deskViewFunc) *cobra.Command {
	var (
		openOnly  bool
		outputFmt string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rentals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := view(cmd)
			if err != nil {
				return err
			}
			rentals := d.Rentals()
			if openOnly {
				rentals = d.OpenRentals()
			}
			if outputFmt == surface.FormatJSON {
				return surface.WriteJSON(cmd.OutOrStdout(), rentals)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCLIENT\tPLATE\tSTART\tEND\tTOTAL\tSTATUS")
			for _, r := range rentals {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n", r.ID, r.ClientName, r.Car.Plate, r.Start, r.End, r.Total, r.Status)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&openOnly, "open", false, "Only open rentals")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}

func newRentalReportCmd(view deskViewFunc) *cobra.Command {
	var outputFmt string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show open and closed rentals and revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := view(cmd)
			if err != nil {
				return err
			}
			rep := d.Report()
			if outputFmt == surface.FormatJSON {
				return surface.WriteJSON(cmd.OutOrStdout(), rep)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open rentals:     %d\n", rep.Open)
			fmt.Fprintf(out, "Closed rentals:   %d\n", rep.Closed)
			fmt.Fprintf(out, "Realized revenue: %.2f\n", rep.Realized)
			fmt.Fprintf(out, "Forecast revenue: %.2f\n", rep.Forecast)
			fmt.Fprintf(out, "Overall:          %.2f\n", rep.Overall)
			return nil
		},
	}
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}

func newRentalExportCmd(view deskViewFunc) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rentals and the revenue summary to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := view(cmd)
			if err != nil {
				return err
			}
			err = writeFile(outPath, func(w io.Writer) error {
				return export.WriteRentals(w, d.Rentals(), d.Report())
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Rentals exported: %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "rentals.xlsx", "Output path")
	return cmd
}
