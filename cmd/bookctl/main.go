package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nekogravitycat/turn-booking/internal/booking"
	"github.com/nekogravitycat/turn-booking/internal/client"
	"github.com/nekogravitycat/turn-booking/internal/config"
	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		storeURL string
		style    string
		timeout  time.Duration
		booker   *client.Booker
	)

	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Reserve and cancel appointment slots",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}

			// Flags override the environment.
			if cmd.Flags().Changed("url") {
				cfg.StoreURL = strings.TrimRight(storeURL, "/")
			}
			if cmd.Flags().Changed("style") {
				cfg.PayloadStyle = strings.ToLower(style)
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}

			if cfg.StoreURL == "" {
				return fmt.Errorf("store URL is required (--url or STORE_URL)")
			}
			if cfg.PayloadStyle != config.PayloadStyleJSON && cfg.PayloadStyle != config.PayloadStyleLegacy {
				return fmt.Errorf("--style must be %s or %s", config.PayloadStyleJSON, config.PayloadStyleLegacy)
			}

			sched, err := schedule.New(cfg.ScheduleProfile)
			if err != nil {
				return err
			}

			booker = client.NewBooker(
				client.NewRemoteStore(cfg.StoreURL, cfg.PayloadStyle, cfg.Timeout),
				client.Options{
					Schedule:   sched,
					MaxPerDay:  cfg.MaxPerDay,
					WindowDays: cfg.WindowDays,
					Location:   cfg.Location,
				},
			)
			return booker.Load(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&storeURL, "url", "", "Booking store URL (overrides STORE_URL)")
	root.PersistentFlags().StringVar(&style, "style", config.PayloadStyleJSON, "Payload style: json or legacy (overrides PAYLOAD_STYLE)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout (overrides CLIENT_TIMEOUT)")

	getBooker := func() *client.Booker { return booker }

	root.AddCommand(
		newListCmd(getBooker),
		newSlotsCmd(getBooker),
		newReserveCmd(getBooker),
		newCancelCmd(getBooker),
	)
	return root
}

func newListCmd(booker func() *client.Booker) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List booked slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTIME\tCONTACT")
			for _, b := range booker().Snapshot() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.Date, b.Time, b.Contact)
			}
			return w.Flush()
		},
	}
}

func newSlotsCmd(booker func() *client.Booker) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show the slots for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := booker()
			slots, err := b.Slots(date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintf(out, "%s: no slots (weekend)\n", date)
				return nil
			}
			if b.Availability(date).QuotaExceeded {
				fmt.Fprintf(out, "%s: fully booked\n", date)
			}
			for _, s := range slots {
				state := "free"
				if s.Taken {
					state = "taken"
				}
				fmt.Fprintf(out, "%s  %s\n", s.Time, state)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newReserveCmd(booker func() *client.Booker) *cobra.Command {
	var c client.Candidate

	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Book a slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := booker().Reserve(cmd.Context(), c); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "booked %s at %s\n", c.Date, c.Time)
			return nil
		},
	}

	cmd.Flags().StringVar(&c.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&c.Reason, "reason", "", "Reason for the appointment")
	cmd.Flags().StringVar(&c.Contact, "contact", "", "Email or phone")
	cmd.Flags().StringVar(&c.Date, "date", "", "Date YYYY-MM-DD")
	cmd.Flags().StringVar(&c.Time, "time", "", "Time HH:MM")
	return cmd
}

func newCancelCmd(booker func() *client.Booker) *cobra.Command {
	var key booking.CancelKey

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a booking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := booker().Cancel(cmd.Context(), key); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancelled %s at %s\n", key.Date, key.Time)
			return nil
		},
	}

	cmd.Flags().StringVar(&key.Name, "name", "", "Name used when booking")
	cmd.Flags().StringVar(&key.Contact, "contact", "", "Contact used when booking")
	cmd.Flags().StringVar(&key.Date, "date", "", "Date YYYY-MM-DD")
	cmd.Flags().StringVar(&key.Time, "time", "", "Time HH:MM")
	return cmd
}

// explain turns client errors into the message shown to the user.
func explain(err error) error {
	switch {
	case errors.Is(err, client.ErrCapacity):
		return errors.New("that day is fully booked, pick another date")
	case errors.Is(err, client.ErrConflict):
		return errors.New("that time was just taken, pick another slot")
	case errors.Is(err, client.ErrNotFound):
		return errors.New("no booking matches those details")
	case errors.Is(err, client.ErrTransport):
		return fmt.Errorf("could not reach the booking store, try again: %w", err)
	default:
		return err
	}
}
