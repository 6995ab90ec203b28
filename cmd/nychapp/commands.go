package main

import (
	"errors"
	"fmt"

	"github.com/kylodelgado/nychapp/internal/api"
	"github.com/kylodelgado/nychapp/internal/services"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "nychapp",
		Short:         "Repair-shop helpdesk client",
		Long:          "nychapp talks to the shop's helpdesk API: check ticket status, register customers, and open drop-off tickets.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "absolute path to a JSON config file")

	root.AddCommand(newStatusCmd(&configPath))
	root.AddCommand(newCustomerCmd(&configPath))
	root.AddCommand(newTicketCmd(&configPath))
	return root
}

func newStatusCmd(configPath *string) *cobra.Command {
	var emailMode bool
	var reset bool

	cmd := &cobra.Command{
		Use:   "status [ticket number | phone | email]",
		Short: "Look up ticket status",
		Long: "Looks up tickets by 5-digit ticket number, phone number, or email.\n" +
			"With no argument, resumes the most recent successful lookup.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if reset {
				if err := a.lookup.Reset(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Stored session cleared.")
				if len(args) == 0 {
					return nil
				}
			}

			mode := services.ModePhone
			if emailMode {
				mode = services.ModeEmail
			}

			var result *services.Result
			if len(args) == 1 {
				result, err = a.lookup.Search(cmd.Context(), args[0], mode)
			} else {
				result, err = a.lookup.Resume(cmd.Context())
				if errors.Is(err, services.ErrNoSession) {
					fmt.Fprintln(cmd.OutOrStdout(), "No stored session. Pass a ticket number, phone, or email.")
					return nil
				}
			}

			if errors.Is(err, api.ErrNoMatch) {
				// A miss is a neutral outcome, not an error.
				fmt.Fprintln(cmd.OutOrStdout(), renderEmptyState())
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderResult(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&emailMode, "email", false, "treat the query as an email address")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the stored session before searching")
	return cmd
}

func newCustomerCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Customer operations",
	}

	form := &services.CustomerForm{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a new customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			customer, err := a.intake.CreateCustomer(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Customer created with id %d (%s %s)\n",
				customer.ID, customer.FirstName, customer.LastName)
			return nil
		},
	}
	create.Flags().StringVar(&form.FirstName, "first", "", "first name (required)")
	create.Flags().StringVar(&form.LastName, "last", "", "last name (required)")
	create.Flags().StringVar(&form.BusinessName, "business", "", "business name")
	create.Flags().StringVar(&form.Email, "email", "", "email address (required)")
	create.Flags().StringVar(&form.Phone, "phone", "", "phone number (required)")
	create.Flags().StringVar(&form.Address, "address", "", "street address")
	create.Flags().StringVar(&form.City, "city", "", "city")
	create.Flags().StringVar(&form.State, "state", "NY", "state")
	create.Flags().StringVar(&form.Zip, "zip", "", "zip code")

	cmd.AddCommand(create)
	return cmd
}

// deriveTicketFlags turns a provided detail value into its implied checkbox,
// so --also and --bitlocker-key work without the boolean flags. The reverse
// is not implied: a checkbox without its detail is left for validation to
// reject.
func deriveTicketFlags(form *services.TicketForm) {
	if form.WhatElse != "" {
		form.DroppingSomethingElse = true
	}
	if form.BitlockerKey != "" {
		form.HasBitlocker = true
	}
}

func newTicketCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Ticket operations",
	}

	form := &services.TicketForm{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a drop-off repair ticket for an existing customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ticket, err := a.intake.CreateTicket(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket #%s created\n", ticket.Number)
			return nil
		},
	}
	create.Flags().IntVar(&form.CustomerID, "customer-id", 0, "customer id (required)")
	create.Flags().StringVar(&form.CustomerName, "customer-name", "", "customer display name")
	create.Flags().StringVar(&form.DeviceType, "device", "", "device type (required)")
	create.Flags().StringVar(&form.Issue, "issue", "", "short issue summary (required)")
	create.Flags().StringVar(&form.Description, "description", "", "full issue description (required)")
	create.Flags().StringVar(&form.DevicePassword, "device-password", "", "device password")
	create.Flags().BoolVar(&form.DroppingCharger, "charger", false, "dropping off a charger")
	create.Flags().BoolVar(&form.DroppingHandTruck, "hand-truck", false, "dropping off a hand truck")
	create.Flags().BoolVar(&form.DroppingSleeve, "sleeve", false, "dropping off a laptop sleeve")
	create.Flags().BoolVar(&form.DroppingBag, "bag", false, "dropping off a bag")
	create.Flags().BoolVar(&form.DroppingSomethingElse, "something-else", false, "dropping off something else (name it with --also)")
	create.Flags().StringVar(&form.WhatElse, "also", "", "what else is being dropped off")
	create.Flags().BoolVar(&form.FilesImportant, "files-important", false, "files on the device matter")
	create.Flags().BoolVar(&form.HasBitlocker, "bitlocker", false, "drive is bitlocker encrypted (provide --bitlocker-key)")
	create.Flags().StringVar(&form.BitlockerKey, "bitlocker-key", "", "bitlocker recovery key")
	create.Flags().BoolVar(&form.UnderWarranty, "warranty", false, "device is under warranty")
	create.PreRun = func(cmd *cobra.Command, args []string) {
		deriveTicketFlags(form)
	}

	cmd.AddCommand(create)
	return cmd
}
