package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/locale"
	"bybud-web/internal/session"
)

var errNotSignedIn = errors.New("not signed in; run `bybudctl login` first")

func (a *cliApp) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login USERNAME_OR_EMAIL",
		Short: "Sign in and store the session locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" || password == "-" {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = p
			}
			rec, err := a.deps.Auth.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			st, err := a.deps.Sessions.SignIn(cmd.Context(), SessionID, rec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", rec.Username, roleList(st.Roles))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", `password; read from stdin when empty or "-"`)
	return cmd
}

func (a *cliApp) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, ctx := a.state(cmd.Context())
			if err := a.deps.Auth.Logout(ctx); err != nil && !errors.Is(err, apperr.ErrNoTokens) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: gateway logout failed: %v\n", err)
			}
			if _, err := a.deps.Sessions.SignOut(cmd.Context(), SessionID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *cliApp) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, _ := a.state(cmd.Context())
			if !st.Authenticated {
				return errNotSignedIn
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", st.Record.Username, roleList(st.Roles))
			if exp, ok := session.TokenExpiry(st.Record.AccessToken); ok {
				fmt.Fprintf(out, "token expires %s\n", a.deps.Locale.Time(exp))
			}
			return nil
		},
	}
}

func (a *cliApp) deliveriesCmd() *cobra.Command {
	var available, mine, customer bool
	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "List deliveries for the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, ctx := a.state(cmd.Context())
			if !st.Authenticated {
				return errNotSignedIn
			}
			prefer := domain.RoleCourier
			if customer {
				prefer = domain.RoleCustomer
			}
			v, ok := domain.ViewerFor(st.Record, prefer)
			if !ok {
				return apperr.ErrNoSession
			}

			var list []domain.Delivery
			switch v := v.(type) {
			case domain.Courier:
				q, err := a.deps.Deliveries.QueueFor(ctx, v)
				if err != nil {
					return err
				}
				switch {
				case available && !mine:
					list = q.Available
				case mine && !available:
					list = q.Mine
				default:
					list = append(append(list, q.Available...), q.Mine...)
				}
			default:
				l, err := a.deps.Deliveries.ListFor(ctx, v)
				if err != nil {
					return err
				}
				list = l
			}
			return printDeliveries(cmd.OutOrStdout(), a.deps.Locale, list)
		},
	}
	cmd.Flags().BoolVar(&available, "available", false, "only deliveries open for acceptance")
	cmd.Flags().BoolVar(&mine, "mine", false, "only deliveries assigned to me")
	cmd.Flags().BoolVar(&customer, "customer", false, "deliveries I created, even when I am also a courier")
	return cmd
}

func (a *cliApp) createCmd() *cobra.Command {
	var form domain.CreateDelivery
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a delivery as the signed-in customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, ctx := a.state(cmd.Context())
			if !st.Authenticated {
				return errNotSignedIn
			}
			form.CustomerID = st.Record.DeliveryKey()
			d, err := a.deps.Deliveries.CreateDelivery(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Delivery created successfully! %s %s\n", d.ID, d.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.DeliveryDetails, "details", "", "what is being delivered")
	cmd.Flags().StringVar(&form.PickupAddress, "pickup", "", "pickup address")
	cmd.Flags().StringVar(&form.DeliveryAddress, "to", "", "delivery address")
	cmd.Flags().StringVar(&form.DeliveryDate, "date", "", "delivery date, YYYY-MM-DD")
	return cmd
}

// action builds a command applying fn to one delivery id.
func (a *cliApp) action(use, short, done string, nargs int, fn func(cmd *cobra.Command, args []string) (domain.Delivery, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ctx := a.state(cmd.Context())
			if !st.Authenticated {
				return errNotSignedIn
			}
			cmd.SetContext(ctx)
			d, err := fn(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", done, args[0], d.Status)
			return nil
		},
	}
}

func (a *cliApp) acceptCmd() *cobra.Command {
	return a.action("accept ID", "Accept an open delivery", "Delivery accepted successfully!", 1,
		func(cmd *cobra.Command, args []string) (domain.Delivery, error) {
			return a.deps.Deliveries.AcceptDelivery(cmd.Context(), args[0])
		})
}

func (a *cliApp) statusCmd() *cobra.Command {
	return a.action("status ID STATUS", "Set the status of a delivery", "Delivery status updated successfully!", 2,
		func(cmd *cobra.Command, args []string) (domain.Delivery, error) {
			status := domain.DeliveryStatus(strings.ToUpper(args[1]))
			return a.deps.Deliveries.UpdateDeliveryStatus(cmd.Context(), args[0], status)
		})
}

func (a *cliApp) cancelCmd() *cobra.Command {
	return a.action("cancel ID", "Cancel a delivery", "Delivery canceled successfully!", 1,
		func(cmd *cobra.Command, args []string) (domain.Delivery, error) {
			return a.deps.Deliveries.CancelDelivery(cmd.Context(), args[0])
		})
}

func (a *cliApp) unassignCmd() *cobra.Command {
	return a.action("unassign ID", "Return an accepted delivery to the open queue", "Delivery unassigned successfully!", 1,
		func(cmd *cobra.Command, args []string) (domain.Delivery, error) {
			return a.deps.Deliveries.UnassignDelivery(cmd.Context(), args[0])
		})
}

func printDeliveries(w io.Writer, loc locale.Locale, list []domain.Delivery) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No deliveries found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPICKUP\tDESTINATION\tCREATED")
	for _, d := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.ShortID(), d.Status.Label(), d.PickupAddress, d.DeliveryAddress, loc.DateTime(d.CreatedDate))
	}
	return tw.Flush()
}

func roleList(roles []domain.Role) string {
	if len(roles) == 0 {
		return "no roles"
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
