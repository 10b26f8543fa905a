package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/amoura-app/amoura-console/internal/auth"
	"github.com/amoura-app/amoura-console/internal/moderation"
)

func (c *Console) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.Out)
	email := fs.String("email", "", "account email")
	phone := fs.String("phone", "", "account phone number (E.164)")
	password := fs.String("password", "", "account password")
	otp := fs.String("otp", "", "one-time code (email OTP login)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creds := auth.Credentials{
		Email:       *email,
		PhoneNumber: *phone,
		Password:    *password,
		OTPCode:     *otp,
	}
	switch {
	case *otp != "":
		creds.LoginType = auth.LoginEmailOTP
	case *phone != "":
		creds.LoginType = auth.LoginPhonePassword
	default:
		creds.LoginType = auth.LoginEmailPassword
	}

	sess, err := c.Auth.Login(ctx, creds)
	if err != nil {
		return c.report(err)
	}
	fmt.Fprintf(c.Out, "signed in as %s\n", sess.Role())
	return nil
}

func (c *Console) runLogout(ctx context.Context) error {
	if err := c.Auth.Logout(ctx); err != nil {
		return c.report(err)
	}
	fmt.Fprintln(c.Out, "signed out")
	return nil
}

func (c *Console) runWhoami(ctx context.Context) error {
	sess := c.Sessions.Current(ctx)
	if !sess.LoggedIn || !sess.HasToken() {
		fmt.Fprintln(c.Out, "not signed in")
		return nil
	}
	caps := moderation.CapabilitiesFor(sess.Role())
	fmt.Fprintf(c.Out, "role: %s\n", sess.Role())
	fmt.Fprintf(c.Out, "capabilities: view=%t details=%t suspend=%t restore=%t inactive=%t\n",
		caps.CanViewUsers, caps.CanViewUserDetails, caps.CanSuspendUsers,
		caps.CanRestoreUsers, caps.CanSetInactive)
	return nil
}

func (c *Console) runDashboard(ctx context.Context) error {
	d, err := c.Stats.Dashboard(ctx)
	if err != nil {
		return c.report(err)
	}
	fmt.Fprintf(c.Out, "users: %d (today %d, active today %d)\n", d.TotalUsers, d.TodayUsers, d.ActiveUsersToday)
	fmt.Fprintf(c.Out, "matches: %d (today %d)\n", d.TotalMatches, d.TodayMatches)
	fmt.Fprintf(c.Out, "messages: %d (today %d)\n", d.TotalMessages, d.TodayMessages)
	for _, p := range d.UserGrowthChart {
		fmt.Fprintf(c.Out, "  %s  +%d users\n", p.Date, p.NewUsers)
	}
	return nil
}
