// Package cli implements the amoura-console subcommands over the access
// layer services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amoura-app/amoura-console/internal/api"
	"github.com/amoura-app/amoura-console/internal/auth"
	"github.com/amoura-app/amoura-console/internal/moderation"
	"github.com/amoura-app/amoura-console/internal/session"
	"github.com/amoura-app/amoura-console/internal/stats"
)

// Console bundles the services a subcommand may need.
type Console struct {
	Auth     *auth.Service
	Users    *moderation.Service
	Stats    *stats.Service
	Sessions *session.Manager
	Logger   *slog.Logger
	Out      io.Writer
}

// ErrUsage signals that the arguments did not name a runnable command.
var ErrUsage = errors.New("usage")

// Run dispatches args (without the program name) to a subcommand.
func (c *Console) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.usage()
		return ErrUsage
	}
	switch args[0] {
	case "login":
		return c.runLogin(ctx, args[1:])
	case "logout":
		return c.runLogout(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "dashboard":
		return c.runDashboard(ctx)
	case "users":
		return c.runUsers(ctx, args[1:])
	case "help", "-h", "--help":
		c.usage()
		return nil
	default:
		fmt.Fprintf(c.Out, "unknown command %q\n\n", args[0])
		c.usage()
		return ErrUsage
	}
}

func (c *Console) usage() {
	fmt.Fprint(c.Out, `amoura-console — Amoura admin console

Commands:
  login       sign in (flags: -email, -phone, -password, -otp)
  logout      sign out and clear stored credentials
  whoami      show the stored session
  dashboard   show platform counters
  users       user management (list, search, get, suspend, restore,
              deactivate, activate)
`)
}

// report renders an access layer failure with kind-appropriate copy.
func (c *Console) report(err error) error {
	switch api.KindOf(err) {
	case api.KindAuth:
		fmt.Fprintf(c.Out, "authentication: %s\n", err.Error())
	case api.KindPermission:
		fmt.Fprintf(c.Out, "permission: %s\n", err.Error())
	case api.KindValidation:
		fmt.Fprintf(c.Out, "invalid input: %s\n", err.Error())
	case api.KindNetwork:
		fmt.Fprintf(c.Out, "backend unreachable: %s\n", err.Error())
	case api.KindNotFound:
		fmt.Fprintf(c.Out, "not found: %s\n", err.Error())
	default:
		fmt.Fprintf(c.Out, "error: %s\n", err.Error())
	}
	return err
}
