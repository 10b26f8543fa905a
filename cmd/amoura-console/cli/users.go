package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/amoura-app/amoura-console/internal/api"
	"github.com/amoura-app/amoura-console/internal/moderation"
)

func (c *Console) runUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.Out, "usage: users <list|search|get|suspend|restore|deactivate|activate> ...")
		return ErrUsage
	}
	switch args[0] {
	case "list":
		return c.runUsersList(ctx, args[1:], "")
	case "search":
		if len(args) < 2 {
			fmt.Fprintln(c.Out, "usage: users search <term> [flags]")
			return ErrUsage
		}
		return c.runUsersList(ctx, args[2:], args[1])
	case "get":
		return c.runUsersGet(ctx, args[1:])
	case "suspend":
		return c.runUsersSuspend(ctx, args[1:])
	case "restore":
		return c.runStatusAction(ctx, args[1:], "restore")
	case "deactivate":
		return c.runStatusAction(ctx, args[1:], "deactivate")
	case "activate":
		return c.runStatusAction(ctx, args[1:], "activate")
	default:
		fmt.Fprintf(c.Out, "unknown users command %q\n", args[0])
		return ErrUsage
	}
}

func pageFlags(fs *flag.FlagSet) (cursor *int64, limit *int, prev *bool) {
	cursor = fs.Int64("cursor", 0, "cursor from a previous page (0 for the first page)")
	limit = fs.Int("limit", 20, "page size")
	prev = fs.Bool("previous", false, "walk backward from the cursor")
	return
}

func (c *Console) runUsersList(ctx context.Context, args []string, term string) error {
	fs := flag.NewFlagSet("users list", flag.ContinueOnError)
	fs.SetOutput(c.Out)
	cursor, limit, prev := pageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := api.PageRequest{Limit: *limit}
	if *cursor != 0 {
		req.Cursor = cursor
	}
	if *prev {
		req.Direction = api.DirectionPrevious
	}

	var (
		page api.Page[moderation.User]
		err  error
	)
	if term != "" {
		page, err = c.Users.Search(ctx, term, req)
	} else {
		page, err = c.Users.List(ctx, req)
	}
	if err != nil {
		return c.report(err)
	}

	tw := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tSTATUS\tLAST LOGIN")
	for _, u := range page.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Email, u.Status, u.LastLogin.Format("2006-01-02 15:04"))
	}
	tw.Flush()
	if page.HasNext {
		fmt.Fprintf(c.Out, "next page: -cursor %d\n", *page.NextCursor)
	}
	if page.HasPrevious {
		fmt.Fprintf(c.Out, "previous page: -cursor %d -previous\n", *page.PreviousCursor)
	}
	return nil
}

func (c *Console) runUsersGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.Out, "usage: users get <id>")
		return ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(c.Out, "invalid user id %q\n", args[0])
		return ErrUsage
	}
	u, err := c.Users.GetByID(ctx, id)
	if err != nil {
		return c.report(err)
	}
	fmt.Fprintf(c.Out, "#%d %s <%s>\n", u.ID, u.FullName, u.Email)
	fmt.Fprintf(c.Out, "status: %s  role: %s  profile: %t  photos: %d\n",
		u.Status, u.RoleName, u.HasProfile, u.PhotoCount)
	fmt.Fprintf(c.Out, "matches: %d  messages: %d  last login: %s\n",
		u.TotalMatches, u.TotalMessages, u.LastLogin.Format("2006-01-02 15:04"))
	return nil
}

func (c *Console) runUsersSuspend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users suspend", flag.ContinueOnError)
	fs.SetOutput(c.Out)
	reason := fs.String("reason", "", "reason shown to the user (a default applies when blank)")
	days := fs.Int("days", 0, "suspension duration in days (1, 3, 7, 14, 30 or 90; 0 means permanent)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(c.Out, "usage: users suspend <id> [-reason ...] [-days N]")
		return ErrUsage
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(c.Out, "invalid user id %q\n", fs.Arg(0))
		return ErrUsage
	}

	var d *int
	if *days != 0 {
		d = days
	}
	update, err := c.Users.Suspend(ctx, id, *reason, d)
	if err != nil {
		return c.report(err)
	}
	fmt.Fprintf(c.Out, "user %d: %s -> %s (%s)\n",
		update.UserID, update.PreviousStatus, update.NewStatus, update.Reason)
	return nil
}

func (c *Console) runStatusAction(ctx context.Context, args []string, action string) error {
	fs := flag.NewFlagSet("users "+action, flag.ContinueOnError)
	fs.SetOutput(c.Out)
	reason := fs.String("reason", "", "optional reason")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(c.Out, "usage: users %s <id> [-reason ...]\n", action)
		return ErrUsage
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(c.Out, "invalid user id %q\n", fs.Arg(0))
		return ErrUsage
	}

	var update moderation.StatusUpdate
	switch action {
	case "restore":
		update, err = c.Users.Restore(ctx, id, *reason)
	case "deactivate":
		update, err = c.Users.SetInactive(ctx, id, *reason)
	case "activate":
		update, err = c.Users.Reactivate(ctx, id, *reason)
	}
	if err != nil {
		return c.report(err)
	}
	fmt.Fprintf(c.Out, "user %d: %s -> %s\n", update.UserID, update.PreviousStatus, update.NewStatus)
	return nil
}
