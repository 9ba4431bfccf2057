package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/technoheaven/portal-client/internal/client/guard"
)

// Notifications refreshes and prints the notification list.
func (a *App) Notifications(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/dashboard") {
		return nil
	}

	a.notifications.Refresh(ctx)

	latest := a.notifications.Latest()
	if len(latest) == 0 {
		printlnFn("No notifications.")
		return nil
	}
	for _, n := range latest {
		marker := "*"
		if n.Read {
			marker = " "
		}
		printlnFn(fmt.Sprintf("%s #%d %s", marker, n.ID, n.Message))
	}
	return nil
}

// MarkRead marks a single notification as read.
func (a *App) MarkRead(ctx context.Context) error {
	if !a.guardView(guard.RoleAuthenticated, "/dashboard") {
		return nil
	}

	idText, err := getSimpleText(a.reader, "Enter notification id", os.Stdout)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		printlnFn("The id must be a number")
		return err
	}

	if err := a.notifications.MarkRead(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Marked as read.")
	return nil
}
