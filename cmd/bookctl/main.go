// Command bookctl is a terminal client for the booking API. It keeps a
// session on disk between invocations, so logging in once is enough until
// the token expires or is cleared.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
	"github.com/juangracia/booking-mvp-case-study/pkg/client"
	"github.com/juangracia/booking-mvp-case-study/pkg/logger"
)

const defaultServer = "http://localhost:8080"

type app struct {
	gateway  *client.Gateway
	sessions *client.SessionStore
	guard    *client.Guard
	out      *tabwriter.Writer
}

func main() {
	flags := pflag.NewFlagSet("bookctl", pflag.ExitOnError)
	server := flags.String("server", envOr("BOOKCTL_SERVER", defaultServer), "base URL of the booking API")
	sessionPath := flags.String("session", "", "path of the session file (default: <user config dir>/bookctl/session.json)")
	verbose := flags.Bool("verbose", false, "enable debug logging")
	flags.Usage = usage
	if err := flags.Parse(os.Args[1:]); err != nil {
		fatal(err)
	}

	args := flags.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr})

	path := *sessionPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			fatal(fmt.Errorf("resolving config dir: %w", err))
		}
		path = filepath.Join(dir, "bookctl", "session.json")
	}

	sessions := client.NewSessionStore(client.NewFileStorage(path), log)
	gateway := client.NewGateway(*server, sessions, log, client.GatewayOptions{})
	a := &app{
		gateway:  gateway,
		sessions: sessions,
		guard:    client.NewGuard(sessions),
		out:      tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0),
	}

	ctx := context.Background()
	if err := a.run(ctx, args[0], args[1:]); err != nil {
		fatal(err)
	}
	a.out.Flush()
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		return a.gateway.Logout()
	case "whoami":
		return a.whoami(ctx)
	case "resources":
		return a.resources(ctx)
	case "availability":
		return a.availability(ctx, args)
	case "book":
		return a.book(ctx, args)
	case "bookings":
		return a.bookings(ctx)
	case "cancel":
		return a.cancel(ctx, args)
	case "admin":
		return a.admin(ctx, args)
	case "help", "--help", "-h":
		usage()
		return nil
	default:
		return fmt.Errorf("unknown command %q, run 'bookctl help'", cmd)
	}
}

// requireLogin gates a command on an authenticated session, mirroring how a
// guarded route would behave.
func (a *app) requireLogin() error {
	if d := a.guard.RequireAuthenticated(""); !d.Allowed {
		return fmt.Errorf("not logged in, run 'bookctl login' first")
	}
	return nil
}

func (a *app) requireAdmin() error {
	a.sessions.Restore()
	if !a.sessions.Authenticated() {
		return fmt.Errorf("not logged in, run 'bookctl login' first")
	}
	if d := a.guard.RequireAdmin(""); !d.Allowed {
		return fmt.Errorf("this command needs an admin account")
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("login", pflag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	flags.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login needs --email and --password")
	}

	sess, err := a.gateway.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", sess.User.Email, sess.User.Role)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("register", pflag.ExitOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password (6 characters minimum)")
	flags.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("register needs --email and --password")
	}

	sess, err := a.gateway.Register(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered and logged in as %s\n", sess.User.Email)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	user, err := a.gateway.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "EMAIL\tROLE\tSINCE\n")
	fmt.Fprintf(a.out, "%s\t%s\t%s\n", user.Email, user.Role, user.CreatedAt.Format("2006-01-02"))
	return nil
}

func (a *app) resources(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	resources, err := a.gateway.Resources(ctx)
	if err != nil {
		return err
	}
	printResources(a.out, resources)
	return nil
}

func (a *app) availability(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("availability", pflag.ExitOnError)
	date := flags.String("date", time.Now().UTC().Format("2006-01-02"), "day to inspect (YYYY-MM-DD)")
	flags.Parse(args)
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: bookctl availability <resource-id> [--date YYYY-MM-DD]")
	}
	if err := a.requireLogin(); err != nil {
		return err
	}
	day, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", *date)
	}

	slots, err := a.gateway.Availability(ctx, flags.Arg(0), day)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintf(a.out, "no bookings on %s, the whole day is free\n", *date)
		return nil
	}
	fmt.Fprintf(a.out, "FROM\tTO\tSTATUS\n")
	for _, s := range slots {
		status := "free"
		if s.Booked {
			status = "booked"
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", s.StartAt.Format("15:04"), s.EndAt.Format("15:04"), status)
	}
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("book", pflag.ExitOnError)
	from := flags.String("from", "", "start time, RFC 3339 (e.g. 2026-09-02T10:00:00Z)")
	to := flags.String("to", "", "end time, RFC 3339")
	notes := flags.String("notes", "", "optional note on the booking")
	flags.Parse(args)
	if flags.NArg() != 1 || *from == "" || *to == "" {
		return fmt.Errorf("usage: bookctl book <resource-id> --from <start> --to <end>")
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	start, err := time.Parse(time.RFC3339, *from)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	end, err := time.Parse(time.RFC3339, *to)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	booking, err := a.gateway.CreateBooking(ctx, client.BookingRequest{
		ResourceID: flags.Arg(0),
		StartAt:    start,
		EndAt:      end,
		Notes:      *notes,
	})
	if err != nil {
		if client.IsConflict(err) {
			return fmt.Errorf("that slot is already taken, check 'bookctl availability %s'", flags.Arg(0))
		}
		return err
	}
	fmt.Fprintf(a.out, "booked %s from %s to %s (id %s)\n",
		booking.Resource.Name,
		booking.StartAt.Format(time.RFC3339),
		booking.EndAt.Format(time.RFC3339),
		booking.ID)
	return nil
}

func (a *app) bookings(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	bookings, err := a.gateway.MyBookings(ctx)
	if err != nil {
		return err
	}
	printBookings(a.out, bookings, false)
	return nil
}

func (a *app) cancel(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("cancel", pflag.ExitOnError)
	yes := flags.Bool("yes", false, "skip the confirmation prompt")
	flags.Parse(args)
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: bookctl cancel <booking-id> [--yes]")
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	booking, err := a.findBooking(ctx, flags.Arg(0))
	if err != nil {
		return err
	}
	intent, err := a.gateway.BeginCancel(booking)
	if err != nil {
		return err
	}
	if !*yes && !confirm(fmt.Sprintf("cancel %s on %s?", booking.Resource.Name, booking.StartAt.Format(time.RFC3339))) {
		fmt.Fprintln(a.out, "kept the booking")
		return nil
	}

	cancelled, err := intent.Commit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "cancelled booking %s\n", cancelled.ID)
	return nil
}

// findBooking resolves an id against the caller's own bookings, falling back
// to the admin listing for admins cancelling on behalf of someone else.
func (a *app) findBooking(ctx context.Context, id string) (client.Booking, error) {
	own, err := a.gateway.MyBookings(ctx)
	if err != nil {
		return client.Booking{}, err
	}
	for _, b := range own {
		if b.ID == id {
			return b, nil
		}
	}
	if a.sessions.IsAdmin() {
		all, err := a.gateway.AdminBookings(ctx, client.BookingFilter{})
		if err != nil {
			return client.Booking{}, err
		}
		for _, b := range all {
			if b.ID == id {
				return b, nil
			}
		}
	}
	return client.Booking{}, fmt.Errorf("booking %s not found", id)
}

func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: bookctl admin <resources|add-resource|update-resource|bookings|cancel>")
	}
	if err := a.requireAdmin(); err != nil {
		return err
	}

	switch args[0] {
	case "resources":
		resources, err := a.gateway.AdminResources(ctx)
		if err != nil {
			return err
		}
		printResources(a.out, resources)
		return nil
	case "add-resource":
		return a.adminAddResource(ctx, args[1:])
	case "update-resource":
		return a.adminUpdateResource(ctx, args[1:])
	case "bookings":
		return a.adminBookings(ctx, args[1:])
	case "cancel":
		return a.cancel(ctx, args[1:])
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func (a *app) adminAddResource(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("add-resource", pflag.ExitOnError)
	name := flags.String("name", "", "resource name")
	description := flags.String("description", "", "resource description")
	flags.Parse(args)
	if *name == "" {
		return fmt.Errorf("add-resource needs --name")
	}

	resource, err := a.gateway.CreateResource(ctx, client.ResourceRequest{
		Name:        *name,
		Description: *description,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created resource %s (id %s)\n", resource.Name, resource.ID)
	return nil
}

func (a *app) adminUpdateResource(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("update-resource", pflag.ExitOnError)
	name := flags.String("name", "", "new resource name")
	description := flags.String("description", "", "new resource description")
	active := flags.Bool("active", true, "whether the resource accepts bookings")
	flags.Parse(args)
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: bookctl admin update-resource <resource-id> [flags]")
	}

	req := client.ResourceRequest{Name: *name, Description: *description}
	if flags.Changed("active") {
		req.Active = active
	}
	resource, err := a.gateway.UpdateResource(ctx, flags.Arg(0), req)
	if err != nil {
		return err
	}
	state := "inactive"
	if resource.Active {
		state = "active"
	}
	fmt.Fprintf(a.out, "updated resource %s (%s)\n", resource.Name, state)
	return nil
}

func (a *app) adminBookings(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("bookings", pflag.ExitOnError)
	resourceID := flags.String("resource", "", "filter by resource id")
	startDate := flags.String("start", "", "filter from this day (YYYY-MM-DD, inclusive)")
	endDate := flags.String("end", "", "filter up to this day (YYYY-MM-DD, inclusive)")
	flags.Parse(args)

	bookings, err := a.gateway.AdminBookings(ctx, client.BookingFilter{
		ResourceID: *resourceID,
		StartDate:  *startDate,
		EndDate:    *endDate,
	})
	if err != nil {
		return err
	}
	printBookings(a.out, bookings, true)
	return nil
}

func printResources(out *tabwriter.Writer, resources []domain.Resource) {
	sort.Slice(resources, func(i, j int) bool { return resources[i].Name < resources[j].Name })
	fmt.Fprintf(out, "ID\tNAME\tACTIVE\tDESCRIPTION\n")
	for _, r := range resources {
		fmt.Fprintf(out, "%s\t%s\t%t\t%s\n", r.ID, r.Name, r.Active, r.Description)
	}
}

func printBookings(out *tabwriter.Writer, bookings []client.Booking, withUser bool) {
	if withUser {
		fmt.Fprintf(out, "ID\tRESOURCE\tUSER\tFROM\tTO\tSTATUS\n")
	} else {
		fmt.Fprintf(out, "ID\tRESOURCE\tFROM\tTO\tSTATUS\n")
	}
	for _, b := range bookings {
		if withUser {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n",
				b.ID, b.Resource.Name, b.User.Email,
				b.StartAt.Format(time.RFC3339), b.EndAt.Format(time.RFC3339), b.Status)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Resource.Name,
			b.StartAt.Format(time.RFC3339), b.EndAt.Format(time.RFC3339), b.Status)
	}
}

func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "bookctl:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprint(os.Stderr, `bookctl - book and manage shared resources

Usage:
  bookctl [--server URL] [--session PATH] <command> [flags]

Commands:
  login            authenticate (--email, --password)
  register         create an account (--email, --password)
  logout           drop the stored session
  whoami           show the logged-in identity
  resources        list bookable resources
  availability     show a resource's day grid (<resource-id> [--date])
  book             create a booking (<resource-id> --from --to [--notes])
  bookings         list your bookings
  cancel           cancel a booking (<booking-id> [--yes])
  admin            resource and booking administration (admin role)
`)
}
