package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"roombook-client/internal/app"
	"roombook-client/internal/model"
	"roombook-client/internal/workflow"
)

var errUsage = errors.New("invalid usage")

type cli struct {
	app *app.App
	in  *bufio.Reader
	out io.Writer
}

func newCLI(a *app.App, in io.Reader, out io.Writer) *cli {
	return &cli{app: a, in: bufio.NewReader(in), out: out}
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return c.login(ctx, args)
	case "register":
		return c.register(ctx, args)
	case "logout":
		c.app.Logout()
		return nil
	case "whoami":
		return c.whoami()
	case "rooms":
		return c.rooms(ctx, args)
	case "reservations":
		return c.reservations(ctx, args)
	case "users":
		return c.users(ctx)
	case "dashboard":
		return c.dashboard(ctx)
	case "watch":
		c.app.Reminders.Run(ctx)
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
		return nil
	}
	fmt.Fprint(c.out, usage)
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// Confirm asks on the terminal. Anything but y or yes declines.
func (c *cli) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (c *cli) Navigate(path string) {
	fmt.Fprintf(c.out, "-> %s\n", path)
}

// flush prints the notifications raised while the command ran.
func (c *cli) flush() {
	for _, n := range c.app.Notifications.Active() {
		if n.Description == "" {
			fmt.Fprintf(c.out, "[%s] %s\n", n.Level, n.Title)
			continue
		}
		fmt.Fprintf(c.out, "[%s] %s: %s\n", n.Level, n.Title, n.Description)
	}
	c.app.Notifications.Clear()
}

func (c *cli) parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(c.out)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	st := c.app.Session.Login(ctx, model.LoginInput{Username: *username, Password: *password})
	// A failed login keeps the previous session, so check the error first.
	if st.Error != "" {
		return errors.New(st.Error)
	}
	if !st.IsAuthenticated {
		return errors.New("login failed")
	}
	fmt.Fprintf(c.out, "logged in as %s (%s)\n", st.User.Username, st.User.Role)
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	st := c.app.Session.Register(ctx, model.RegisterInput{Username: *username, Email: *email, Password: *password})
	if st.Error != "" {
		return errors.New(st.Error)
	}
	if !st.IsAuthenticated {
		return errors.New("registration failed")
	}
	fmt.Fprintf(c.out, "registered %s\n", st.User.Username)
	return nil
}

func (c *cli) whoami() error {
	st := c.app.Session.Snapshot()
	if !st.IsAuthenticated || st.User == nil {
		fmt.Fprintln(c.out, "not logged in")
		return nil
	}
	fmt.Fprintf(c.out, "%s <%s> %s\n", st.User.Username, st.User.Email, st.User.Role)
	return nil
}

func (c *cli) rooms(ctx context.Context, args []string) error {
	sub, rest := subcommand(args, "list")
	catalog := c.app.RoomCatalog(c, c)

	switch sub {
	case "list":
		if err := catalog.Load(ctx); err != nil {
			return err
		}
		c.printRooms(catalog.Rooms(), nil)
		return nil

	case "available":
		fs := flag.NewFlagSet("rooms available", flag.ContinueOnError)
		start := fs.String("start", "", "start time, YYYY-MM-DDTHH:mm")
		end := fs.String("end", "", "end time, YYYY-MM-DDTHH:mm")
		if err := c.parse(fs, rest); err != nil {
			return err
		}
		rooms, err := c.app.Rooms.GetAvailable(ctx, *start, *end)
		if err != nil {
			return err
		}
		c.printRooms(rooms, nil)
		return nil

	case "create":
		fs := flag.NewFlagSet("rooms create", flag.ContinueOnError)
		in := roomFlags(fs, model.RoomInput{})
		if err := c.parse(fs, rest); err != nil {
			return err
		}
		room, err := catalog.Create(ctx, *in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "created room %d\n", room.ID)
		return nil

	case "update":
		fs := flag.NewFlagSet("rooms update", flag.ContinueOnError)
		id := fs.Int64("id", 0, "room id")
		in := roomFlags(fs, model.RoomInput{})
		if err := c.parse(fs, rest); err != nil {
			return err
		}
		current, err := catalog.Edit(ctx, *id)
		if err != nil {
			return err
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				current.Name = in.Name
			case "description":
				current.Description = in.Description
			case "capacity":
				current.Capacity = in.Capacity
			case "location":
				current.Location = in.Location
			case "equipment":
				current.Equipment = in.Equipment
			}
		})
		if _, err := catalog.Update(ctx, *id, current); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "updated room %d\n", *id)
		return nil

	case "delete":
		fs := flag.NewFlagSet("rooms delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "room id")
		if err := c.parse(fs, rest); err != nil {
			return err
		}
		if err := catalog.Load(ctx); err != nil {
			return err
		}
		if err := catalog.Delete(ctx, *id); err != nil && !errors.Is(err, workflow.ErrCancelled) {
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: unknown rooms command %q", errUsage, sub)
}

func roomFlags(fs *flag.FlagSet, def model.RoomInput) *model.RoomInput {
	in := def
	fs.StringVar(&in.Name, "name", def.Name, "room name")
	fs.StringVar(&in.Description, "description", def.Description, "description")
	fs.IntVar(&in.Capacity, "capacity", def.Capacity, "number of seats")
	fs.StringVar(&in.Location, "location", def.Location, "location")
	fs.StringVar(&in.Equipment, "equipment", def.Equipment, "equipment")
	return &in
}

func (c *cli) reservations(ctx context.Context, args []string) error {
	sub, rest := subcommand(args, "list")

	switch sub {
	case "list":
		list := c.app.ReservationList(c)
		if err := list.Load(ctx); err != nil {
			return err
		}
		c.printReservations(list.Items())
		return nil

	case "new":
		fs := flag.NewFlagSet("reservations new", flag.ContinueOnError)
		roomID := fs.Int64("room", 0, "room id")
		start := fs.String("start", "", "start time, YYYY-MM-DDTHH:mm (default tomorrow 09:00)")
		end := fs.String("end", "", "end time, YYYY-MM-DDTHH:mm (default tomorrow 10:00)")
		purpose := fs.String("purpose", "", "purpose of the meeting")
		if err := c.parse(fs, rest); err != nil {
			return err
		}

		form := c.app.BookingForm(c)
		if err := form.Load(ctx); err != nil {
			return err
		}
		if *start != "" {
			form.SetStartTime(ctx, *start)
		}
		if *end != "" {
			form.SetEndTime(ctx, *end)
		}
		form.SetPurpose(*purpose)

		if *roomID == 0 {
			v := form.Values()
			fmt.Fprintf(c.out, "rooms for %s - %s:\n", v.StartTime, v.EndTime)
			var rooms []model.Room
			available := map[int64]bool{}
			for _, opt := range form.Candidates() {
				rooms = append(rooms, opt.Room)
				available[opt.Room.ID] = opt.Selectable
			}
			c.printRooms(rooms, available)
			return fmt.Errorf("%w: -room is required", errUsage)
		}
		if err := form.SelectRoom(*roomID); err != nil {
			return err
		}
		res, err := form.Submit(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "reservation %d: %s %s - %s\n", res.ID, res.Room.Name, res.StartTime, res.EndTime)
		return nil

	case "cancel":
		fs := flag.NewFlagSet("reservations cancel", flag.ContinueOnError)
		id := fs.Int64("id", 0, "reservation id")
		if err := c.parse(fs, rest); err != nil {
			return err
		}
		list := c.app.ReservationList(c)
		if err := list.Load(ctx); err != nil {
			return err
		}
		if err := list.Cancel(ctx, *id); err != nil {
			if errors.Is(err, workflow.ErrCancelled) {
				return nil
			}
			return err
		}
		c.printReservations(list.Items())
		return nil
	}
	return fmt.Errorf("%w: unknown reservations command %q", errUsage, sub)
}

func (c *cli) users(ctx context.Context) error {
	dir := c.app.UserDirectory()
	if err := dir.Load(ctx); err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, u := range dir.Users() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	_ = w.Flush()
	counts := dir.Counts()
	fmt.Fprintf(c.out, "%d users, %d admins, %d regular\n", counts.Total, counts.Admins, counts.Users)
	return nil
}

func (c *cli) dashboard(ctx context.Context) error {
	stats, err := c.app.Dashboard().Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "rooms: %d\nreservations: %d\nmine: %d\n", stats.TotalRooms, stats.TotalReservations, stats.MyReservations)
	return nil
}

// printRooms writes a room table. A nil available map omits the column.
func (c *cli) printRooms(rooms []model.Room, available map[int64]bool) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	header := "ID\tNAME\tCAPACITY\tLOCATION"
	if available != nil {
		header += "\tAVAILABLE"
	}
	fmt.Fprintln(w, header)
	for _, r := range rooms {
		line := fmt.Sprintf("%d\t%s\t%d\t%s", r.ID, r.Name, r.Capacity, r.Location)
		if available != nil {
			line += fmt.Sprintf("\t%t", available[r.ID])
		}
		fmt.Fprintln(w, line)
	}
	_ = w.Flush()
}

func (c *cli) printReservations(items []model.Reservation) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROOM\tSTART\tEND\tSTATUS\tUSER\tPURPOSE")
	for _, r := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Room.Name, r.StartTime, r.EndTime, r.Status, r.UserName, r.Purpose)
	}
	_ = w.Flush()
}

// subcommand splits args into a verb and its flags. Flags alone mean def.
func subcommand(args []string, def string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return def, args
	}
	return args[0], args[1:]
}
