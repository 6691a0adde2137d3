// Command consolectl drives the console screens from a terminal:
//
//	consolectl list hotels -q ritz -status active
//	consolectl toggle cities c1
//	consolectl bulk contacts -active=false id1 id2 id3
//	consolectl delete languages fr -yes
//	consolectl create-user -name Ana -email ana@example.com -password ... -role viewer
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"travel_console/internal/adapters/backoffice"
	"travel_console/internal/adapters/observability"
	"travel_console/internal/app"
	"travel_console/internal/domain"
	"travel_console/internal/shared"
)

func main() {
	cfg := shared.Load()
	// stdout carries command output; logs go to stderr
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := backoffice.New(cfg.BackofficeBase, cfg.BackofficeToken, cfg.BackofficeRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backoffice client")
	}
	c := app.NewConsole(app.Backend{
		Cities:    client.Cities(),
		Hotels:    client.Hotels(),
		Contacts:  client.Contacts(),
		Languages: client.Languages(),
		Users:     client,
	}, app.ConsoleConfig{Workers: cfg.BulkConcurrency})

	cmd, args := os.Args[1], os.Args[2:]
	if cmd == "create-user" {
		err = createUser(ctx, c, args)
	} else {
		if len(args) < 1 {
			usage()
		}
		switch args[0] {
		case domain.ResourceCities:
			err = run(ctx, c.Cities, func(f app.Filter) func(domain.City) bool { return f.Cities() }, cmd, args[1:])
		case domain.ResourceHotels:
			err = run(ctx, c.Hotels, func(f app.Filter) func(domain.Hotel) bool { return f.Hotels() }, cmd, args[1:])
		case domain.ResourceContacts:
			err = run(ctx, c.Contacts, func(f app.Filter) func(domain.Contact) bool { return f.Contacts() }, cmd, args[1:])
		case domain.ResourceLanguages:
			err = run(ctx, c.Languages, func(f app.Filter) func(domain.Language) bool { return f.Languages() }, cmd, args[1:])
		default:
			usage()
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", domain.Message(err))
		for k, v := range domain.FieldErrors(err) {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", k, v)
		}
		log.Debug().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: consolectl list|toggle|bulk|delete <cities|hotels|contacts|languages> [flags] [ids...]")
	fmt.Fprintln(os.Stderr, "       consolectl create-user -name N -email E -password P -role editor|viewer")
	os.Exit(2)
}

func run[T domain.Entity[T]](ctx context.Context, s *app.Screen[T], pred func(app.Filter) func(T) bool, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	q := fs.String("q", "", "search text")
	status := fs.String("status", "all", "all|active|inactive")
	city := fs.String("city", "", "city id (hotels)")
	typ := fs.String("type", "", "contact type (contacts)")
	active := fs.Bool("active", true, "target state for bulk")
	yes := fs.Bool("yes", false, "confirm delete")
	_ = fs.Parse(args)

	if err := s.Load(ctx); err != nil {
		return err
	}

	switch cmd {
	case "list":
		f := app.Filter{Search: *q, Status: app.ParseStatus(*status), CityID: *city, Type: *typ}
		return printJSON(s.Filter(pred(f)))

	case "toggle":
		if fs.NArg() != 1 {
			return &domain.ValidationError{Message: "toggle needs exactly one id"}
		}
		out, err := s.Toggle(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return printJSON(out)

	case "bulk":
		s.Select(fs.Args()...)
		res, err := s.BulkApply(ctx, *active)
		if err != nil {
			return err
		}
		if msg := res.Summary(); msg != "" {
			fmt.Println(msg)
		} else {
			fmt.Printf("%d changed, %d unchanged.\n", len(res.Succeeded), len(res.Unchanged))
		}
		return nil

	case "delete":
		if fs.NArg() != 1 {
			return &domain.ValidationError{Message: "delete needs exactly one id"}
		}
		if !*yes {
			return &domain.ValidationError{Message: "Deleting is permanent. Re-run with -yes to confirm."}
		}
		tok, err := s.RequestDelete(fs.Arg(0))
		if err != nil {
			return err
		}
		return s.ConfirmDelete(ctx, fs.Arg(0), tok)
	}
	usage()
	return nil
}

func createUser(ctx context.Context, c *app.Console, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	var u domain.NewUser
	fs.StringVar(&u.Name, "name", "", "full name")
	fs.StringVar(&u.Email, "email", "", "email")
	fs.StringVar(&u.Password, "password", "", "initial password")
	fs.StringVar(&u.Role, "role", domain.RoleViewer, "editor|viewer")
	_ = fs.Parse(args)

	out, err := c.CreateUser(ctx, u)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
