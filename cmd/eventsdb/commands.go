package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ahmetcoskunkizilkaya/community-events/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-events/internal/services"
)

var errEventNotFound = errors.New("event not found")

type app struct {
	store      *database.Store
	cfg        *config.Config
	clock      clockwork.Clock
	out        io.Writer
	categories *services.CategoryService
	events     *services.EventService
	session    *services.SessionService
}

func newApp(store *database.Store, cfg *config.Config, clock clockwork.Clock, out io.Writer) *app {
	return &app{
		store:      store,
		cfg:        cfg,
		clock:      clock,
		out:        out,
		categories: services.NewCategoryService(store),
		events:     services.NewEventService(store, clock, cfg.Location()),
		session:    services.NewSessionService(store),
	}
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"init", "create the schema and seed data (-dev adds sample users and events)", runInit},
	{"categories", "list categories", runCategories},
	{"upcoming", "list the next three upcoming events (-all for every one, latest first)", runUpcoming},
	{"event", "show one event with its attendees (-id N)", runEvent},
	{"status", "check the database and print row counts", runStatus},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func runInit(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("init")
	dev := fs.Bool("dev", false, "also seed development users and events")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// run already called Initialize, which seeds dev data when SEED_DEV_DATA is on.
	if *dev && !a.cfg.SeedDevData {
		if err := database.SeedDevData(ctx, a.store, a.clock.Now().In(a.cfg.Location())); err != nil {
			return fmt.Errorf("failed to seed dev data: %w", err)
		}
	}

	return a.writeJSON(map[string]any{
		"status": "initialized",
		"path":   a.cfg.DBPath,
	})
}

func runCategories(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("categories").Parse(args); err != nil {
		return err
	}

	categories, err := a.categories.ListAll(ctx)
	if err != nil {
		return err
	}
	return a.writeJSON(categories)
}

func runUpcoming(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("upcoming")
	all := fs.Bool("all", false, "list every upcoming event, latest start first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list := a.events.ListUpcomingTop3
	if *all {
		list = a.events.ListAllUpcomingDesc
	}
	events, err := list(ctx)
	if err != nil {
		return err
	}
	return a.writeJSON(events)
}

func runEvent(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("event")
	id := fs.Int64("id", 0, "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("-id is required")
	}

	detail, ok, err := a.events.GetDetail(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", errEventNotFound, *id)
	}
	return a.writeJSON(detail)
}

type statusReport struct {
	Path          string           `json:"path"`
	CheckedAt     string           `json:"checked_at"`
	Rows          map[string]int64 `json:"rows"`
	CurrentUserID *string          `json:"current_user_id,omitempty"`
}

func runStatus(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet("status").Parse(args); err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.store.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	report := statusReport{
		Path:      a.cfg.DBPath,
		CheckedAt: a.clock.Now().In(a.cfg.Location()).Format(time.RFC3339),
		Rows:      make(map[string]int64),
	}
	for _, table := range []string{"users", "categories", "events", "event_attendees"} {
		n, _, err := database.QueryOne[int64](ctx, a.store, `SELECT COUNT(1) FROM `+table)
		if err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		report.Rows[table] = n
	}

	userID, ok, err := a.session.GetCurrentUserID(ctx)
	if err != nil {
		return err
	}
	if ok {
		report.CurrentUserID = &userID
	}

	return a.writeJSON(report)
}
