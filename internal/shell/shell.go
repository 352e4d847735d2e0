// Package shell is the interactive menu of usersdb. It reads one command per
// line, prompts for the command's fields and drives a users store.
//
// A failing store operation is reported and logged and the loop carries on;
// only end of input, the exit command or a cancelled context end a session.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/arllen133/userstore"
	"github.com/arllen133/userstore/clause"
)

const menu = "Enter Option (Add, Delete, Update, SearchId, Search All, Add Many, Search, Count, Exit): "

// Store is the part of *userstore.Store the shell uses.
type Store interface {
	Insert(ctx context.Context, u *userstore.User) error
	InsertMany(ctx context.Context, users []*userstore.User) (int, error)
	FetchAll(ctx context.Context, filters ...clause.Expression) ([]*userstore.User, error)
	FetchByID(ctx context.Context, id int64) (*userstore.User, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, filters ...clause.Expression) (int64, error)
}

var _ Store = (*userstore.Store)(nil)

// Shell runs the menu loop.
type Shell struct {
	store    Store
	in       io.Reader
	out      io.Writer
	logger   *slog.Logger
	reader   *lineReader
	commands map[string]func(context.Context) error
}

func New(store Store, in io.Reader, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Shell{store: store, in: in, out: out, logger: logger}
	s.commands = map[string]func(context.Context) error{
		"add":       s.add,
		"addmany":   s.addMany,
		"delete":    s.delete,
		"update":    s.update,
		"searchid":  s.searchID,
		"searchall": s.searchAll,
		"search":    s.search,
		"count":     s.count,
	}
	return s
}

// Run reads commands until exit or end of input, both of which return nil.
// A cancelled context returns the context's error.
func (s *Shell) Run(ctx context.Context) error {
	s.reader = newLineReader(s.in)
	defer s.reader.stop()

	for {
		line, err := s.ask(ctx, menu)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}
		cmd := normalize(line)
		switch cmd {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		handler, ok := s.commands[cmd]
		if !ok {
			fmt.Fprintln(s.out, "Invalid Option")
			continue
		}
		if err := handler(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, errAbandoned) {
				continue
			}
			s.report(ctx, cmd, err)
		}
	}
}

// normalize lowercases a command and drops its spaces, so "Add Many" and
// "addmany" name the same command.
func normalize(line string) string {
	return strings.Join(strings.Fields(strings.ToLower(line)), "")
}

func (s *Shell) report(ctx context.Context, cmd string, err error) {
	switch {
	case errors.Is(err, userstore.ErrConstraint):
		fmt.Fprintln(s.out, "Rejected: the email is already in use or the name is empty.")
	case errors.Is(err, userstore.ErrClosed):
		fmt.Fprintln(s.out, "The database is closed.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	s.logger.WarnContext(ctx, "command failed", "command", cmd, "err", err)
}

func (s *Shell) ask(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.reader.next(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// errAbandoned ends a command after its input was rejected at a prompt.
var errAbandoned = errors.New("shell: command abandoned")

// askInt reads an integer. A non-integer prints invalid and abandons the
// command. With optional set, a blank answer returns nil.
func (s *Shell) askInt(ctx context.Context, label, invalid string, optional bool) (*int64, error) {
	answer, err := s.ask(ctx, label)
	if err != nil {
		return nil, err
	}
	if answer == "" && optional {
		return nil, nil
	}
	n, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, invalid)
		return nil, errAbandoned
	}
	return &n, nil
}

func (s *Shell) askID(ctx context.Context, label string) (int64, error) {
	id, err := s.askInt(ctx, label, "Invalid id", false)
	if err != nil {
		return 0, err
	}
	return *id, nil
}

// askUser collects name, age and email. Age may be left blank.
func (s *Shell) askUser(ctx context.Context, nameLabel, ageLabel, emailLabel string) (*userstore.User, error) {
	name, err := s.ask(ctx, nameLabel)
	if err != nil {
		return nil, err
	}
	age, err := s.askInt(ctx, ageLabel, "Invalid age", true)
	if err != nil {
		return nil, err
	}
	email, err := s.ask(ctx, emailLabel)
	if err != nil {
		return nil, err
	}
	u := &userstore.User{Name: name, Email: email}
	if age != nil {
		a := int(*age)
		u.Age = &a
	}
	return u, nil
}

func (s *Shell) printUsers(users []*userstore.User) {
	if len(users) == 0 {
		fmt.Fprintln(s.out, "No users found.")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tEMAIL")
	for _, u := range users {
		age := "-"
		if u.Age != nil {
			age = strconv.Itoa(*u.Age)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, age, u.Email)
	}
	_ = tw.Flush()
}
