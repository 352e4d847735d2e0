package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arllen133/userstore"
)

func (s *Shell) add(ctx context.Context) error {
	u, err := s.askUser(ctx, "Enter Name: ", "Enter Age: ", "Enter Email: ")
	if err != nil {
		return err
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "User was inserted successfully (id %d)\n", u.ID)
	return nil
}

func (s *Shell) addMany(ctx context.Context) error {
	var batch []*userstore.User
	for {
		u, err := s.askUser(ctx, "Enter user's name: ", "Enter user's age: ", "Enter user's email: ")
		if err != nil {
			return err
		}
		batch = append(batch, u)
		more, err := s.ask(ctx, "Do you want to add another user? (y/n): ")
		if err != nil {
			return err
		}
		if strings.ToLower(more) != "y" {
			break
		}
	}
	n, err := s.store.InsertMany(ctx, batch)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(s.out, "No users to add.")
		return nil
	}
	fmt.Fprintf(s.out, "%d user(s) were added to the database\n", n)
	return nil
}

func (s *Shell) delete(ctx context.Context) error {
	id, err := s.askID(ctx, "Enter the user id you want to delete: ")
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "User was deleted")
	return nil
}

func (s *Shell) update(ctx context.Context) error {
	id, err := s.askID(ctx, "Enter the user id you want to update: ")
	if err != nil {
		return err
	}
	email, err := s.ask(ctx, "Enter the new email: ")
	if err != nil {
		return err
	}
	if err := s.store.UpdateEmail(ctx, id, email); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "User ID %d has new email of %s\n", id, email)
	return nil
}

func (s *Shell) searchID(ctx context.Context) error {
	id, err := s.askID(ctx, "Enter the user id you want to fetch: ")
	if err != nil {
		return err
	}
	u, err := s.store.FetchByID(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		fmt.Fprintf(s.out, "User %d not found\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "User %d\n", id)
	s.printUsers([]*userstore.User{u})
	return nil
}

func (s *Shell) searchAll(ctx context.Context) error {
	users, err := s.store.FetchAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "All Users:")
	s.printUsers(users)
	return nil
}

// search filters on one field with a comparison typed at the prompt.
func (s *Shell) search(ctx context.Context) error {
	column, err := s.ask(ctx, "Field (id, name, age, email): ")
	if err != nil {
		return err
	}
	op, err := s.ask(ctx, "Operator (=, !=, >, >=, <, <=, like): ")
	if err != nil {
		return err
	}
	value, err := s.ask(ctx, "Value: ")
	if err != nil {
		return err
	}
	pred, err := userstore.Users.Predicate(column, op, value)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid filter: %v\n", err)
		return nil
	}
	users, err := s.store.FetchAll(ctx, pred)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Users where %s %s %s:\n", strings.ToLower(column), pred.Op, value)
	s.printUsers(users)
	return nil
}

func (s *Shell) count(ctx context.Context) error {
	n, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d user(s)\n", n)
	return nil
}
