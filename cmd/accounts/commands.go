package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kuvalkin/accounts/internal/service/account"
)

const usage = `usage: accounts [flags] <command> [arguments]

commands:
  lookup <username>
  register <username> <email>    password is read from stdin
  authenticate <username>        password is read from stdin
`

type commands struct {
	service account.Service
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *commands) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, usage)

		return 2
	}

	var err error

	switch args[0] {
	case "lookup":
		err = c.lookup(ctx, args[1:])
	case "register":
		err = c.register(ctx, args[1:])
	case "authenticate":
		err = c.authenticate(ctx, args[1:])
	default:
		fmt.Fprint(c.stderr, usage)

		return 2
	}

	if err != nil {
		fmt.Fprintln(c.stderr, err)

		if errors.Is(err, errUsage) {
			fmt.Fprint(c.stderr, usage)

			return 2
		}

		return 1
	}

	return 0
}

var errUsage = errors.New("wrong number of arguments")

func (c *commands) lookup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	acc, found, err := c.service.Lookup(ctx, args[0])
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("account %q not found", args[0])
	}

	fmt.Fprintf(c.stdout, "username: %s\nemail: %s\n", acc.Username, acc.Email)

	return nil
}

func (c *commands) register(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	password, err := c.readPassword()
	if err != nil {
		return err
	}

	err = c.service.Register(ctx, args[0], args[1], password)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.stdout, "Success")

	return nil
}

func (c *commands) authenticate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	password, err := c.readPassword()
	if err != nil {
		return err
	}

	profile, err := c.service.Authenticate(ctx, args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "username: %s\nemail: %s\n", profile.Username, profile.Email)

	return nil
}

// readPassword prompts without echo on a terminal, otherwise takes the first line of stdin
func (c *commands) readPassword() (string, error) {
	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.stderr, "Password: ")

		buf, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.stderr)

		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}

		return string(buf), nil
	}

	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
