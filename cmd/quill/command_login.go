package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"quill/internal/config"
)

type LoginCommand struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

func NewLoginCommand(stdout, stderr io.Writer) *LoginCommand {
	return &LoginCommand{
		stdout: stdout,
		stderr: stderr,
		stdin:  os.Stdin,
	}
}

func (c *LoginCommand) Run(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	clear := fs.Bool("clear", false, "forget the stored token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := config.TokenPath()
	if err != nil {
		return err
	}

	if *clear {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		fmt.Fprintln(c.stdout, "session cleared")
		return nil
	}

	token := strings.TrimSpace(fs.Arg(0))
	if token == "" {
		fmt.Fprint(c.stderr, "token: ")
		scanner := bufio.NewScanner(c.stdin)
		if scanner.Scan() {
			token = strings.TrimSpace(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}
	if token == "" {
		return errors.New("login requires a token, as an argument or on stdin")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "token stored")
	return nil
}
