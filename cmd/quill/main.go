package main

import (
	"fmt"
	"os"
)

const usageText = `quill is a terminal client for a remote notes service.

Usage:
  quill <command> [flags]

Commands:
  ls         list notes
  add        create a note
  edit       update a note's title or content
  rm         delete a note
  archive    archive a note
  unarchive  restore an archived note
  tag        attach tags to a note
  cat        print one note
  login      store the API bearer token
  config     print configuration (effective or defaults)
  ui         run the interactive terminal UI
  help       show help

Flags:
  -h, --help   show help

Examples:
  quill ls --tag work --search "standup"
  quill add --title "Groceries" --content "milk, eggs"
  quill tag 12 work ideas
  quill cat 12
  quill ls --archived
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return
	}

	wiring := defaultCommandWiring(os.Stdout, os.Stderr)
	commands := buildCommands(wiring)

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	}

	runner, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
	exitOnErr(args[0], runner.Run(args[1:]), wiring.stderr)
}
