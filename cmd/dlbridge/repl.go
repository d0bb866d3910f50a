package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/daios-ai/dlbridge"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively open libraries and call symbols",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

const replHelp = `Commands:
  open <path>                         Open a library, print its handle id
  call <id> <sym> <ret> [t=v ...]     Call a symbol (values are JSON numbers)
  close <id>                          Close a handle
  libs                                List open handles
  help                                Show this help
  quit                                Exit`

func runRepl(_ *cobra.Command, _ []string) error {
	d, err := newDispatcher()
	if err != nil {
		return err
	}
	defer d.CloseAll()

	fmt.Printf("dlbridge %s REPL. Ctrl+D or quit to exit, help for commands.\n", dlbridge.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	// Handles opened in this session, for the libs listing.
	paths := map[dlbridge.HandleID]string{}

	for {
		line, err := ln.Prompt("dlb> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Println(replHelp)
		case "libs":
			if len(paths) == 0 {
				fmt.Println("(no open libraries)")
			}
			for id, p := range paths {
				fmt.Printf("%4d  %s\n", id, p)
			}
		case "open":
			if len(fields) != 2 {
				fmt.Println(color.RedString("usage: open <path>"))
				continue
			}
			id, err := d.OpenLibrary(fields[1])
			if err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			paths[id] = fields[1]
			fmt.Println(color.BlueString("%d", id))
		case "close":
			if len(fields) != 2 {
				fmt.Println(color.RedString("usage: close <id>"))
				continue
			}
			id, err := parseHandle(fields[1])
			if err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			if err := d.Close(id); err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			delete(paths, id)
		case "call":
			if len(fields) < 4 {
				fmt.Println(color.RedString("usage: call <id> <sym> <ret> [type=value ...]"))
				continue
			}
			id, err := parseHandle(fields[1])
			if err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			req, err := parseCallRequest(fields[2], fields[3], fields[4:])
			if err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			v, err := d.CallSymbol(id, req)
			if err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			fmt.Println(color.BlueString(v.String()))
		default:
			fmt.Println(color.RedString("unknown command %q (try help)", fields[0]))
		}
	}
}

func parseHandle(s string) (dlbridge.HandleID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("handle id %q: %w", s, err)
	}
	return dlbridge.HandleFromWire(n)
}
