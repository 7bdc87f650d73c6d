// Command booktracker is the interactive reading tracker client. It talks
// to the books API and drives the list, add and detail screens from a
// terminal prompt.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/text/message"

	"booktracker/clients"
	"booktracker/config"
	"booktracker/data"
	"booktracker/internal/jsonlog"
	"booktracker/notify"
	"booktracker/screen"
)

// session bundles everything the command handlers need.
type session struct {
	line     *liner.State
	api      *clients.Client
	loop     *screen.Loop
	logger   *jsonlog.Logger
	notifier *notify.Notifier
	printer  *message.Printer
}

func main() {
	logger := jsonlog.New(os.Stderr, jsonlog.LevelInfo)

	var configPath string
	flag.StringVar(&configPath, "config", "booktracker.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	timeout, err := time.ParseDuration(cfg.Client.Timeout)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	notifier := notify.New(os.Stdout, logger, func() bool { return cfg.Notifications.Enabled })
	notifier.EnsureChannel(notify.DefaultChannel)
	defer notifier.Close()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	s := &session{
		line:     line,
		api:      clients.New(cfg.Client.BaseURL, clients.NewHTTPClient(timeout), logger),
		loop:     screen.NewLoop(),
		logger:   logger,
		notifier: notifier,
		printer:  data.Printer(cfg.Client.Locale),
	}

	list := screen.NewList(s.api, s.loop, logger, s.printer, os.Stdout)
	list.Activate()
	s.settle(list.Loading)

	fmt.Println(`Commands: list, add, open <n>, help, exit`)
	for {
		input, err := line.Prompt("booktracker> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			logger.PrintError(err, nil)
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		fields := strings.Fields(input)
		switch fields[0] {
		case "list", "ls":
			list.Refresh()
			s.settle(list.Loading)
		case "add":
			list.Deactivate()
			s.runCreate()
			// Returning from navigation re-fetches the whole list.
			list.Activate()
			s.settle(list.Loading)
		case "open":
			if len(fields) != 2 {
				fmt.Println("usage: open <n>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: open <n>")
				continue
			}
			book, ok := list.Book(n - 1)
			if !ok {
				fmt.Println("no such entry")
				continue
			}
			list.Deactivate()
			s.runDetail(book)
			list.Activate()
			s.settle(list.Loading)
		case "help":
			fmt.Println(`Commands: list, add, open <n>, help, exit`)
		case "exit", "quit":
			return
		default:
			fmt.Printf("unknown command %q, try help\n", fields[0])
		}
	}
}

// settle drains loop callbacks until busy reports false, so completions are
// applied before the next prompt.
func (s *session) settle(busy func() bool) {
	s.loop.Flush()
	for busy() {
		if !s.loop.Wait(time.Minute) {
			return
		}
	}
}

// prompt reads one line, optionally pre-filled with a suggestion the user
// can edit in place.
func (s *session) prompt(label, suggestion string) string {
	var input string
	var err error
	if suggestion != "" {
		input, err = s.line.PromptWithSuggestion(label, suggestion, len(suggestion))
	} else {
		input, err = s.line.Prompt(label)
	}
	if err != nil {
		return ""
	}
	return input
}

// promptForm fills a form in place, pre-filling each field with its current
// value so a failed submission leaves everything editable.
func (s *session) promptForm(f *screen.Form) {
	f.Title = s.prompt("Title: ", f.Title)
	f.Author = s.prompt("Author: ", f.Author)
	f.Year = s.prompt("Year (blank if unknown): ", f.Year)
	f.Status = s.promptStatus(f.Status)
	f.Note = s.prompt("Note: ", f.Note)
}

// promptStatus shows the four status options and reads a selection; any
// input that is not a valid option keeps the current one.
func (s *session) promptStatus(current string) string {
	for i, code := range data.Statuses {
		fmt.Printf("  %d. %s\n", i+1, data.StatusLabel(s.printer, code))
	}
	input := strings.TrimSpace(s.prompt(fmt.Sprintf("Status [1-%d]: ", len(data.Statuses)), ""))
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(data.Statuses) {
		return current
	}
	return data.Statuses[n-1]
}

func (s *session) runCreate() {
	done := false
	cs := screen.NewCreate(s.api, s.loop, s.logger, s.notifier, os.Stdout, func() { done = true })
	cs.Activate()
	defer cs.Deactivate()
	for !done {
		s.promptForm(&cs.Form)
		cs.Submit()
		s.settle(cs.Submitting)
		if done {
			return
		}
		if strings.TrimSpace(s.prompt("Try again? [y/N]: ", "")) != "y" {
			return
		}
	}
}

func (s *session) runDetail(book data.Book) {
	closed := false
	ds := screen.NewDetail(book, s.api, s.loop, s.logger, s.notifier, s.printer, os.Stdout,
		func(prompt string) bool {
			return strings.TrimSpace(s.prompt(prompt+" [y/N]: ", "")) == "y"
		},
		func() { closed = true })
	ds.Activate()
	defer ds.Deactivate()
	ds.Render()
	for !closed {
		input := strings.TrimSpace(s.prompt("detail> ", ""))
		switch strings.ToLower(input) {
		case "edit":
			if ds.Mode() == screen.ModeViewing {
				ds.Action()
			}
			s.promptForm(&ds.Form)
			ds.Action()
			s.settle(ds.Busy)
			ds.Render()
		case "delete":
			ds.Delete()
			s.settle(ds.Busy)
		case "show":
			ds.Render()
		case "back", "":
			return
		default:
			fmt.Println("commands: edit, delete, show, back")
		}
	}
}
