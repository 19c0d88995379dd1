// alien-console is an interactive command shell against one reader.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"alien_rfid_go/internal/config"
	"alien_rfid_go/sdk"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "alien-console").Logger()
	if cfg.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	}

	ch, err := cfg.OpenChannel()
	if err != nil {
		logger.Fatal().Err(err).Msg("open channel")
	}
	client, err := sdk.NewClient(ch, sdk.Config{
		Timeout:  cfg.Timeout,
		Login:    cfg.Login,
		Password: cfg.Password,
		Debug:    cfg.Debug,
		Logger:   &logger,
	})
	if err != nil {
		_ = ch.Close()
		logger.Fatal().Err(err).Str("target", cfg.Target()).Msg("connect")
	}
	defer client.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "alien> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create readline")
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "connected to %s\n", cfg.Target())
	printHelp(rl.Stdout())

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "exiting")
			return
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			printHelp(rl.Stdout())

		case "get":
			if len(args) == 0 {
				fmt.Fprintln(rl.Stdout(), "usage: get <setting> [<setting> ...]")
				continue
			}
			values, err := client.GetAll(args...)
			if err != nil {
				fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
				continue
			}
			for _, name := range args {
				fmt.Fprintf(rl.Stdout(), "%s = %v\n", name, values[name])
			}

		case "set":
			rest := strings.TrimSpace(input[len(parts[0]):])
			name, value, ok := strings.Cut(rest, "=")
			if !ok {
				fmt.Fprintln(rl.Stdout(), "usage: set <setting> = <value>")
				continue
			}
			failures, err := client.Set(map[string]any{
				strings.TrimSpace(name): strings.TrimSpace(value),
			})
			if err != nil {
				fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
				continue
			}
			for _, failure := range failures {
				fmt.Fprintf(rl.Stdout(), "failed: %s\n", failure)
			}
			if len(failures) == 0 {
				fmt.Fprintln(rl.Stdout(), "ok")
			}

		case "tags", "t":
			numReads := 0
			if len(args) > 0 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					numReads = n
				}
			}
			tags, err := client.ReadTagsWith(nil, numReads)
			if err != nil {
				fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
				continue
			}
			fmt.Fprintf(rl.Stdout(), "%d tag(s)\n", len(tags))
			for _, tag := range tags {
				fmt.Fprintf(rl.Stdout(), "  %s ant=%d\n", tag.ID, tag.Antenna)
			}

		case "sleep":
			reportAck(rl.Stdout(), client.SleepTags(nil))

		case "wake":
			reportAck(rl.Stdout(), client.WakeTags(nil))

		case "version", "v":
			info, err := client.Version()
			if err != nil {
				fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
				continue
			}
			fmt.Fprintln(rl.Stdout(), info.String)

		case "reboot":
			if err := client.Reboot(); err != nil {
				fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
				continue
			}
			fmt.Fprintln(rl.Stdout(), "reboot sent; reconnect required")
			return

		case "exit", "quit", "q":
			return

		default:
			fmt.Fprintf(rl.Stdout(), "unknown command %q (try help)\n", cmd)
		}
	}
}

func reportAck(w io.Writer, err error) {
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintln(w, "ok")
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `commands:
  get <setting> ...      read settings (Mask, Time, AntennaSequence, ...)
  set <setting> = <v>    write one setting
  tags [n]               read the tag list, optionally with n rounds
  sleep | wake           sleep or wake the tag population
  version                show the reader version report
  reboot                 restart the reader and exit
  exit                   leave the console
`)
}
