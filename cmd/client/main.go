package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/cx-tal-miterani/flight-booking-client/internal/config"
	"github.com/cx-tal-miterani/flight-booking-client/internal/logging"
)

// GlobalOptions override the environment configuration
type GlobalOptions struct {
	EnvFile        string `long:"env-file" description:"dotenv file loaded before reading the environment" default:".env"`
	APIBaseURL     string `long:"api-url" description:"booking REST backend base URL (API_BASE_URL)"`
	AccessToken    string `long:"token" description:"access or ID token of the signed-in user (ACCESS_TOKEN)"`
	UserID         string `long:"user-id" description:"user id when no token is given (USER_ID)"`
	LogLevel       string `long:"log-level" description:"log level (LOG_LEVEL)"`
	LogFormat      string `long:"log-format" description:"log format (LOG_FORMAT)" choice:"text" choice:"json"`
	RouteMatch     string `long:"route-match" description:"route filter policy (ROUTE_MATCH)" choice:"exact" choice:"contains"`
	StrictOrdering bool   `long:"strict-ordering" description:"ignore responses to superseded requests (STRICT_ORDERING)"`
}

func (o *GlobalOptions) apply(cfg *config.Config) error {
	if o.APIBaseURL != "" {
		cfg.APIBaseURL = o.APIBaseURL
	}
	if o.AccessToken != "" {
		cfg.AccessToken = o.AccessToken
	}
	if o.UserID != "" {
		cfg.UserID = o.UserID
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	if o.RouteMatch != "" {
		cfg.RouteMatch = o.RouteMatch
	}
	if o.StrictOrdering {
		cfg.StrictOrdering = true
	}
	return cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, builds the app and executes the selected command.
func run(args []string, stdout, stderr io.Writer) int {
	var opts GlobalOptions
	var current *app

	parser := flags.NewParser(&opts, flags.Default&^flags.PrintErrors)
	parser.Name = "flight-booking-client"

	commands := newCommands(func() *app { return current })
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.cmd); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	parser.CommandHandler = func(cmd flags.Commander, cmdArgs []string) error {
		cfg, err := config.Load(opts.EnvFile)
		if err != nil {
			return err
		}
		if err := opts.apply(cfg); err != nil {
			return err
		}

		log := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
		current, err = newApp(cfg, log, stdout)
		if err != nil {
			return err
		}
		return cmd.Execute(cmdArgs)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		if current != nil {
			current.log.WithError(err).Error("Command failed")
		} else {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}
