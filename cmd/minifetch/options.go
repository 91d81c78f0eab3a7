package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MINIFETCH"

type options struct {
	URL         string
	Method      string
	Data        string
	Headers     []string
	Format      string
	History     string
	ShowHistory int
	LogLevel    string
	Insecure    bool
	Timeout     time.Duration
}

// loadOptions merges the command line with the environment. Flags take precedence over
// MINIFETCH_* variables, which may also come from the .env file.
func loadOptions(args []string) (*options, error) {
	_ = godotenv.Load(".env")

	fs := pflag.NewFlagSet("minifetch", pflag.ContinueOnError)
	fs.StringP("method", "X", "", "request method, GET by default or POST if data is set")
	fs.StringP("data", "d", "", "request body, sent as application/json if it is valid JSON")
	fs.StringArrayP("header", "H", nil, "request header in the key:value form, may be repeated")
	fs.StringP("format", "f", "text", "output format: text, json or yaml")
	fs.String("history", "", "path to the history database, disabled if empty")
	fs.Int("show-history", 0, "print the given number of the latest history entries and exit")
	fs.String("log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolP("insecure", "k", false, "skip the server certificate verification")
	fs.Duration("timeout", 0, "limit for the whole exchange, none by default")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	headers, err := fs.GetStringArray("header")
	if err != nil {
		return nil, err
	}

	opts := &options{
		Method:      v.GetString("method"),
		Data:        v.GetString("data"),
		Headers:     headers,
		Format:      strings.ToLower(v.GetString("format")),
		History:     v.GetString("history"),
		ShowHistory: v.GetInt("show-history"),
		LogLevel:    v.GetString("log-level"),
		Insecure:    v.GetBool("insecure"),
		Timeout:     v.GetDuration("timeout"),
	}

	switch opts.Format {
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("unknown format %q", opts.Format)
	}

	if opts.ShowHistory > 0 {
		if len(opts.History) == 0 {
			return nil, errors.New("--show-history requires --history")
		}

		return opts, nil
	}

	if fs.NArg() != 1 {
		return nil, errors.New("exactly one URL expected")
	}

	opts.URL = fs.Arg(0)

	return opts, nil
}

// parseHeader splits the key:value form.
func parseHeader(header string) (key, value string, err error) {
	key, value, found := strings.Cut(header, ":")
	key = strings.TrimSpace(key)
	if !found || len(key) == 0 {
		return "", "", fmt.Errorf("bad header %q: key:value expected", header)
	}

	return key, strings.TrimSpace(value), nil
}
