// Command minifetch performs a single HTTP/1.1 request and prints the response.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/indigo-web/minihttp/client"
	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/payload"
	"github.com/indigo-web/minihttp/internal/history"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "minifetch: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	opts, err := loadOptions(args)
	if err != nil {
		return err
	}

	log := newLogger(opts.LogLevel)
	defer func() {
		_ = log.Sync()
	}()

	if opts.ShowHistory > 0 {
		return showHistory(out, opts)
	}

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Log.Logger = log
	cfg.TLS.InsecureSkipVerify = opts.Insecure

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	resp, fetchErr := client.New(cfg).Do(ctx, req)

	if len(opts.History) > 0 {
		if err = record(opts.History, req, resp, fetchErr); err != nil {
			log.Warn("failed to record history", zap.Error(err))
		}
	}

	if fetchErr != nil {
		return fetchErr
	}

	return printResponse(out, opts.Format, resp)
}

func buildRequest(opts *options) (*client.Request, error) {
	m := method.GET
	if len(opts.Data) > 0 {
		m = method.POST
	}

	if len(opts.Method) > 0 {
		if m = method.Parse(strings.ToUpper(opts.Method)); m == method.Unknown {
			return nil, fmt.Errorf("unsupported method %q", opts.Method)
		}
	}

	req := client.NewRequest(m, opts.URL)
	for _, h := range opts.Headers {
		key, value, err := parseHeader(h)
		if err != nil {
			return nil, err
		}

		req.WithHeader(key, value)
	}

	if len(opts.Data) > 0 {
		data := []byte(opts.Data)
		if json.ConfigCompatibleWithStandardLibrary.Valid(data) {
			req.WithBody(payload.JSON(json.RawMessage(data)))
		} else {
			req.WithBody(payload.Text(opts.Data))
		}
	}

	return req, nil
}

func record(path string, req *client.Request, resp client.Response, fetchErr error) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}

	entry := history.Entry{
		Time:     time.Now().UTC(),
		Method:   req.Method.String(),
		URL:      req.URL,
		Code:     uint16(resp.Code),
		BodySize: len(resp.Body),
	}

	if fetchErr != nil {
		entry.Error = fetchErr.Error()
	}

	return errors.Join(store.Append(entry), store.Close())
}

func showHistory(out io.Writer, opts *options) error {
	store, err := history.Open(opts.History)
	if err != nil {
		return err
	}

	defer store.Close()

	entries, err := store.List(opts.ShowHistory)
	if err != nil {
		return err
	}

	if opts.Format != "text" {
		if entries == nil {
			entries = []history.Entry{}
		}

		return encode(out, opts.Format, entries)
	}

	for _, e := range entries {
		outcome := fmt.Sprint(e.Code)
		if len(e.Error) > 0 {
			outcome = e.Error
		}

		if _, err = fmt.Fprintf(out, "%s %s %s %s (%d bytes)\n",
			e.Time.Format(time.RFC3339), e.Method, e.URL, outcome, e.BodySize,
		); err != nil {
			return err
		}
	}

	return nil
}
