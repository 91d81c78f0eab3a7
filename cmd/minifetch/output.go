package main

import (
	"fmt"
	"io"

	json "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/indigo-web/minihttp/client"
	"github.com/indigo-web/minihttp/http/status"
)

type header struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

type report struct {
	Protocol string   `json:"protocol" yaml:"protocol"`
	Code     uint16   `json:"code" yaml:"code"`
	Status   string   `json:"status" yaml:"status"`
	Headers  []header `json:"headers" yaml:"headers"`
	Body     *string  `json:"body" yaml:"body"`
}

func newReport(resp client.Response) report {
	r := report{
		Protocol: resp.Protocol.String(),
		Code:     uint16(resp.Code),
		Status:   string(resp.Status),
		Headers:  []header{},
	}

	if resp.Headers != nil {
		for key, value := range resp.Headers.Iter() {
			r.Headers = append(r.Headers, header{key, value})
		}
	}

	if text, ok := resp.Text(); ok {
		r.Body = &text
	}

	return r
}

func printResponse(w io.Writer, format string, resp client.Response) error {
	r := newReport(resp)

	if format != "text" {
		return encode(w, format, r)
	}

	reason := r.Status
	if len(reason) == 0 {
		// the reason phrase is optional on the wire
		reason = string(status.Text(resp.Code))
	}

	if _, err := fmt.Fprintf(w, "%s %d %s\n", r.Protocol, r.Code, reason); err != nil {
		return err
	}

	for _, h := range r.Headers {
		if _, err := fmt.Fprintf(w, "%s: %s\n", h.Key, h.Value); err != nil {
			return err
		}
	}

	if r.Body == nil {
		return nil
	}

	_, err := fmt.Fprintf(w, "\n%s", *r.Body)
	return err
}

// encode writes the value in the structured format, either json or yaml.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		data, err := json.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}

		_, err = w.Write(append(data, '\n'))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
