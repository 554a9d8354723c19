// Package output is the response surface: it renders dispatch results and
// failures for the terminal.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/terraconstructs/shopctl/internal/dispatch"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

// Format selects how response bodies are printed.
type Format string

const (
	// FormatPretty indents JSON bodies with two spaces.
	FormatPretty Format = "pretty"
	// FormatJSON prints bodies compactly for piping.
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPretty:
		return FormatPretty, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected pretty or json)", s)
	}
}

// Printer writes bodies to Out and status lines to Err, so Out stays
// pipeable in both formats.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format Format
}

// Result renders a successful dispatch.
func (p *Printer) Result(res *dispatch.Result) {
	if res.Method != "" {
		pterm.Success.WithWriter(p.Err).Printfln("%s %s -> %d", res.Method, res.Path, res.StatusCode)
	} else {
		pterm.Success.WithWriter(p.Err).Printfln("%s done", res.Operation)
	}
	for _, effect := range res.Effects {
		pterm.Info.WithWriter(p.Err).Println(effect)
	}
	for _, warning := range res.Warnings {
		pterm.Warning.WithWriter(p.Err).Println(warning)
	}
	if len(res.Body) > 0 {
		fmt.Fprintln(p.Out, FormatBody(res.Body, p.Format))
	}
}

// Failure renders err on the status stream.
func (p *Printer) Failure(err error) {
	pterm.Error.WithWriter(p.Err).Println(Describe(err))
}

// Table renders rows with the first row as header.
func (p *Printer) Table(rows [][]string) error {
	return pterm.DefaultTable.WithHasHeader().WithWriter(p.Out).WithData(rows).Render()
}

// Describe turns the three failure classes into one line of operator text.
func Describe(err error) string {
	var denied *dispatch.AuthorizationDeniedError
	var server *sdk.ServerError
	var transport *sdk.TransportError

	switch {
	case errors.As(err, &denied):
		return "Not permitted: " + denied.Error()
	case errors.As(err, &server):
		return fmt.Sprintf("%s (HTTP %d)", server.Message, server.StatusCode)
	case errors.As(err, &transport):
		return fmt.Sprintf("Request failed: %v", transport.Err)
	default:
		return err.Error()
	}
}

// FormatBody prints JSON indented or compact according to format. Bodies
// that are not JSON are returned as text.
func FormatBody(body []byte, format Format) string {
	var buf bytes.Buffer
	var err error
	if format == FormatJSON {
		err = json.Compact(&buf, body)
	} else {
		err = json.Indent(&buf, body, "", "  ")
	}
	if err != nil {
		return strings.TrimRight(string(body), "\n")
	}
	return buf.String()
}
