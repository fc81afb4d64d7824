// Command invctl is a command-line client for the inventory server. It covers what the
// desktop form and the 3D tool plugin do: inventory edits and sending object transforms.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/MFahim14/test-assignment/internal/client"
	"github.com/MFahim14/test-assignment/internal/transform"
)

const usage = `usage: invctl [flags] <command> [args]

commands:
  ping
  list
  add NAME QUANTITY
  remove NAME
  update NAME QUANTITY
  translation X Y Z
  rotation X Y Z
  scale X Y Z
  transform PX PY PZ RX RY RZ SX SY SZ

flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "invctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("invctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", envOr("SERVER_URL", "http://127.0.0.1:5000"), "inventory server base URL")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	quiet := fs.BoolP("quiet", "q", false, "do not print progress while waiting")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	// Flags end at the command word; "scale 1 -2 3" carries a negative component, not a flag.
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	c, err := client.New(*server, &http.Client{Timeout: *timeout})
	if err != nil {
		return err
	}

	call, err := command(c, fs.Arg(0), fs.Args()[1:])
	if err != nil {
		return err
	}

	progress := stderr
	if *quiet {
		progress = io.Discard
	}
	result, err := wait(ctx, client.Go(ctx, call), progress)
	if err != nil {
		return err
	}
	return printResult(stdout, result)
}

// wait blocks on the pending call while printing a progress dot every half second,
// the way a UI would keep repainting while a request is in flight.
func wait(ctx context.Context, pending <-chan client.Result[any], progress io.Writer) (any, error) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	waited := false
	for {
		select {
		case res := <-pending:
			if waited {
				fmt.Fprintln(progress)
			}
			return res.Value, res.Err
		case <-ticker.C:
			waited = true
			fmt.Fprint(progress, ".")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type callFunc = func(context.Context) (any, error)

func command(c *client.Client, name string, args []string) (callFunc, error) {
	switch name {
	case "ping":
		if err := wantArgs(name, args, 0); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) { return c.Ping(ctx) }, nil

	case "list":
		if err := wantArgs(name, args, 0); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) { return c.Inventory(ctx) }, nil

	case "add", "update":
		if err := wantArgs(name, args, 2); err != nil {
			return nil, err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("quantity must be an integer: %q", args[1])
		}
		if name == "add" {
			return func(ctx context.Context) (any, error) { return c.AddItem(ctx, args[0], qty) }, nil
		}
		return func(ctx context.Context) (any, error) { return c.UpdateQuantity(ctx, args[0], qty) }, nil

	case "remove":
		if err := wantArgs(name, args, 1); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) { return c.RemoveItem(ctx, args[0]) }, nil

	case "translation", "rotation", "scale":
		vs, err := parseVectors(name, args, 1)
		if err != nil {
			return nil, err
		}
		v := vs[0]
		switch name {
		case "translation":
			return func(ctx context.Context) (any, error) { return c.Translation(ctx, v) }, nil
		case "rotation":
			return func(ctx context.Context) (any, error) { return c.Rotation(ctx, v) }, nil
		default:
			return func(ctx context.Context) (any, error) { return c.Scale(ctx, v) }, nil
		}

	case "transform":
		vs, err := parseVectors(name, args, 3)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (any, error) { return c.Transform(ctx, vs[0], vs[1], vs[2]) }, nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func wantArgs(name string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func parseVectors(name string, args []string, count int) ([]transform.Vector3, error) {
	if err := wantArgs(name, args, 3*count); err != nil {
		return nil, err
	}
	out := make([]transform.Vector3, count)
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", name, a)
		}
		out[i/3][i%3] = f
	}
	return out, nil
}

func printResult(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
