package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/daios-ai/dlbridge"
)

var callCmd = &cobra.Command{
	Use:   "call <library> <symbol> <returnType> [type=value ...]",
	Short: "Open a library, call one symbol, print the result",
	Example: `  dlbridge call --unstable --allow-all libm.so.6 sqrt f64 f64=9
  dlbridge call --unstable --allow-all libm.so.6 fma f64 f64=2 f64=3 f64=4
  dlbridge call --unstable --allow-all libc.so.6 abs i32 i32=-5`,
	Args: cobra.MinimumNArgs(3),
	RunE: runCall,
}

func runCall(_ *cobra.Command, args []string) error {
	d, err := newDispatcher()
	if err != nil {
		return err
	}
	defer d.CloseAll()

	req, err := parseCallRequest(args[1], args[2], args[3:])
	if err != nil {
		return err
	}
	id, err := d.OpenLibrary(args[0])
	if err != nil {
		return err
	}
	v, err := d.CallSymbol(id, req)
	if err != nil {
		return err
	}
	fmt.Println(color.BlueString(v.String()))
	return nil
}

// parseCallRequest builds the wire request from CLI arguments. Each argument
// is type=value, where value is a JSON number (or null).
func parseCallRequest(symbol, returnType string, pairs []string) (dlbridge.CallRequest, error) {
	req := dlbridge.CallRequest{Symbol: symbol, ReturnType: returnType}
	for _, pair := range pairs {
		typ, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return req, fmt.Errorf("argument %q: expected type=value", pair)
		}
		var v dlbridge.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return req, fmt.Errorf("argument %q: %w", pair, err)
		}
		req.Args = append(req.Args, dlbridge.CallArg{Type: typ, Value: v})
	}
	return req, nil
}
