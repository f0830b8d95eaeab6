package backend

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"cypress/internal/codec"
	"cypress/internal/model"
	"cypress/internal/network"
)

// Transport-level setup keys consumed by the json scheme itself; everything
// else travels to the inner simulator in the document's setup section.
const (
	setupKeyExec = "exec"
	setupKeyJSON = "json"
	setupKeyKeep = "keep"
)

var defaultExecCommand = []string{"cypressctl", "exec"}

// jsonTransport serializes the network, spawns an out-of-process executor
// on the document and merges the reply's recordings back. The inner
// simulator name travels in the document's simulator field.
type jsonTransport struct {
	simulator string
	setup     map[string]any
	execArgs  []string
	useJSON   bool
	keep      bool
}

func newJSONTransport(name string, setup map[string]any) (Backend, error) {
	b := &jsonTransport{
		simulator: name,
		execArgs:  append([]string(nil), defaultExecCommand...),
	}
	for key, value := range setup {
		switch key {
		case setupKeyExec:
			args, ok := anySlice(value)
			if !ok || len(args) == 0 {
				return nil, fmt.Errorf("%w: json setup key %q needs a non-empty string array", ErrUnavailable, setupKeyExec)
			}
			b.execArgs = args
		case setupKeyJSON:
			on, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: json setup key %q needs a bool", ErrUnavailable, setupKeyJSON)
			}
			b.useJSON = on
		case setupKeyKeep:
			on, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: json setup key %q needs a bool", ErrUnavailable, setupKeyKeep)
			}
			b.keep = on
		default:
			if b.setup == nil {
				b.setup = make(map[string]any)
			}
			b.setup[key] = value
		}
	}
	return b, nil
}

func anySlice(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func (b *jsonTransport) Name() string {
	if b.simulator == "" {
		return "json"
	}
	return "json." + b.simulator
}

func (b *jsonTransport) Run(ctx context.Context, net *network.Network, duration model.Real) error {
	doc, err := codec.BuildDocument(net, b.simulator, b.setup, duration)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}

	ext := ".cbor"
	encode, decode := codec.Encode, codec.Decode
	if b.useJSON {
		ext = ".json"
		encode, decode = codec.EncodeJSON, codec.DecodeJSON
	}

	payload, err := encode(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}

	dir, err := os.MkdirTemp("", "cypress-run-")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}
	if !b.keep {
		defer os.RemoveAll(dir)
	}

	inPath := filepath.Join(dir, "network"+ext)
	outPath := filepath.Join(dir, "network_res"+ext)
	if err := os.WriteFile(inPath, payload, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}

	args := append(append([]string(nil), b.execArgs[1:]...), "-in", inPath, "-out", outPath)
	cmd := exec.CommandContext(ctx, b.execArgs[0], args...)
	output, runErr := cmd.CombinedOutput()

	reply, readErr := os.ReadFile(outPath)
	if readErr != nil {
		if runErr != nil {
			return fmt.Errorf("%w: executor: %v: %s", ErrExecution, runErr, output)
		}
		return fmt.Errorf("%w: executor wrote no reply: %v", ErrExecution, readErr)
	}

	res, err := decode(reply)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}
	// Recordings that made it into the reply are kept even when the run
	// failed downstream.
	if err := codec.MergeRecordings(res, net); err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}
	if res.Exception != "" {
		return fmt.Errorf("%w: %s", ErrExecution, res.Exception)
	}
	if runErr != nil {
		return fmt.Errorf("%w: executor: %v: %s", ErrExecution, runErr, output)
	}
	return nil
}
