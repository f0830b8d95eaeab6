package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"cypress/internal/archive"
	"cypress/internal/backend"
	"cypress/internal/codec"
	"cypress/internal/network"
)

const defaultDBPath = "cypress.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "exec":
		return runExec(ctx, args[1:])
	case "inspect":
		return runInspect(ctx, args[1:])
	case "convert":
		return runConvert(ctx, args[1:])
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runExec(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	in := fs.String("in", "", "input document (.cbor or .json)")
	out := fs.String("out", "", "reply document path (default <in>_res.<ext>)")
	backendID := fs.String("backend", "", "backend identifier override (default: the document's simulator)")
	archiveRun := fs.Bool("archive", false, "persist the reply into the run archive")
	storeKind := fs.String("store", "memory", "archive backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return usageError("exec: -in is required")
	}

	doc, err := readDocument(*in)
	if err != nil {
		return err
	}
	outPath := *out
	if outPath == "" {
		ext := filepath.Ext(*in)
		outPath = strings.TrimSuffix(*in, ext) + "_res" + ext
	}

	net, err := codec.BuildNetwork(doc)
	var runErr error
	if err != nil {
		runErr = err
		net = network.New()
	} else {
		runErr = execute(ctx, net, doc, *backendID)
	}

	reply, err := codec.BuildDocument(net, doc.Simulator, doc.Setup, doc.Duration)
	if err != nil {
		return err
	}
	if runErr != nil {
		reply.Exception = runErr.Error()
	}
	if err := writeDocument(outPath, reply); err != nil {
		return err
	}

	if *archiveRun {
		if err := archiveReply(ctx, reply, *storeKind, *dbPath); err != nil {
			return err
		}
	}
	return runErr
}

// execute resolves the document's simulator through the dispatcher. A
// simulator without a native binding in this build falls back to the null
// backend so replies still carry well-formed empty recordings.
func execute(ctx context.Context, net *network.Network, doc *codec.Document, backendID string) error {
	id := backendID
	if id == "" {
		id = doc.Simulator
	}
	if id == "" {
		id = "null"
	}
	b, err := backend.New(id)
	if err != nil {
		if backendID != "" || !errors.Is(err, backend.ErrUnavailable) {
			return err
		}
		if b, err = backend.New("null"); err != nil {
			return err
		}
	}
	return net.Run(ctx, b, doc.Duration)
}

func archiveReply(ctx context.Context, reply *codec.Document, storeKind, dbPath string) error {
	payload, err := codec.Encode(reply)
	if err != nil {
		return err
	}

	store, err := archive.NewStore(storeKind, dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	id := archive.NewRunID()
	if err := store.SaveRun(ctx, archive.Run{
		SchemaVersion: archive.CurrentSchemaVersion,
		CodecVersion:  archive.CurrentCodecVersion,
		ID:            id,
		Simulator:     reply.Simulator,
		CreatedAt:     time.Now().UTC(),
		Duration:      reply.Duration,
		Payload:       payload,
	}); err != nil {
		return err
	}

	fmt.Printf("archived run %s\n", id)
	return nil
}

func runInspect(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	in := fs.String("in", "", "document to inspect (.cbor or .json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return usageError("inspect: -in is required")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	doc, err := decodeByExtension(*in, data)
	if err != nil {
		return err
	}

	fmt.Printf("simulator: %s\n", doc.Simulator)
	fmt.Printf("duration:  %g ms\n", doc.Duration)
	fmt.Printf("size:      %s\n", humanize.Bytes(uint64(len(data))))
	if doc.Exception != "" {
		fmt.Printf("exception: %s\n", doc.Exception)
	}

	fmt.Printf("populations (%d):\n", len(doc.Network.Populations))
	for i, p := range doc.Network.Populations {
		shape := "homogeneous"
		if !p.Parameters.Homogeneous {
			shape = "per-neuron"
		}
		fmt.Printf("  %3d %-24s size=%-6d label=%-16q parameters=%s\n", i, p.Type, p.Size, p.Label, shape)
	}

	fmt.Printf("connections (%d):\n", len(doc.Network.Connections))
	for _, c := range doc.Network.Connections {
		fmt.Printf("  %d[%d,%d) -> %d[%d,%d) %s/%s\n",
			c.PidSrc, c.NidSrc0, c.NidSrc1, c.PidTar, c.NidTar0, c.NidTar1,
			c.ConnName, c.SynName)
	}

	fmt.Printf("recordings: %d\n", len(doc.Network.Recordings))
	rt := doc.Network.Runtime
	fmt.Printf("runtime:    total=%gs sim=%gs init=%gs finalize=%gs\n",
		rt.Total, rt.Sim, rt.Initialize, rt.Finalize)
	return nil
}

func runConvert(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	in := fs.String("in", "", "input document (.cbor or .json)")
	out := fs.String("out", "", "output document (.cbor or .json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return usageError("convert: -in and -out are required")
	}

	doc, err := readDocument(*in)
	if err != nil {
		return err
	}
	return writeDocument(*out, doc)
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "archive backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := archive.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized archive store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "archive backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := archive.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}
	if err := store.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset archive store=%s\n", *storeKind)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "archive backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := archive.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-12s %10s  %8s  %g ms\n",
			r.ID, r.Simulator, humanize.Time(r.CreatedAt),
			humanize.Bytes(uint64(r.PayloadSize)), r.Duration)
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	id := fs.String("id", "", "run id")
	storeKind := fs.String("store", "memory", "archive backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("show: -id is required")
	}

	store, err := archive.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	run, ok, err := store.GetRun(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no archived run %s", *id)
	}

	fmt.Printf("run:       %s\n", run.ID)
	fmt.Printf("simulator: %s\n", run.Simulator)
	fmt.Printf("created:   %s (%s)\n", run.CreatedAt.Format(time.RFC3339), humanize.Time(run.CreatedAt))
	fmt.Printf("duration:  %g ms\n", run.Duration)
	fmt.Printf("payload:   %s\n", humanize.Bytes(uint64(run.PayloadSize)))

	doc, err := codec.Decode(run.Payload)
	if err != nil {
		return err
	}
	fmt.Printf("populations=%d connections=%d recordings=%d\n",
		len(doc.Network.Populations), len(doc.Network.Connections), len(doc.Network.Recordings))
	if doc.Exception != "" {
		fmt.Printf("exception: %s\n", doc.Exception)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	id := fs.String("id", "", "run id")
	out := fs.String("out", "", "output path (.cbor or .json)")
	storeKind := fs.String("store", "memory", "archive backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *out == "" {
		return usageError("export: -id and -out are required")
	}

	store, err := archive.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = archive.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	run, ok, err := store.GetRun(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no archived run %s", *id)
	}

	// Archived payloads are CBOR; a .json target converts on the way out.
	if strings.EqualFold(filepath.Ext(*out), ".json") {
		doc, err := codec.Decode(run.Payload)
		if err != nil {
			return err
		}
		return writeDocument(*out, doc)
	}
	return os.WriteFile(*out, run.Payload, 0o644)
}

func readDocument(path string) (*codec.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeByExtension(path, data)
}

func decodeByExtension(path string, data []byte) (*codec.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return codec.DecodeJSON(data)
	case ".cbor":
		return codec.Decode(data)
	default:
		return nil, fmt.Errorf("unsupported document extension: %s", path)
	}
}

func writeDocument(path string, doc *codec.Document) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = codec.EncodeJSON(doc)
	case ".cbor":
		data, err = codec.Encode(doc)
	default:
		return fmt.Errorf("unsupported document extension: %s", path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: cypressctl <exec|inspect|convert|init|reset|runs|show|export> [flags]", msg)
}
