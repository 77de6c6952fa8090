package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	remotebridge "github.com/wippyai/remote-bridge"
	"github.com/wippyai/remote-bridge/bridge"
	"github.com/wippyai/remote-bridge/ffi"
	"github.com/wippyai/remote-bridge/wasmtransport"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to guest wasm module used as the foreign runtime")
		libFile     = flag.String("lib", "", "Path to native shared library used as the foreign runtime")
		echo        = flag.Bool("echo", false, "Use the in-process echo transport")
		conn        = flag.Int("conn", 0, "Connection id")
		request     = flag.String("req", "", "Request payload")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *wasmFile == "" && *libFile == "" && !*echo {
		fmt.Fprintln(os.Stderr, "Usage: bridge -wasm <file.wasm> [-conn id] -req <payload>")
		fmt.Fprintln(os.Stderr, "       bridge -lib <libfoo.so> [-conn id] -req <payload>")
		fmt.Fprintln(os.Stderr, "       bridge -echo -req <payload>")
		fmt.Fprintln(os.Stderr, "       bridge -echo -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		bridge.SetLogger(logger)
		wasmtransport.SetLogger(logger)
		ffi.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*wasmFile, *libFile, *echo); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *libFile, *echo, int32(*conn), []byte(*request)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, libFile string, echo bool, connectionID int32, request []byte) error {
	ctx := context.Background()

	b := bridge.New()
	transport, cleanup, err := buildTransport(ctx, b, wasmFile, libFile, echo)
	if err != nil {
		return err
	}
	defer cleanup()

	p := b.NewPlatform(transport)
	fmt.Printf("Platform: %d\n", p.Handle())

	response, err := p.SendRequest(ctx, connectionID, request)
	if err != nil {
		return err
	}

	fmt.Printf("Response (%d bytes): %s\n", len(response), response)
	return nil
}

// buildTransport picks the foreign runtime from the flags: a wasm guest, a
// native shared library, or the in-process echo loopback.
func buildTransport(ctx context.Context, b *bridge.Bridge, wasmFile, libFile string, echo bool) (remotebridge.Transport, func(), error) {
	switch {
	case wasmFile != "":
		guest, err := os.ReadFile(wasmFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read guest: %w", err)
		}
		t, err := wasmtransport.New(ctx, b.Dispatcher(), guest)
		if err != nil {
			return nil, nil, err
		}
		return t, func() { _ = t.Close(ctx) }, nil

	case libFile != "":
		t, err := ffi.Load(libFile, b.Dispatcher())
		if err != nil {
			return nil, nil, err
		}
		return t, func() { _ = t.Close(ctx) }, nil

	case echo:
		return bridge.NewLoopback(b.Dispatcher(), nil), func() {}, nil
	}
	return nil, nil, fmt.Errorf("no transport selected")
}
