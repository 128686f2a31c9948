// Command presentdemo drives a headless swapchain through a full
// lifecycle: backend bring-up, surface initialization, a short present
// loop with one captured frame, and teardown.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/present"
	"github.com/gogpu/present/addon/capture"
	"github.com/gogpu/present/backend"

	_ "github.com/gogpu/present/backend/wgpu"
)

func main() {
	var (
		width   = flag.Uint("width", 800, "surface width")
		height  = flag.Uint("height", 600, "surface height")
		samples = flag.Uint("samples", 4, "multisample count")
		frames  = flag.Int("frames", 3, "frames to present")
		outDir  = flag.String("out", "captures", "capture output directory")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	present.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	be, err := backend.InitDefault()
	if err != nil {
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer be.Close()
	log.Printf("Backend: %s", be.Name())

	surface, err := be.CreateSurface(present.SwapchainDescriptor{
		Width:       uint32(*width),
		Height:      uint32(*height),
		Format:      present.TextureFormatBGRA8,
		SampleCount: uint32(*samples),
	})
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}

	// The same recorder serves as event bus and runtime: it tracks the
	// surface through lifecycle events and writes armed frames from the
	// per-frame hook.
	rec := capture.New(*outDir)
	sc, err := present.NewSwapchain(present.Config{
		Device:  be.Device(),
		Surface: surface,
		Capture: be.Capture(),
		Bus:     rec,
		Hooks:   rec,
	})
	if err != nil {
		log.Fatalf("Failed to create swapchain: %v", err)
	}

	if err := sc.Initialize(); err != nil {
		log.Fatalf("Failed to initialize swapchain: %v", err)
	}
	info := sc.Adapter()
	log.Printf("Adapter: %s (vendor=%04x device=%04x renderer=%08x)",
		info.Description, info.VendorID, info.DeviceID, info.RendererID)

	for i := 0; i < *frames; i++ {
		if i == *frames-1 {
			rec.Arm()
		}
		sc.Present()
	}
	if st, ok := capture.StateOf(sc); ok && st.LastPath != "" {
		log.Printf("Captured %d frame(s), last: %s", st.Frames, st.LastPath)
	}

	if err := sc.Close(); err != nil {
		log.Printf("Swapchain close: %v", err)
	}
}
