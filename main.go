package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
	"github.com/df07/go-diffuse-raytracer/pkg/output"
	"github.com/df07/go-diffuse-raytracer/pkg/renderer"
	"github.com/df07/go-diffuse-raytracer/pkg/scene"
)

// scenesDir is searched for JSON scene files referenced by name
const scenesDir = "scenes"

// options holds the parsed command line
type options struct {
	sceneType string
	config    string
	width     int
	height    int
	samples   int
	depth     int
	workers   int
	seed      int64
	shading   string
	out       string
	logLevel  string
	stamp     bool
	saveScene string
	list      bool
	help      bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stdout io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stdout)

	fs.StringVar(&opts.sceneType, "scene", "default", "Scene: a built-in name, a scene file name in scenes/, or a path to a .json file")
	fs.StringVar(&opts.config, "config", "", "JSON scene file (overrides -scene)")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height in pixels (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of render workers (0 = $"+renderer.WorkersEnvVar+" or CPU count)")
	fs.Int64Var(&opts.seed, "seed", 0, "Seed for camera jitter and worker samplers (0 = scene default); diffuse bounces still vary with scheduling")
	fs.StringVar(&opts.shading, "shading", "", "Shading mode: 'diffuse' or 'normals' (empty = scene default)")
	fs.StringVar(&opts.out, "out", "", "Output file; the extension selects png, jpg, bmp or tiff")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.BoolVar(&opts.stamp, "stamp", false, "Print render statistics onto the image")
	fs.StringVar(&opts.saveScene, "save-scene", "", "Write the resolved scene to a JSON file and exit")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return opts, fs, nil
}

func run(args []string, stdout io.Writer) error {
	opts, fs, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	if opts.help {
		showHelp(fs, stdout)
		return nil
	}

	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opts.list {
		return listScenes(stdout)
	}

	sceneRef := opts.sceneType
	if opts.config != "" {
		sceneRef = opts.config
	}
	selectedScene, err := createScene(sceneRef)
	if err != nil {
		return err
	}
	if err := applyOverrides(selectedScene, opts); err != nil {
		return err
	}

	if opts.saveScene != "" {
		file, err := scene.NewSceneFile(selectedScene)
		if err != nil {
			return err
		}
		if err := scene.Save(opts.saveScene, file); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Scene saved as %s\n", opts.saveScene)
		return nil
	}

	outPath := opts.out
	if outPath == "" {
		outPath = createOutputPath(selectedScene.Name, time.Now())
	}
	// Fail before rendering rather than after
	if _, err := output.FormatFromPath(outPath); err != nil {
		return err
	}

	config := selectedScene.RenderConfig
	fmt.Fprintf(stdout, "Rendering scene %q (%dx%d, %d samples/pixel, %s shading)...\n",
		selectedScene.Name, config.Width, config.Height, config.SamplesPerPixel, selectedScene.Shading)

	img := output.NewImage(config.Width, config.Height)
	stats, err := selectedScene.NewRaytracer().Render(img, renderer.NewLogProgress(config.Height))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if opts.stamp {
		img.Annotate(stampText(selectedScene, stats))
	}
	if err := img.Save(outPath); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "Render completed: %v\n", stats)
	p.Fprintf(stdout, "Render saved as %s\n", outPath)
	return nil
}

func showHelp(fs *flag.FlagSet, stdout io.Writer) {
	fmt.Fprintln(stdout, "Diffuse Raytracer")
	fmt.Fprintln(stdout, "Usage: raytracer [options]")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Run with -list to see the available scenes.")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Output will be saved to output/<scene>/render_<timestamp>.png unless -out is given")
}

func listScenes(stdout io.Writer) error {
	scenes, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Available scenes:")
	for _, s := range scenes {
		id := s.ID
		if s.Type == "file" {
			id = s.FilePath
		}
		if s.Description != "" {
			fmt.Fprintf(stdout, "  %-24s %s - %s\n", id, s.DisplayName, s.Description)
		} else {
			fmt.Fprintf(stdout, "  %-24s %s\n", id, s.DisplayName)
		}
	}
	return nil
}

// createScene resolves a scene reference: a .json path, a built-in name, or
// the name of a file in the scenes directory
func createScene(sceneType string) (*scene.Scene, error) {
	if strings.HasSuffix(strings.ToLower(sceneType), ".json") {
		return scene.Load(sceneType)
	}

	s, err := scene.Create(sceneType)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, scene.ErrUnknownScene) || sceneType == "" {
		return nil, err
	}

	path := filepath.Join(scenesDir, sceneType+".json")
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, err
	}
	return scene.Load(path)
}

// applyOverrides merges non-zero command line settings into the scene
func applyOverrides(s *scene.Scene, opts *options) error {
	s.RenderConfig = renderer.MergeRenderConfig(s.RenderConfig, renderer.RenderConfig{
		Width:           opts.width,
		Height:          opts.height,
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
		NumWorkers:      opts.workers,
		Seed:            opts.seed,
	})

	if opts.shading != "" {
		mode, err := scene.ParseShadingMode(opts.shading)
		if err != nil {
			return err
		}
		s.Shading = mode
	}

	return s.RenderConfig.Validate()
}

// createOutputPath returns output/<scene>/render_<timestamp>.png
func createOutputPath(sceneName string, now time.Time) string {
	dir := strings.ToLower(strings.Join(strings.Fields(sceneName), "-"))
	if dir == "" {
		dir = "scene"
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", dir, fmt.Sprintf("render_%s.png", timestamp))
}

func parseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func stampText(s *scene.Scene, stats renderer.RenderStats) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s | %d spp | %d workers | %v", s.Name, s.RenderConfig.SamplesPerPixel,
		stats.Workers, stats.Duration.Round(time.Millisecond))
}
