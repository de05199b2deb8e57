package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"layerstack/pkg/config"
	"layerstack/pkg/layerstack"
	"layerstack/pkg/resource"
)

func main() {
	configFile := flag.String("config", "", "TOML settings file")
	selector := flag.String("select", "", "CSS selector of the element to turn into a layer stack")
	output := flag.String("o", "output.png", "output PNG file path")
	pointerX := flag.Float64("x", -1, "pointer x position (negative: no pointer move)")
	pointerY := flag.Float64("y", -1, "pointer y position")
	path := flag.String("path", "", `pointer samples "x,y;x,y", one frame each`)
	frames := flag.Int("frames", 1, "frames to run before rendering")
	dump := flag.Bool("dump", false, "print the element tree of every stack")
	destroy := flag.Bool("destroy", false, "destroy the stacks immediately before rendering")
	noScripts := flag.Bool("noscript", false, "do not run page scripts")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: layerstack [flags] <file-or-url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	uri := flag.Arg(0)
	tracing.Select("layerstack.cmd").Debugf("rendering %s", uri)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	opts := resource.Options{
		Width:   cfg.Viewport.Width,
		Height:  cfg.Viewport.Height,
		Stack:   cfg.StackOptions(),
		Render:  cfg.RenderOptions(),
		Scripts: !*noScripts,
	}
	page, err := resource.Open(uri, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading page: %v\n", err)
		os.Exit(1)
	}

	if *selector != "" {
		if _, err := page.Stack(*selector); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating stack: %v\n", err)
			os.Exit(1)
		}
	}
	if *pointerX >= 0 && *pointerY >= 0 {
		page.PointerMove(*pointerX, *pointerY)
	}
	samples, err := parsePath(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in -path: %v\n", err)
		os.Exit(1)
	}
	for _, pt := range samples {
		page.PointerMove(pt[0], pt[1])
	}
	for i := 0; i < *frames; i++ {
		page.Frame()
	}

	stacks := page.Stacks()
	if *destroy {
		for _, s := range stacks {
			s.Destroy(layerstack.DestroyOptions{Immediate: true})
		}
	}
	if *dump {
		for _, s := range stacks {
			fmt.Println(layerstack.Dump(s))
		}
	}

	if err := page.SavePNG(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Rendered %s (%d stacks) to %s\n", uri, len(stacks), *output)
}

// parsePath reads "x,y;x,y" into points.
func parsePath(s string) ([][2]float64, error) {
	var points [][2]float64
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("sample %q: want x,y", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", pair, err)
		}
		points = append(points, [2]float64{x, y})
	}
	return points, nil
}
