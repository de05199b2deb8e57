package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"layerstack/pkg/config"
	"layerstack/pkg/layerstack"
	"layerstack/pkg/resource"
)

// pageView shows a page and forwards pointer moves to it.
type pageView struct {
	widget.BaseWidget
	img    *canvas.Image
	onMove func(x, y float32)
}

func newPageView(img *canvas.Image, onMove func(x, y float32)) *pageView {
	v := &pageView{img: img, onMove: onMove}
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

func (v *pageView) MouseIn(e *desktop.MouseEvent) { v.onMove(e.Position.X, e.Position.Y) }
func (v *pageView) MouseMoved(e *desktop.MouseEvent) {
	v.onMove(e.Position.X, e.Position.Y)
}
func (v *pageView) MouseOut() {}

func main() {
	configFile := flag.String("config", "", "TOML settings file")
	selector := flag.String("select", "", "CSS selector of the element to turn into a layer stack")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: layerstack-view [flags] <file-or-url>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	uri := flag.Arg(0)

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
		Scripts: true,
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

	a := app.New()
	w := a.NewWindow("layerstack " + uri)
	w.Resize(fyne.NewSize(float32(opts.Width), float32(opts.Height)+40))

	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, int(opts.Width), int(opts.Height))))
	img.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel(fmt.Sprintf("%d stacks", len(page.Stacks())))

	redraw := func() {
		img.Image = page.Render()
		img.Refresh()
	}
	view := newPageView(img, func(x, y float32) {
		page.Window.DispatchPointerMove(float64(x), float64(y))
	})

	page.OnDestroyed(func(*layerstack.Stack) { status.SetText("destroyed") })
	destroyBtn := widget.NewButton("Destroy", page.DestroyAll)
	w.SetContent(container.NewBorder(nil, container.NewHBox(destroyBtn, status), nil, nil, view))

	// The animation ticks on the UI goroutine, which owns the page.
	last := -1
	anim := &fyne.Animation{
		Duration:    time.Second,
		RepeatCount: fyne.AnimationRepeatForever,
		Tick: func(float32) {
			page.Frame()
			if v := version(page.Stacks()); v != last {
				last = v
				redraw()
			}
		},
	}
	anim.Start()

	w.ShowAndRun()
}

// version changes whenever a stack publishes offsets or goes away.
func version(stacks []*layerstack.Stack) int {
	v := 0
	for _, s := range stacks {
		v += s.Projector().Publishes()
		if s.Destroyed() {
			v += 1 << 20
		}
	}
	return v
}
