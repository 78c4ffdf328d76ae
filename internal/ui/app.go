// Package ui is the bubbletea presentation layer: a searchable timeline
// over the catalog with live capture, recaption, and export commands.
//
// The UI never scans, captures, or enriches synchronously; all of that
// runs in background goroutines and arrives here as messages.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/recall/internal/capture"
	"github.com/abelbrown/recall/internal/catalog"
	"github.com/abelbrown/recall/internal/config"
	"github.com/abelbrown/recall/internal/enrich"
	"github.com/abelbrown/recall/internal/export"
	"github.com/abelbrown/recall/internal/process"
	"github.com/abelbrown/recall/internal/search"
)

// App is the root bubbletea model.
type App struct {
	cfg *config.Config

	timeline    Timeline
	searchInput textinput.Model
	searching   bool

	records []catalog.Record
	query   string

	loop      *capture.Loop
	recording bool

	busy     string // label of the running background job, "" when idle
	progress int
	status   string
	spinner  spinner.Model

	width  int
	height int

	// progressCh carries percent updates from background jobs into the
	// bubbletea loop.
	progressCh chan int
}

// New creates the app model.
func New(cfg *config.Config) App {
	s := spinner.New()
	s.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "search captures..."
	ti.Prompt = "/ "
	ti.CharLimit = 128

	return App{
		cfg:         cfg,
		timeline:    NewTimeline(),
		searchInput: ti,
		spinner:     s,
		status:      "Scanning...",
		progressCh:  make(chan int, 16),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.scanCmd(),
		a.listenProgress(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.timeline.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if a.searching {
			return a.handleSearchInput(msg)
		}
		switch {
		case key.Matches(msg, appKeys.Quit):
			if a.loop != nil && a.recording {
				a.loop.Stop()
				a.loop.Wait()
			}
			return a, tea.Quit
		case key.Matches(msg, appKeys.Search):
			a.searching = true
			a.searchInput.Focus()
			return a, textinput.Blink
		case key.Matches(msg, appKeys.Record):
			if a.busy == "" {
				return a.toggleCapture()
			}
		case key.Matches(msg, appKeys.Recaption):
			if a.busy == "" && !a.recording && len(a.records) > 0 {
				a.busy = "recaption"
				a.progress = 0
				cmds = append(cmds, a.recaptionCmd())
			}
		case key.Matches(msg, appKeys.ExportText):
			if len(a.records) > 0 {
				cmds = append(cmds, a.exportTextCmd())
			}
		case key.Matches(msg, appKeys.ExportVideo):
			if a.busy == "" && len(a.records) > 0 {
				a.busy = "timelapse"
				cmds = append(cmds, a.exportVideoCmd())
			}
		case key.Matches(msg, appKeys.Refresh):
			if a.busy == "" && !a.recording {
				a.busy = "scan"
				cmds = append(cmds, a.scanCmd())
			}
		default:
			var cmd tea.Cmd
			a.timeline, cmd = a.timeline.Update(msg)
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case CatalogLoaded:
		a.busy = ""
		if msg.Err != nil {
			a.status = "Scan failed: " + msg.Err.Error()
		} else {
			a.records = msg.Records
			a.refreshView()
			a.status = fmt.Sprintf("Loaded %d captures", len(a.records))
		}

	case JobProgress:
		// Classify by what is busy now, not when the listener was armed
		if a.busy == "scan" || a.busy == "" {
			a.status = fmt.Sprintf("Scanning... %d%%", msg.Percent)
		} else {
			a.progress = msg.Percent
			a.status = fmt.Sprintf("%s... %d%%", a.busy, msg.Percent)
		}
		cmds = append(cmds, a.listenProgress())

	case CaptureReady:
		if msg.Err != nil {
			a.recording = false
			a.loop = nil
			a.status = "Capture failed to start: " + msg.Err.Error()
		} else {
			a.status = "Recording"
			cmds = append(cmds, a.listenEvents())
		}

	case CaptureEvent:
		if msg.OK {
			a.records = catalog.Prepend(a.records, catalog.Record{
				ImagePath: msg.Event.ImagePath,
				Text:      msg.Event.Text,
				Timestamp: msg.Event.Timestamp,
			})
			a.refreshView()
			cmds = append(cmds, a.listenEvents())
		}

	case CaptureStopped:
		a.busy = ""
		a.loop = nil
		if msg.CaptionsWritten > 0 {
			a.status = fmt.Sprintf("Stopped; %d captions written", msg.CaptionsWritten)
		} else {
			a.status = "Stopped"
		}
		// Re-scan so reconstructed records replace the optimistic ones
		a.busy = "scan"
		cmds = append(cmds, a.scanCmd())

	case RecaptionDone:
		a.busy = ""
		if msg.Err != nil {
			a.status = "Recaption failed: " + msg.Err.Error()
		} else {
			a.status = "Recaption complete; rescanning"
			a.busy = "scan"
			cmds = append(cmds, a.scanCmd())
		}

	case ExportDone:
		if a.busy == "timelapse" {
			a.busy = ""
		}
		if msg.Err != nil {
			a.status = fmt.Sprintf("%s export failed: %s", msg.What, msg.Err)
		} else {
			a.status = fmt.Sprintf("%s export: %d file(s)", msg.What, len(msg.Paths))
		}
	}

	return a, tea.Batch(cmds...)
}

func (a App) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searching = false
		a.searchInput.Blur()
		a.searchInput.SetValue("")
		a.query = ""
		a.refreshView()
		return a, nil
	case "enter":
		a.searching = false
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if q := a.searchInput.Value(); q != a.query {
		a.query = q
		a.refreshView()
	}
	return a, cmd
}

// refreshView recomputes the filtered view from the catalog and query.
func (a *App) refreshView() {
	a.timeline.SetView(a.records, search.Filter(a.records, a.query))
}

func (a App) toggleCapture() (tea.Model, tea.Cmd) {
	if a.recording && a.loop != nil {
		a.recording = false
		a.busy = "processing"
		a.progress = 0
		a.status = "Stopping..."
		return a, a.stopCaptureCmd()
	}

	loop := capture.New(capture.Options{
		Root:      a.cfg.Capture.Root,
		Interval:  capture.ParseInterval(fmt.Sprintf("%g", a.cfg.Capture.IntervalSeconds)),
		EnableOCR: a.cfg.Capture.EnableOCR,
		EnableAI:  a.cfg.Capture.EnableAI,
		NewOCR: func() (enrich.OCR, error) {
			return enrich.NewHTTPOCR(a.cfg.Engines.OCREndpoint, a.cfg.Engines.OCRLanguages)
		},
	})
	a.loop = loop
	a.recording = true
	a.status = "Initializing capture..."

	loop.Start(context.Background())
	return a, func() tea.Msg {
		return CaptureReady{Err: <-loop.Ready()}
	}
}

func (a App) stopCaptureCmd() tea.Cmd {
	loop := a.loop
	cfg := a.cfg
	progressCh := a.progressCh
	return func() tea.Msg {
		loop.Stop()
		loop.Wait()

		queue := loop.Queue()
		var written int
		if len(queue) > 0 {
			captioner := enrich.NewOllamaCaptioner(cfg.Engines.OllamaEndpoint, cfg.Engines.CaptionModel)
			written = process.Drain(context.Background(), &queue, captioner, func(p int) {
				select {
				case progressCh <- p:
				default:
				}
			})
		}
		return CaptureStopped{CaptionsWritten: written}
	}
}

func (a App) listenEvents() tea.Cmd {
	loop := a.loop
	if loop == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-loop.Events()
		return CaptureEvent{Event: ev, OK: ok}
	}
}

func (a App) scanCmd() tea.Cmd {
	root := a.cfg.Capture.Root
	progressCh := a.progressCh
	return func() tea.Msg {
		b := &catalog.Builder{
			Root: root,
			Progress: func(p int) {
				select {
				case progressCh <- p:
				default:
				}
			},
		}
		records, err := b.Build()
		return CatalogLoaded{Records: records, Err: err}
	}
}

func (a App) listenProgress() tea.Cmd {
	ch := a.progressCh
	return func() tea.Msg {
		return JobProgress{Percent: <-ch}
	}
}

func (a App) recaptionCmd() tea.Cmd {
	cfg := a.cfg
	records := a.records
	progressCh := a.progressCh
	return func() tea.Msg {
		opts := process.RecaptionOptions{OCR: cfg.Capture.EnableOCR, AI: true}
		engines := process.Engines{
			NewOCR: func() (enrich.OCR, error) {
				return enrich.NewHTTPOCR(cfg.Engines.OCREndpoint, cfg.Engines.OCRLanguages)
			},
			NewCaptioner: func() (enrich.Captioner, error) {
				return enrich.NewOllamaCaptioner(cfg.Engines.OllamaEndpoint, cfg.Engines.CaptionModel), nil
			},
		}
		err := process.Recaption(context.Background(), records, opts, engines, func(p int) {
			select {
			case progressCh <- p:
			default:
			}
		})
		return RecaptionDone{Err: err}
	}
}

func (a App) exportTextCmd() tea.Cmd {
	root := a.cfg.Capture.Root
	records := a.records
	return func() tea.Msg {
		paths, err := export.MergedDaily(root, records)
		return ExportDone{What: "Text", Paths: paths, Err: err}
	}
}

func (a App) exportVideoCmd() tea.Cmd {
	root := a.cfg.Capture.Root
	records := a.records
	return func() tea.Msg {
		paths, err := export.VideoDaily(context.Background(), root, records, export.DefaultFPS)
		return ExportDone{What: "Video", Paths: paths, Err: err}
	}
}

// View implements tea.Model.
func (a App) View() string {
	var b strings.Builder

	if a.searching || a.query != "" {
		b.WriteString(SearchBar.Render(a.searchInput.View()))
		b.WriteString("\n")
	}

	b.WriteString(a.timeline.View())
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	return b.String()
}

func (a App) statusLine() string {
	var parts []string
	if a.recording {
		parts = append(parts, RecordingBadge.Render("● REC"))
	}
	if a.busy != "" {
		parts = append(parts, a.spinner.View()+" "+a.status)
	} else {
		parts = append(parts, a.status)
	}
	parts = append(parts, StatusBarKey.Render("/")+" search  "+
		StatusBarKey.Render("r")+" record  "+
		StatusBarKey.Render("c")+" recaption  "+
		StatusBarKey.Render("e")+" text  "+
		StatusBarKey.Render("v")+" video  "+
		StatusBarKey.Render("q")+" quit")
	return StatusBar.Width(maxInt(0, a.width)).Render(strings.Join(parts, "  "))
}

// Key bindings
var appKeys = struct {
	Quit        key.Binding
	Search      key.Binding
	Record      key.Binding
	Recaption   key.Binding
	ExportText  key.Binding
	ExportVideo key.Binding
	Refresh     key.Binding
}{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Search:      key.NewBinding(key.WithKeys("/")),
	Record:      key.NewBinding(key.WithKeys("r")),
	Recaption:   key.NewBinding(key.WithKeys("c")),
	ExportText:  key.NewBinding(key.WithKeys("e")),
	ExportVideo: key.NewBinding(key.WithKeys("v")),
	Refresh:     key.NewBinding(key.WithKeys("f5", "ctrl+r")),
}
