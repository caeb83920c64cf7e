package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HarvestView ViewState = iota
	ResultView
)

const recentLines = 6

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	harvester    *tasks.Harvester
	progressChan chan tasks.ProgressUpdate
	done         chan harvestOutcome
	finished     chan struct{}
	outcome      harvestOutcome
	width        int
	height       int
	spinner      spinner.Model
	bar          progress.Model
	progress     tasks.ProgressUpdate
	saved        int
	recent       []string
	stopping     bool
	result       *tasks.HarvestResult
	err          error
	tunes        list.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that drives the given harvester.
func NewModel(ctx context.Context, harvester *tasks.Harvester) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:       ctx,
		cancel:    cancel,
		view:      HarvestView,
		harvester: harvester,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.title.UnsetMarginBottom())),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		tunes:     list.New(nil, list.NewDefaultDelegate(), 80, 20),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Result returns the harvest outcome as last seen by the view.
func (m *Model) Result() (*tasks.HarvestResult, error) {
	return m.result, m.err
}

// Wait blocks until the harvest goroutine has returned and reports its outcome.
//
// Unlike [Model.Result] it is safe to call after the program was killed mid-harvest.
func (m *Model) Wait() (*tasks.HarvestResult, error) {
	if m.finished == nil {
		return m.result, m.err
	}
	<-m.finished
	return m.outcome.result, m.outcome.err
}

// Init starts the spinner and the harvest.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startHarvest())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(max(msg.Width-4, 10), 80)
		m.tunes.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		if m.view != HarvestView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case HarvestView:
			return m.handleHarvestKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.applyProgress(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgHarvestComplete:
			outcome := msg.data.(harvestOutcome)
			m.finish(outcome.result, outcome.err)
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case HarvestView:
		return m.renderHarvest()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleHarvestKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.stop) && !m.stopping {
		m.stopping = true
		m.cancel()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tunes.FilterState() != list.Filtering && key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.tunes, cmd = m.tunes.Update(msg)
	return m, cmd
}

func (m *Model) applyProgress(update tasks.ProgressUpdate) {
	if update.Phase != tasks.Checkpoint {
		m.progress = update
	}
	if _, ok := update.Data.(models.TuneRecord); ok {
		m.saved++
	}

	if update.Phase == tasks.FetchDetails && strings.Contains(update.Message, "Processing") {
		return
	}
	m.recent = append(m.recent, update.Message)
	if len(m.recent) > recentLines {
		m.recent = m.recent[len(m.recent)-recentLines:]
	}
}

func (m *Model) finish(result *tasks.HarvestResult, err error) {
	m.result = result
	m.err = err
	m.view = ResultView
	m.cancel()

	if result == nil {
		return
	}

	items := make([]list.Item, len(result.Records))
	for i, tune := range result.Records {
		items[i] = tuneItem{tune: tune}
	}
	m.tunes.SetItems(items)
	m.tunes.Title = fmt.Sprintf("Saved tunes (%d)", len(result.Records))
}

func (m *Model) startHarvest() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 100)
	m.done = make(chan harvestOutcome, 1)
	m.finished = make(chan struct{})

	progressChan, done, finished := m.progressChan, m.done, m.finished
	go func() {
		result, err := m.harvester.Run(m.ctx, progressChan)
		m.outcome = harvestOutcome{result: result, err: err}
		close(finished)
		close(progressChan)
		done <- m.outcome
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, done := m.progressChan, m.done
	return func() tea.Msg {
		if progressChan == nil {
			return harvestCompleteMsg(nil, errors.New("harvest not started"))
		}

		update, ok := <-progressChan
		if !ok {
			outcome := <-done
			return harvestCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) percent() float64 {
	if m.progress.Total <= 0 {
		return 0
	}
	return min(float64(m.progress.Step)/float64(m.progress.Total), 1)
}

func (m *Model) renderHarvest() string {
	title := styles.title.Render("Harvesting popular tunes")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchListing:
		phase = fmt.Sprintf("Listing popular tunes (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FetchDetails, tasks.Checkpoint:
		phase = fmt.Sprintf("Fetching details (%d/%d) • %d saved", m.progress.Step, m.progress.Total, m.saved)
	default:
		phase = "Starting..."
	}
	if m.stopping {
		phase = styles.warn.Render("Stopping, saving collected tunes...")
	}

	var recent strings.Builder
	for _, line := range m.recent {
		recent.WriteString("\n  " + styles.help.Render(line))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.stop})
	return fmt.Sprintf("%s\n%s %s\n\n%s\n%s\n\n%s", title, m.spinner.View(), phase, m.bar.ViewAs(m.percent()), recent.String(), helpView)
}

func (m *Model) renderResult() string {
	var header string
	switch {
	case m.err != nil && errors.Is(m.err, context.Canceled):
		header = styles.warn.Render("Stopped early, collected tunes were saved")
	case m.err != nil:
		header = styles.err.Render(fmt.Sprintf("Harvest failed: %v", m.err))
	default:
		header = styles.ok.Render("✓ Harvest complete!")
	}

	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", header, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	}

	info := fmt.Sprintf(
		"\nSaved %d tunes to %s\nListed: %d • Skipped: %d • Checkpoints: %d • Elapsed: %s\n",
		m.result.Saved,
		m.result.Output,
		m.result.Listed,
		m.result.Skipped,
		m.result.Checkpoints,
		m.result.Elapsed.Round(time.Second),
	)

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.filter, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", header, info, m.tunes.View(), m.help.ShortHelpView(helpKeys))
}
