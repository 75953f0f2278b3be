package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/search"
	"github.com/gzanee/skyscanner/internal/services"
	"github.com/gzanee/skyscanner/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FormView ViewState = iota
	ResultsView
)

// Options configures a TUI model.
type Options struct {
	Defaults shared.SearchDefaults
	Debounce time.Duration
	HourStep float64
	Logger   *log.Logger

	// Save persists a snapshot to history and returns its id. Nil when
	// no store is configured.
	Save func(*models.SavedSearch) (string, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	svc     services.Service
	session *search.Session
	logger  *log.Logger
	save    func(*models.SavedSearch) (string, error)

	view   ViewState
	width  int
	height int

	focus      formField
	origin     *picker
	dest       *picker
	departDate textinput.Model
	returnDate textinput.Model
	maxPrice   textinput.Model

	departRange        *hourRange
	arrivalRange       *hourRange
	returnDepartRange  *hourRange
	returnArrivalRange *hourRange

	directOnly bool
	sameDay    bool
	trip       models.TripType
	sortKey    models.SortKey

	debounce  time.Duration
	gen       int
	stream    *services.SearchStream
	searching bool
	results   *accordion

	spin spinner.Model
	prog progress.Model
	help help.Model
	keys keyMap

	formErr string
	notice  string
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, svc services.Service, session *search.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.HourStep <= 0 {
		opts.HourStep = 0.25
	}

	departDate := textinput.New()
	departDate.Placeholder = "DD/MM/YYYY"
	departDate.Prompt = "> "
	departDate.CharLimit = 10

	returnDate := textinput.New()
	returnDate.Placeholder = "DD/MM/YYYY"
	returnDate.Prompt = "> "
	returnDate.CharLimit = 10

	maxPrice := textinput.New()
	maxPrice.Prompt = "> "
	maxPrice.CharLimit = 8
	if opts.Defaults.MaxPrice > 0 {
		maxPrice.SetValue(fmt.Sprintf("%.0f", opts.Defaults.MaxPrice))
	}

	sortKey := models.SortPrice
	if parsed, err := models.ParseSortKey(opts.Defaults.Sort); err == nil {
		sortKey = parsed
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	hlp := help.New()
	hlp.Styles.ShortKey = styles.help
	hlp.Styles.ShortDesc = styles.dim
	hlp.Styles.FullKey = styles.help
	hlp.Styles.FullDesc = styles.dim

	m := &Model{
		ctx:     ctx,
		svc:     svc,
		session: session,
		logger:  opts.Logger,
		save:    opts.Save,
		view:    FormView,

		origin: newPicker(pickerOrigin, "From", "city or airport", false),
		dest:   newPicker(pickerDest, "To", "city, airport, or everywhere", true),

		departDate: departDate,
		returnDate: returnDate,
		maxPrice:   maxPrice,

		departRange:        newHourRange("Departure", opts.HourStep),
		arrivalRange:       newHourRange("Arrival", opts.HourStep),
		returnDepartRange:  newHourRange("Return departure", opts.HourStep),
		returnArrivalRange: newHourRange("Return arrival", opts.HourStep),

		directOnly: opts.Defaults.DirectOnly,
		sameDay:    opts.Defaults.SameDay,
		trip:       models.TripOneWay,
		sortKey:    sortKey,

		debounce: opts.Debounce,
		results:  newAccordion(),
		spin:     spin,
		prog:     progress.New(progress.WithDefaultGradient()),
		help:     hlp,
		keys:     newKeyMap(),
	}

	if opts.Defaults.MaxHour > 0 {
		m.departRange.SetUpper(float64(opts.Defaults.MaxHour))
	}
	m.departRange.SetLower(float64(opts.Defaults.MinHour))
	if opts.Defaults.MaxArrivalHour > 0 {
		m.arrivalRange.SetUpper(float64(opts.Defaults.MaxArrivalHour))
	}
	m.arrivalRange.SetLower(float64(opts.Defaults.MinArrivalHour))

	return m
}

// Init gives the origin picker initial focus.
func (m *Model) Init() tea.Cmd {
	return m.origin.Focus()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case FormView:
			return m.handleFormKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		}

	case debounceMsg:
		p := m.pickerByID(msg.id)
		query, ok := p.Debounced(msg.seq)
		if !ok {
			return m, nil
		}
		return m, m.fetchSuggestions(msg.id, msg.seq, query)

	case suggestionsMsg:
		p := m.pickerByID(msg.id)
		p.SetSuggestions(msg.seq, msg.items, msg.err)
		if msg.err != nil {
			m.logger.Debug("airport lookup failed", "error", msg.err)
		}
		return m, nil

	case streamOpenedMsg:
		return m.handleStreamOpened(msg)

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case streamDoneMsg:
		return m.handleStreamDone(msg)

	case tickMsg:
		if m.session.Tick(msg.gen, msg.at) {
			return m, tickCmd(msg.gen)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case savedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			m.notice = fmt.Sprintf("saved as %s", msg.id)
		}
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ResultsView:
		return m.renderResults()
	default:
		return m.renderForm()
	}
}

func (m *Model) pickerByID(id pickerID) *picker {
	if id == pickerOrigin {
		return m.origin
	}
	return m.dest
}

// fetchSuggestions looks up airports for a debounced query. The response
// carries the sequence so the picker can drop it if it went stale while
// in flight.
func (m *Model) fetchSuggestions(id pickerID, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.svc.LookupAirports(m.ctx, query)
		return suggestionsMsg{id: id, seq: seq, items: items, err: err}
	}
}

// submit validates the form and starts a streaming search.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	query, err := m.buildQuery()
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}
	m.formErr = ""
	m.notice = ""

	ctx, gen := m.session.Start(m.ctx, query)
	m.gen = gen
	m.searching = true
	m.closeStream()
	m.results = newAccordion()
	m.view = ResultsView

	m.logger.Info("search started", "route", query.RouteSummary(), "generation", gen)

	return m, tea.Batch(m.openStream(ctx, gen, query), m.spin.Tick, tickCmd(gen))
}

// openStream opens the SSE search on a background goroutine.
func (m *Model) openStream(ctx context.Context, gen int, query models.SearchQuery) tea.Cmd {
	return func() tea.Msg {
		s, err := m.svc.SearchStream(ctx, query)
		return streamOpenedMsg{gen: gen, stream: s, err: err}
	}
}

// readEvent blocks for the next decoded event of the given stream.
func readEvent(gen int, s *services.SearchStream) tea.Cmd {
	return func() tea.Msg {
		event, err := s.Events().Next()
		if err == io.EOF {
			return streamDoneMsg{gen: gen}
		}
		if err != nil {
			return streamDoneMsg{gen: gen, err: err}
		}
		return streamEventMsg{gen: gen, event: event}
	}
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m *Model) handleStreamOpened(msg streamOpenedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		if msg.stream != nil {
			msg.stream.Close()
		}
		return m, nil
	}

	if msg.err != nil {
		m.session.Fail(msg.gen, msg.err)
		m.searching = false
		return m, nil
	}

	m.stream = msg.stream
	return m, readEvent(msg.gen, msg.stream)
}

func (m *Model) handleStreamEvent(msg streamEventMsg) (tea.Model, tea.Cmd) {
	if !m.session.Apply(msg.gen, msg.event) {
		return m, nil
	}

	m.results.SetGroups(m.session.Groups())

	if m.session.Status().Phase.Terminal() {
		m.finishSearch()
		return m, nil
	}
	return m, readEvent(msg.gen, m.stream)
}

func (m *Model) handleStreamDone(msg streamDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen {
		return m, nil
	}

	if msg.err != nil {
		m.session.Fail(msg.gen, msg.err)
	} else {
		m.session.End(msg.gen)
	}
	m.results.SetGroups(m.session.Groups())
	m.finishSearch()
	return m, nil
}

// finishSearch releases the stream and stops progress animation. Called
// on every exit path of a search.
func (m *Model) finishSearch() {
	m.searching = false
	m.closeStream()
}

func (m *Model) closeStream() {
	if m.stream != nil {
		m.stream.Close()
		m.stream = nil
	}
}

// saveSnapshot persists the current results through the configured store.
func (m *Model) saveSnapshot() tea.Cmd {
	if m.save == nil {
		m.notice = "history is not configured"
		return nil
	}
	snapshot := m.session.Snapshot()
	return func() tea.Msg {
		id, err := m.save(snapshot)
		return savedMsg{id: id, err: err}
	}
}

// openDeepLink opens the public search page for the cheapest flight of
// the selected section in the system browser.
func (m *Model) openDeepLink() {
	group, ok := m.results.Selected()
	if !ok || len(group.Flights) == 0 {
		m.notice = "nothing to open"
		return
	}

	date, err := shared.ParseDate(m.session.Query().DepartDate)
	if err != nil {
		m.notice = "cannot build link: " + err.Error()
		return
	}

	flight := group.Flights[0]
	url := shared.FlightURL(flight.OriginCode, flight.DestCode, date)
	if err := shared.OpenBrowser(url); err != nil {
		m.notice = "browser: " + err.Error()
		return
	}
	m.notice = "opened " + url
}
