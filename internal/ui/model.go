// Package ui implements the interactive cleanup flow: pick rules, resolve
// the downloads choice, scan, review the plan, confirm, apply.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/engine"
	"github.com/burrowtool/burrow/internal/oplog"
	"github.com/burrowtool/burrow/internal/snapshot"
)

// ViewState identifies the current screen.
type ViewState int

const (
	ViewSelect ViewState = iota
	ViewDownloadsChoice
	ViewScanning
	ViewPlan
	ViewConfirm
	ViewApplying
	ViewSummary
)

// Options configures an interactive session.
type Options struct {
	Home            string
	IsRoot          bool
	SnapshotSupport *snapshot.Support
	// SudoReexec, when set, is the argv (without the leading "sudo") the
	// caller should spawn to restart the session elevated.
	SudoReexec []string
	Log        *oplog.Logger
}

// Result is what the caller does after the program exits.
type Result struct {
	// ReexecSudo is non-nil when the user asked to restart under sudo.
	ReexecSudo []string
}

type ruleItem struct {
	rule     config.Rule
	selected bool
}

type model struct {
	opts  Options
	state ViewState

	rules  []ruleItem
	cursor int

	downloadsChoice engine.DownloadsChoice
	scans           []engine.RuleScan

	takeSnapshot bool
	confirmInput string
	dryRunPath   string
	statusErr    string

	report       engine.CleanReport
	snapshotNote string

	spin   spinner.Model
	result Result
}

type scansMsg []engine.RuleScan

type dryRunMsg struct {
	path string
	err  error
}

type applyDoneMsg struct {
	report       engine.CleanReport
	snapshotNote string
	snapshotErr  error
}

func newModel(rules []config.Rule, opts Options) *model {
	items := make([]ruleItem, 0, len(rules))
	for _, rule := range rules {
		items = append(items, ruleItem{
			rule:     rule,
			selected: rule.EnabledByDefault && (opts.IsRoot || !rule.RequiresSudo),
		})
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &model{
		opts:  opts,
		state: ViewSelect,
		rules: items,
		spin:  sp,
	}
}

// Run starts the interactive session and blocks until it exits.
func Run(rules []config.Rule, opts Options) (Result, error) {
	m := newModel(rules, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return Result{}, err
	}
	return final.(*model).result, nil
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) selectedRules() []config.Rule {
	var rules []config.Rule
	for _, item := range m.rules {
		if item.selected {
			rules = append(rules, item.rule)
		}
	}
	return rules
}

func (m *model) needsDownloadsChoice() bool {
	if m.downloadsChoice != engine.ChoiceNone {
		return false
	}
	for _, item := range m.rules {
		if item.selected && item.rule.Kind == config.KindDownloads {
			return true
		}
	}
	return false
}

func (m *model) startScan() (tea.Model, tea.Cmd) {
	m.state = ViewScanning
	rules := m.selectedRules()
	home := m.opts.Home
	opts := engine.ScanOptions{DownloadsChoice: m.downloadsChoice}
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return scansMsg(engine.ScanRules(rules, home, opts))
	})
}

func (m *model) startApply() (tea.Model, tea.Cmd) {
	m.state = ViewApplying
	scans := m.scans
	takeSnapshot := m.takeSnapshot
	support := m.opts.SnapshotSupport
	log := m.opts.Log
	elevated := m.opts.IsRoot
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		var msg applyDoneMsg
		if takeSnapshot && support != nil {
			outcome, err := snapshot.Create(support)
			if err != nil {
				msg.snapshotErr = err
			} else {
				msg.snapshotNote = outcome.String()
			}
		}
		msg.report = engine.Apply(scans)
		if log != nil {
			for _, scan := range scans {
				_ = log.Record(oplog.Entry{
					Action:   "apply",
					RuleID:   scan.Rule.ID,
					Files:    len(scan.Files),
					Dirs:     len(scan.Dirs),
					Bytes:    scan.Bytes,
					Errors:   scan.Errors,
					Elevated: elevated,
				})
			}
		}
		return msg
	})
}

func (m *model) runDryRun() tea.Cmd {
	scans := m.scans
	home := m.opts.Home
	log := m.opts.Log
	return func() tea.Msg {
		output := engine.DryRun(scans)
		path, err := engine.WriteReport(home, output.Details)
		if log != nil {
			_ = log.Record(oplog.Entry{
				Action: "dry-run",
				Files:  output.Report.FilesListed,
				Dirs:   output.Report.DirsListed,
				Bytes:  output.Report.BytesListed,
				Errors: output.Report.Errors,
			})
		}
		return dryRunMsg{path: path, err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		if m.state == ViewScanning || m.state == ViewApplying {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case scansMsg:
		m.scans = msg
		m.state = ViewPlan
		m.dryRunPath = ""
		m.statusErr = ""
		return m, nil

	case dryRunMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
		} else {
			m.dryRunPath = msg.path
		}
		return m, nil

	case applyDoneMsg:
		m.report = msg.report
		m.snapshotNote = msg.snapshotNote
		if msg.snapshotErr != nil {
			m.statusErr = msg.snapshotErr.Error()
		}
		m.state = ViewSummary
		return m, nil
	}

	return m, nil
}

func (m *model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Typed confirmation consumes raw input before global keys.
	if m.state == ViewConfirm && m.opts.IsRoot {
		switch key {
		case "enter":
			if strings.EqualFold(m.confirmInput, "delete") {
				return m.startApply()
			}
			m.confirmInput = ""
			return m, nil
		case "esc":
			m.state = ViewPlan
			m.confirmInput = ""
			return m, nil
		case "backspace":
			if len(m.confirmInput) > 0 {
				m.confirmInput = m.confirmInput[:len(m.confirmInput)-1]
			}
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		default:
			if msg.Type == tea.KeyRunes {
				m.confirmInput += string(msg.Runes)
			}
			return m, nil
		}
	}

	if key == "ctrl+c" || (key == "q" && m.state != ViewApplying && m.state != ViewScanning) {
		return m, tea.Quit
	}

	switch m.state {
	case ViewSelect:
		return m.updateSelect(key)
	case ViewDownloadsChoice:
		switch key {
		case "a":
			m.downloadsChoice = engine.ChoiceArchives
			return m.startScan()
		case "f":
			m.downloadsChoice = engine.ChoiceFolders
			return m.startScan()
		case "esc":
			m.state = ViewSelect
		}
	case ViewPlan:
		switch key {
		case "enter", "y":
			m.confirmInput = ""
			m.state = ViewConfirm
		case "d":
			return m, m.runDryRun()
		case "s":
			if m.opts.SnapshotSupport != nil {
				m.takeSnapshot = !m.takeSnapshot
			}
		case "esc":
			m.state = ViewSelect
		}
	case ViewConfirm:
		// Non-elevated confirmation is a plain y/N.
		switch key {
		case "y":
			return m.startApply()
		case "n", "esc":
			m.state = ViewPlan
		}
	case ViewSummary:
		if key == "enter" {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *model) updateSelect(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rules)-1 {
			m.cursor++
		}
	case " ":
		if len(m.rules) > 0 {
			item := &m.rules[m.cursor]
			if m.opts.IsRoot || !item.rule.RequiresSudo {
				item.selected = !item.selected
			}
		}
	case "a":
		for i := range m.rules {
			if m.opts.IsRoot || !m.rules[i].rule.RequiresSudo {
				m.rules[i].selected = true
			}
		}
	case "n":
		for i := range m.rules {
			m.rules[i].selected = false
		}
	case "s":
		if !m.opts.IsRoot && m.opts.SudoReexec != nil {
			m.result.ReexecSudo = m.opts.SudoReexec
			return m, tea.Quit
		}
	case "enter":
		if len(m.selectedRules()) == 0 {
			return m, nil
		}
		if m.needsDownloadsChoice() {
			m.state = ViewDownloadsChoice
			return m, nil
		}
		return m.startScan()
	}
	return m, nil
}
