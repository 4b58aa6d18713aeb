package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

func (m *model) View() string {
	switch m.state {
	case ViewSelect:
		return m.viewSelect()
	case ViewDownloadsChoice:
		return m.viewDownloadsChoice()
	case ViewScanning:
		return fmt.Sprintf("\n %s Scanning...\n", m.spin.View())
	case ViewPlan:
		return m.viewPlan()
	case ViewConfirm:
		return m.viewConfirm()
	case ViewApplying:
		return fmt.Sprintf("\n %s Cleaning...\n", m.spin.View())
	case ViewSummary:
		return m.viewSummary()
	}
	return ""
}

func (m *model) viewSelect() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Burrow — select cleanup rules"))
	b.WriteString("\n\n")

	for i, item := range m.rules {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		check := "[ ]"
		if item.selected {
			check = selectedStyle.Render("[x]")
		}

		label := item.rule.Label
		if item.rule.RequiresSudo {
			label += " (sudo)"
			if !m.opts.IsRoot {
				label = dimStyle.Render(label)
			}
		}

		fmt.Fprintf(&b, "%s%s %s\n", cursor, check, label)
		if i == m.cursor && item.rule.Description != "" {
			fmt.Fprintf(&b, "      %s\n", dimStyle.Render(item.rule.Description))
		}
	}

	help := "space toggle · a all · n none · enter scan · q quit"
	if !m.opts.IsRoot && m.opts.SudoReexec != nil {
		help = "space toggle · a all · n none · enter scan · s restart with sudo · q quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m *model) viewDownloadsChoice() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Downloads cleanup"))
	b.WriteString("\n\n")
	b.WriteString("For archive/folder pairs, which side should be removed?\n\n")
	b.WriteString("  a — the archives (keep extracted folders)\n")
	b.WriteString("  f — the folders (keep archives)\n")
	b.WriteString(helpStyle.Render("a/f choose · esc back · q quit"))
	return b.String()
}

func (m *model) viewPlan() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cleanup plan"))
	b.WriteString("\n\n")

	var totalBytes int64
	var totalEntries, totalErrors int
	for _, scan := range m.scans {
		totalBytes += scan.Bytes
		totalEntries += scan.Entries
		totalErrors += scan.Errors
		line := fmt.Sprintf("  %-30s %10s  %d items", scan.Rule.Label,
			humanize.IBytes(uint64(scan.Bytes)), scan.Entries)
		if scan.Errors > 0 {
			line += errorStyle.Render(fmt.Sprintf("  %d errors", scan.Errors))
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\n  Total: %s across %d items\n",
		humanize.IBytes(uint64(totalBytes)), totalEntries)
	if totalErrors > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Scan errors: %d\n", totalErrors)))
	}

	if m.takeSnapshot {
		fmt.Fprintf(&b, "  Snapshot before cleaning: %s\n", m.opts.SnapshotSupport.Label)
	}
	if m.dryRunPath != "" {
		fmt.Fprintf(&b, "  Dry-run report saved to %s\n", m.dryRunPath)
	}
	if m.statusErr != "" {
		b.WriteString(errorStyle.Render("  " + m.statusErr + "\n"))
	}

	help := "enter clean · d dry-run report · esc back · q quit"
	if m.opts.SnapshotSupport != nil {
		help = "enter clean · d dry-run report · s toggle snapshot · esc back · q quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m *model) viewConfirm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Confirm deletion"))
	b.WriteString("\n\n")
	if m.opts.IsRoot {
		b.WriteString("Running with elevated privileges.\n")
		fmt.Fprintf(&b, "Type DELETE and press enter to proceed: %s\n", m.confirmInput)
		b.WriteString(helpStyle.Render("esc cancel"))
	} else {
		b.WriteString("Delete everything in the plan?\n")
		b.WriteString(helpStyle.Render("y confirm · n cancel"))
	}
	return b.String()
}

func (m *model) viewSummary() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Done"))
	b.WriteString("\n\n")
	if m.snapshotNote != "" {
		fmt.Fprintf(&b, "  %s\n", m.snapshotNote)
	}
	fmt.Fprintf(&b, "  Removed %d files and %d directories\n",
		m.report.FilesRemoved, m.report.DirsRemoved)
	fmt.Fprintf(&b, "  Freed %s\n", humanize.IBytes(uint64(m.report.BytesFreed)))
	if m.report.Errors > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Errors encountered: %d\n", m.report.Errors)))
		for _, p := range m.report.Problems {
			b.WriteString(dimStyle.Render("    " + p + "\n"))
		}
	}
	if m.statusErr != "" {
		b.WriteString(errorStyle.Render("  " + m.statusErr + "\n"))
	}
	b.WriteString(helpStyle.Render("enter/q quit"))
	return b.String()
}
