package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phobologic/ahkguide/internal/model"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Width(22)
	countStyle   = lipgloss.NewStyle().Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// printSummary writes per-category and per-tier counts for a finished batch.
func printSummary(w io.Writer, report model.RunReport) {
	byCategory := map[model.Category]int{}
	byTier := map[model.Tier]int{}
	for _, s := range report.Scripts {
		byCategory[s.Category]++
		byTier[s.Tier]++
	}

	row := func(label string, n int) string {
		return "  " + labelStyle.Render(label) + countStyle.Render(fmt.Sprint(n))
	}

	lines := []string{headingStyle.Render("Summary")}
	for _, c := range model.Categories() {
		lines = append(lines, row(string(c), byCategory[c]))
	}
	for _, t := range model.Tiers() {
		lines = append(lines, row(string(t), byTier[t]))
	}
	lines = append(lines, row("Total", len(report.Scripts)))
	if n := len(report.Failures); n > 0 {
		lines = append(lines, failureStyle.Render(fmt.Sprintf("  %d scripts failed:", n)))
		for _, f := range report.Failures {
			lines = append(lines, failureStyle.Render("    "+f.Path+": "+f.Reason))
		}
	}

	_, _ = fmt.Fprintln(w, strings.Join(lines, "\n"))
}
