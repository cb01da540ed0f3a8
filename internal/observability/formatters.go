// Package observability provides formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-pathfinder/internal/normalize"
	"github.com/jonathan/career-pathfinder/internal/types"
)

const (
	// boxWidth is the width of formatted output boxes
	boxWidth = 72
	// maxSkillsToShow is the number of skills listed per stage
	maxSkillsToShow = 4
)

// Printer writes human-readable results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped))
		}
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap breaks line at spaces so each piece fits width. Indentation carries over
// to continuation lines.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	var out []string
	current := ""
	for _, word := range strings.Fields(line) {
		switch {
		case current == "":
			current = indent + word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			out = append(out, current)
			current = indent + word
		}
	}
	return append(out, current)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintResult prints either kind of generation result.
func (p *Printer) PrintResult(result types.Result) {
	switch r := result.(type) {
	case *types.CareerPathResult:
		p.PrintCareerPath(r)
	case *types.GuidanceResult:
		p.PrintGuidance(r)
	}
}

// PrintCareerPath prints each stage of an accepted career path.
func (p *Printer) PrintCareerPath(result *types.CareerPathResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Target:  %s\n", result.TargetRole)
	if result.Region != "" {
		fmt.Fprintf(&sb, "Region:  %s\n", result.Region)
	}
	fmt.Fprintf(&sb, "Model:   %s (%s prompt)\n", result.UsedModel, result.PromptVariant)

	for i, node := range result.Nodes {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d. %s [%s]\n", i+1, node.Title, node.Level)
		fmt.Fprintf(&sb, "   Experience: %s", normalize.FormatYears(node.YearsExperience))
		if node.SalaryLow != nil && node.SalaryHigh != nil {
			fmt.Fprintf(&sb, "   Salary: %s", normalize.FormatSalary(*node.SalaryLow, *node.SalaryHigh))
		}
		fmt.Fprintf(&sb, "   Growth: %s\n", node.GrowthPotential)
		if len(node.Skills) > 0 {
			skills := node.Skills
			if len(skills) > maxSkillsToShow {
				skills = skills[:maxSkillsToShow]
			}
			fmt.Fprintf(&sb, "   Skills: %s", strings.Join(skills, ", "))
			if extra := len(node.Skills) - len(skills); extra > 0 {
				fmt.Fprintf(&sb, " (+%d more)", extra)
			}
			sb.WriteString("\n")
		}
		if len(node.Certifications) > 0 {
			fmt.Fprintf(&sb, "   Certifications: %s\n", strings.Join(node.Certifications, ", "))
		}
	}

	p.printBox("CAREER PATH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGuidance prints the profile tasks returned instead of a career path.
func (p *Printer) PrintGuidance(result *types.GuidanceResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(result.Message)
	sb.WriteString("\n")
	if result.Reason != types.ReasonNone {
		fmt.Fprintf(&sb, "(last rejection: %s)\n", result.Reason)
	}

	for i, task := range result.Tasks {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d. [%s] %s (~%d min)\n", i+1, strings.ToUpper(string(task.Priority)), task.Title, task.EstimatedDurationMinutes)
		fmt.Fprintf(&sb, "   %s\n", task.Description)
		if task.ActionURL != "" {
			fmt.Fprintf(&sb, "   → %s\n", task.ActionURL)
		}
	}

	p.printBox("PROFILE GUIDANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvents prints the attempt history of one generation.
func (p *Printer) PrintEvents(events []types.TelemetryEvent) {
	if len(events) == 0 {
		return
	}

	var sb strings.Builder
	for _, e := range events {
		fmt.Fprintf(&sb, "%-16s", e.Type)
		if e.Attempt > 0 {
			fmt.Fprintf(&sb, " #%d", e.Attempt)
		}
		if e.PromptVariant != "" {
			fmt.Fprintf(&sb, " %s", e.PromptVariant)
		}
		if e.Reason != types.ReasonNone {
			fmt.Fprintf(&sb, " %s", e.Reason)
		}
		if e.Details != "" {
			fmt.Fprintf(&sb, ": %s", e.Details)
		}
		sb.WriteString("\n")
	}

	p.printBox("ATTEMPTS", strings.TrimSuffix(sb.String(), "\n"))
}
