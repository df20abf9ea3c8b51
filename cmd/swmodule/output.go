package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-swmodule/pkg/dialog"
	"github.com/goliatone/go-swmodule/pkg/notify"
	"github.com/goliatone/go-swmodule/pkg/softwaremodule"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printNotifications(w io.Writer, notes []notify.Notification) {
	for _, note := range notes {
		style := successStyle
		if note.Level == notify.LevelValidationError {
			style = errorStyle
		}
		fmt.Fprintln(w, style.Render(note.Message))
	}
}

func printValidation(w io.Writer, verr *dialog.ValidationError) {
	for _, message := range verr.Form {
		fmt.Fprintln(w, errorStyle.Render(message))
	}
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, message := range verr.Fields[name] {
			fmt.Fprintf(w, "%s %s\n", errorStyle.Render(name+":"), message)
		}
	}
}

// printTable renders rows in padded columns under a styled header.
func printTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, cell := range header {
		widths[i] = lipgloss.Width(cell)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style.Width(widths[i]).Render(cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, line(header, headerStyle))
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("(none)"))
		return
	}
	for _, row := range rows {
		fmt.Fprintln(w, line(row, lipgloss.NewStyle()))
	}
}

func moduleRows(modules []softwaremodule.SoftwareModule) [][]string {
	rows := make([][]string, 0, len(modules))
	for _, module := range modules {
		typeName := module.TypeName()
		if module.Type != nil && module.Type.Deleted {
			typeName += " (deleted)"
		}
		rows = append(rows, []string{
			module.ID.String(),
			typeName,
			module.Name,
			module.Version,
			module.Vendor,
			strconv.Itoa(module.OptLockRevision),
			strconv.FormatBool(module.Deleted),
		})
	}
	return rows
}

func typeRows(types []softwaremodule.ModuleType) [][]string {
	rows := make([][]string, 0, len(types))
	for _, typ := range types {
		rows = append(rows, []string{
			typ.ID.String(),
			typ.Key,
			typ.Name,
			strconv.Itoa(typ.MaxAssignments),
			typ.Description,
		})
	}
	return rows
}
