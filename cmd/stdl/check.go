package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	stdl "github.com/jbaker8935/stdl"
	"github.com/jbaker8935/stdl/internal/logger"
)

var severityStyles = map[stdl.Severity]lipgloss.Style{
	stdl.SeverityError:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	stdl.SeverityWarning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	stdl.SeverityInformation: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	stdl.SeverityHint:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

var checkCmd = &cobra.Command{
	Use:   "check <file.stdl>...",
	Short: "Parse and validate documents, printing all diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	failed := false
	for _, path := range args {
		text, err := loadDocument(path)
		if err != nil {
			return err
		}

		ws := stdl.NewWorkspace()
		diagnostics := ws.SetDocument(path, text)
		logger.Debug("checked document", "path", path, "diagnostics", len(diagnostics))

		for _, d := range diagnostics {
			style := severityStyles[d.Severity]
			fmt.Printf("%s:%d:%d %s %s\n",
				path,
				d.Range.Start.Line+1,
				d.Range.Start.Column+1,
				style.Render(d.Severity.String()),
				d.Message)
			if d.Severity == stdl.SeverityError {
				failed = true
			}
		}
		if len(diagnostics) == 0 {
			fmt.Printf("%s: ok\n", path)
		}
	}
	if failed {
		return fmt.Errorf("documents contain errors")
	}
	return nil
}
