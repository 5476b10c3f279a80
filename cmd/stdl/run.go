package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	stdl "github.com/jbaker8935/stdl"
	"github.com/jbaker8935/stdl/internal/logger"
)

var (
	stateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	promptText  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render("stdl> ")
)

var runCmd = &cobra.Command{
	Use:   "run <file.stdl>",
	Short: "Interactively execute a state machine document",
	Long: `Start a debugging session over a document. Events are read one per line:

  <event>            send an event with no guard
  <event> [guard]    send an event with a guard
  state              print the current state
  actions <event>    preview the actions an event would fire
  reset              return to the initial state
  quit               leave the session`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	text, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	model, diagnostics, err := stdl.Compile(text)
	if err != nil {
		return err
	}
	for _, d := range diagnostics {
		if d.Severity == stdl.SeverityError {
			return fmt.Errorf("document has errors, fix them first (run \"stdl check %s\")", args[0])
		}
	}

	session := stdl.NewSession(model)
	session.Engine().AddObserver(stdl.NewLoggingObserver(logger.NewStyledLogger("session")))
	logger.Debug("session started", "id", session.ID(), "initial", model.InitialState)

	fmt.Printf("machine loaded, %d states\n", len(model.Order))
	fmt.Printf("current state: %s\n", stateStyle.Render(session.CurrentState()))

	var pending []stdl.StepChoice
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptText)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "quit" || line == "exit":
			return nil
		case line == "state":
			fmt.Printf("current state: %s\n", stateStyle.Render(session.CurrentState()))
		case line == "reset":
			session.Reset()
			pending = nil
			fmt.Printf("reset to %s\n", stateStyle.Render(session.CurrentState()))
		case strings.HasPrefix(line, "actions "):
			previewActions(session, strings.TrimSpace(strings.TrimPrefix(line, "actions ")))
		case strings.HasPrefix(line, "choose "):
			pending = resolveChoice(session, pending, strings.TrimSpace(strings.TrimPrefix(line, "choose ")))
		default:
			event, guard := splitEventLine(line)
			result := session.Send(event, guard)
			pending = result.Choices
			printResult(result)
		}
	}
	return scanner.Err()
}

func resolveChoice(session *stdl.Session, pending []stdl.StepChoice, arg string) []stdl.StepChoice {
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n < 1 || n > len(pending) {
		fmt.Println(warnStyle.Render("nothing to choose, or index out of range"))
		return pending
	}
	printResult(session.Choose(pending[n-1]))
	return nil
}

// splitEventLine parses "event [guard]" input lines; the guard is optional.
func splitEventLine(line string) (event, guard string) {
	if open := strings.Index(line, "["); open >= 0 {
		event = strings.TrimSpace(line[:open])
		guard = strings.TrimSpace(line[open+1:])
		guard = strings.TrimSuffix(guard, "]")
		return event, strings.TrimSpace(guard)
	}
	return line, ""
}

func previewActions(session *stdl.Session, rest string) {
	event, guard := splitEventLine(rest)
	actions, ok := session.Engine().ActionInfo(session.CurrentState(), event, guard)
	if !ok {
		fmt.Println(warnStyle.Render("no unique transition for that event and guard"))
		return
	}
	if len(actions) == 0 {
		fmt.Println("no actions")
		return
	}
	for _, a := range actions {
		fmt.Printf("  / %s\n", actionStyle.Render(a))
	}
}

func printResult(result *stdl.StepResult) {
	switch result.Kind {
	case stdl.StepNewState:
		for _, effect := range result.Effects {
			switch effect.Kind {
			case stdl.EffectAction, stdl.EffectEntry, stdl.EffectExit:
				fmt.Printf("  %s %s (%s)\n", effect.Kind, actionStyle.Render(effect.Name), effect.State)
			case stdl.EffectTransition, stdl.EffectInitialTransition:
				fmt.Printf("  %s -> %s\n", effect.State, stateStyle.Render(effect.Name))
			}
		}
		fmt.Printf("current state: %s\n", stateStyle.Render(result.NewState))
	case stdl.StepChoices:
		fmt.Println(warnStyle.Render("ambiguous transition, pick a target:"))
		for i, choice := range result.Choices {
			fmt.Printf("  %d) -> %s [%s] (line %d)\n", i+1, choice.Target, choice.Guard, choice.Range.Start.Line+1)
		}
		fmt.Println("resolve with: choose <n>")
	case stdl.StepWarning:
		fmt.Println(warnStyle.Render(result.Warning))
	case stdl.StepError:
		fmt.Println(errStyle.Render(result.Err.Error()))
	}
}
