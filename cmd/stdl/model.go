package main

import (
	"fmt"

	"github.com/spf13/cobra"

	stdl "github.com/jbaker8935/stdl"
	"github.com/jbaker8935/stdl/internal/logger"
	"github.com/jbaker8935/stdl/visualization"
)

var modelFormat string

var modelCmd = &cobra.Command{
	Use:   "model <file.stdl>",
	Short: "Print the flattened state machine model",
	Long: `Flatten a document into its qualified-name transition table and print it
in the requested format. The model is best-effort: documents with errors still
produce the valid remainder of the machine.`,
	Args: cobra.ExactArgs(1),
	RunE: runModel,
}

func init() {
	modelCmd.Flags().StringVar(&modelFormat, "format", "yaml", "Output format: yaml, json, or dot")
}

func runModel(cmd *cobra.Command, args []string) error {
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
			logger.Warn("document has errors; model is partial", "path", args[0])
			break
		}
	}

	switch modelFormat {
	case "yaml":
		out, err := model.ExportYAML()
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "json":
		out, err := model.ExportJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "dot":
		fmt.Print(visualization.NewDOTGenerator(model).Generate())
	default:
		return fmt.Errorf("unknown format %q (want yaml, json, or dot)", modelFormat)
	}
	return nil
}
