package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"samarth-platform/internal/models"
	"samarth-platform/internal/nlsql"
	"samarth-platform/internal/services"
	"samarth-platform/pkg/render"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question with generated SQL",
	Long: `Generates SQL for the question with the local model, runs it against the
snapshots and prints the result with its citations. When the generated SQL
fails, a fixed fallback result is printed instead. Without a question the two
demo questions are answered in turn.`,
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	questions := nlsql.DemoQuestions
	if len(args) > 0 {
		questions = []string{strings.Join(args, " ")}
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	svc := eng.qaService(nlsql.Scripted, services.WithFallback())

	fmt.Fprintln(out, "Project Samarth Q&A")
	fmt.Fprintf(out, "Ollama: %s at %s\n", eng.generator.Model(), eng.generator.Endpoint())
	answered := 0
	for _, q := range questions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if printAnswer(out, svc.Answer(ctx, q)) {
			answered++
		}
	}
	fmt.Fprintf(out, "\nAnswered %d of %d questions\n", answered, len(questions))
	return nil
}

// printAnswer writes a to out and reports whether a real result was shown.
func printAnswer(out io.Writer, a *models.Answer) bool {
	bold := color.New(color.Bold)
	bold.Fprintf(out, "\nQ: %s\n", a.Question)
	fmt.Fprintf(out, "\nSQL:\n%s\n", color.CyanString(a.SQL))

	switch a.State {
	case models.StateResultReady:
		bold.Fprintln(out, "\nRESULT:")
		render.Table(out, a.Result)
		bold.Fprintln(out, "\nCITATION:")
		for _, c := range a.Citations {
			fmt.Fprintf(out, "• %s\n", c)
		}
		a.MarkPresented()

	case models.StateModelError:
		color.New(color.FgRed).Fprintf(out, "\nMODEL ERROR: %s\n", a.Error)

	case models.StateParseExecuteError:
		color.New(color.FgRed).Fprintf(out, "\nSQL ERROR: %s\n", a.Error)
		if a.Fallback {
			fmt.Fprintln(out, "Trying fallback query...")
			render.Table(out, a.Result)
		}
	}
	return a.Succeeded()
}
