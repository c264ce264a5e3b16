// Command proposalgen собирает черновик заявки из полей формы, при
// необходимости улучшает его через модель и сохраняет .docx.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/tribaldesk-backend/internal/ai"
	"github.com/ignatzorin/tribaldesk-backend/internal/config"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/proposal"
)

const (
	Version = "0.1.0"
	appName = "proposalgen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Grant proposal drafts from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(draftCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

type draftOptions struct {
	project string
	org     string
	input   string
	enhance bool
	model   string
	out     string
	verbose bool
}

func draftCmd() *cobra.Command {
	var opts draftOptions

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Build a proposal draft and write it as .docx",
		Long: `Builds the eight-section proposal draft, optionally rewrites it with the
AI model, prints the final Markdown and writes a Word document.

Section texts can be supplied in a YAML file (--input) with the keys
org, project, summary, need, goals, methods, evaln, budget, sustain,
sovereignty. --project and --org override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraft(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.project, "project", "", "Project title")
	cmd.Flags().StringVar(&opts.org, "org", "", "Organization name")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "YAML file with section texts")
	cmd.Flags().BoolVar(&opts.enhance, "enhance", false, "Rewrite the draft with the AI model")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to use with --enhance (default OPENAI_MODEL)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output .docx path (default <project>.docx)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline details to stderr")

	return cmd
}

func runDraft(ctx context.Context, opts draftOptions, stdout, stderr io.Writer) error {
	if opts.verbose {
		logger.Init("debug")
		logger.SetTextFormatter()
		logger.Log.SetOutput(stderr)
	}

	draft, err := readDraft(opts)
	if err != nil {
		return err
	}

	cfg, err := config.LoadAI()
	if err != nil {
		return err
	}
	settings := ai.Settings{
		BaseURL:      cfg.AIBaseURL,
		APIKey:       cfg.OpenAIAPIKey,
		DefaultModel: cfg.OpenAIModel,
		Timeout:      cfg.AITimeout,
	}

	var enhancers repository.EnhancerFactory
	if settings.Configured() {
		enhancers = func(model string) (repository.ProposalEnhancer, error) {
			client, err := settings.Client(model)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	export := proposal.NewExportDocxUseCase(proposal.NewGenerateDraftUseCase(enhancers, nil, nil), nil)
	result, err := export.Execute(ctx, proposal.Input{Draft: draft, Enhance: opts.enhance, Model: opts.model})
	if err != nil {
		return err
	}

	if f := result.Enhancement.Failure; f != nil {
		fmt.Fprintf(stderr, "warning: AI enhancement failed (%s): %s; writing the original draft\n", f.Reason, f.Message)
	}

	fmt.Fprint(stdout, result.Markdown)

	path := opts.out
	if path == "" {
		path = result.FileName
	}
	if err := os.WriteFile(path, result.Content, 0o644); err != nil {
		return fmt.Errorf("proposalgen: запись %s: %w", path, err)
	}
	fmt.Fprintf(stderr, "wrote %s\n", path)
	return nil
}

// readDraft собирает поля черновика из YAML файла и флагов.
func readDraft(opts draftOptions) (entity.ProposalDraft, error) {
	var draft entity.ProposalDraft
	if opts.input != "" {
		data, err := os.ReadFile(opts.input)
		if err != nil {
			return draft, fmt.Errorf("proposalgen: чтение %s: %w", opts.input, err)
		}
		if err := yaml.Unmarshal(data, &draft); err != nil {
			return draft, fmt.Errorf("proposalgen: разбор %s: %w", opts.input, err)
		}
	}
	if opts.project != "" {
		draft.Project = opts.project
	}
	if opts.org != "" {
		draft.Organization = opts.org
	}
	return draft, nil
}
