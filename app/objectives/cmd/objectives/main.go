package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/usecase"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/config"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm/factory"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/logger"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/prompt"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/render"
)

var (
	configPath  string
	requestPath string
	format      string
)

var rootCmd = &cobra.Command{
	Use:   "objectives",
	Short: "Generate loyalty/CRM objectives from company context",
	Long: `objectives runs the loyalty/CRM objectives pipeline from the command line.

The request file uses the same fields as the POST /generate body
(company_name, previous_data, current_prompt_data) in YAML or JSON.`,
	SilenceUsage: true,
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system and user prompt for a request file",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequest(requestPath)
		if err != nil {
			return err
		}
		pair := prompt.Build(req)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== system ===")
		fmt.Fprintln(out, pair.System)
		fmt.Fprintln(out, "=== user ===")
		fmt.Fprintln(out, pair.User)
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Call the configured provider once and print the objectives document",
	RunE:  runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&requestPath, "request", "r", "", "request file (yaml or json)")
	_ = rootCmd.MarkPersistentFlagRequired("request")

	generateCmd.Flags().StringVarP(&configPath, "config", "c", "app/objectives/configs/cli.yaml", "config path")
	generateCmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown | html | json")

	rootCmd.AddCommand(promptCmd, generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}

	req, err := loadRequest(requestPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	gen, err := factory.NewGenerator(ctx, &cfg.LLM)
	if err != nil {
		return err
	}
	uc := usecase.NewObjectivesUseCase(gen, &usecase.Settings{
		Model:        cfg.LLM.Model,
		Temperature:  cfg.LLM.TemperatureValue(),
		MaxTokens:    cfg.LLM.MaxTokens,
		Timeout:      cfg.LLM.CallTimeout(),
		StrictSchema: cfg.LLM.StrictSchema,
	}, log.NewStdLogger(os.Stderr))

	doc, err := uc.Generate(ctx, req)
	if err != nil {
		return err
	}

	out, err := formatDocument(doc, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func formatDocument(doc *model.ObjectivesDocument, format string) (string, error) {
	switch format {
	case "markdown", "md":
		return render.Markdown(doc)
	case "html":
		return render.HTML(doc)
	case "json":
		js, err := render.StructuredJSON(&model.ObjectivesDocument{Structured: map[string]any{
			"generated_output": doc.Narrative,
			"structured_data":  doc.Structured,
		}})
		if err != nil {
			return "", err
		}
		return js + "\n", nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}
