package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/evaluation"
	"github.com/babyname-machine/backend/internal/prediction"
	"github.com/babyname-machine/backend/pkg/config"
	appLogger "github.com/babyname-machine/backend/pkg/logger"
)

var (
	datasetFile     string
	transformerPath string
	classifierPath  string

	rootCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Score the Top 100 classifier against a labeled name set",
		Long: `evaluate runs every item of a labeled JSON set through the prediction
service and prints a confusion matrix with accuracy, precision, recall, F1
and log loss. Artifact paths default to the server configuration.`,
		SilenceUsage: true,
		RunE:         runEvaluate,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&datasetFile, "dataset", "d", "", "labeled evaluation set (JSON)")
	rootCmd.Flags().StringVar(&transformerPath, "transformer", "", "transformer artifact (default: model.transformerPath)")
	rootCmd.Flags().StringVar(&classifierPath, "classifier", "", "classifier artifact (default: model.classifierPath)")
	_ = rootCmd.MarkFlagRequired("dataset")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Sync()

	if transformerPath == "" {
		transformerPath = cfg.Model.TransformerPath
	}
	if classifierPath == "" {
		classifierPath = cfg.Model.ClassifierPath
	}

	data, err := os.ReadFile(datasetFile)
	if err != nil {
		return fmt.Errorf("failed to read evaluation set: %w", err)
	}

	evaluator := evaluation.NewEvaluator(prediction.NewService(
		prediction.TransformerHandle(transformerPath),
		prediction.ClassifierHandle(classifierPath),
	))

	dataset, err := evaluator.LoadDatasetFromJSON(data)
	if err != nil {
		return err
	}

	appLogger.Info("Evaluating classifier",
		zap.String("dataset", datasetFile),
		zap.Int("items", len(dataset.Items)),
	)

	report, err := evaluator.RunDatasetEvaluation(cmd.Context(), dataset)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), evaluator.GenerateReport(report))
	return nil
}
