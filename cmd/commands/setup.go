package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/framework"
)

func newSetupCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "setup <framework>",
		Short: "Set up a framework without running a benchmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupMode, err := framework.ParseSetupMode(mode)
			if err != nil {
				return err
			}
			if setupMode == framework.SetupSkip {
				return fmt.Errorf("setup mode %s does nothing here", setupMode)
			}

			defs, err := framework.LoadDefinitions(appConfig.Frameworks.DefinitionFile, logger)
			if err != nil {
				return err
			}
			registry := framework.NewRegistry(defs)
			registry.Register(framework.ConstantPredictor{})

			name := args[0]
			if err := registry.Setup(cmd.Context(), name, setupMode, appConfig.Frameworks.CacheDir, logger); err != nil {
				return err
			}
			logger.Info("setup complete", zap.String("framework", name))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "force", "setup mode (auto, force, only)")

	return cmd
}
