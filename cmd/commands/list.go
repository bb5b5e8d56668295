package commands

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seb-h2o/automlbenchmark/pkg/catalog"
	"github.com/seb-h2o/automlbenchmark/pkg/framework"
	"github.com/seb-h2o/automlbenchmark/pkg/reporter"
)

func newListCommand() *cobra.Command {
	var benchmarkName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available frameworks, tasks, and formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := framework.LoadDefinitions(appConfig.Frameworks.DefinitionFile, logger)
			if err != nil {
				logger.Warn("could not load framework definitions, listing built-in adapters only",
					zap.String("file", appConfig.Frameworks.DefinitionFile),
					zap.Error(err))
				defs = nil
			}
			registry := framework.NewRegistry(defs)
			registry.Register(framework.ConstantPredictor{})
			writeList("Frameworks", registry.Names())

			if benchmarkName != "" {
				cat, err := catalog.Load(benchmarkPath(benchmarkName), catalog.Defaults{})
				if err != nil {
					return err
				}
				names := make([]string, 0, len(cat.Tasks()))
				for _, task := range cat.Tasks() {
					names = append(names, task.Name)
				}
				writeList("Tasks", names)
			}

			writeList("Setup modes", []string{"auto", "skip", "force", "only"})
			writeList("Formats", []string{reporter.FormatTable, reporter.FormatJSON, reporter.FormatCSV})
			return nil
		},
	}

	cmd.Flags().StringVarP(&benchmarkName, "benchmark", "b", "", "also list the tasks of this benchmark")

	return cmd
}

func writeList(title string, items []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{title})
	for _, item := range items {
		table.Append([]string{item})
	}
	table.Render()
}
