package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	jobctrl "tracerag/src/infrastructure/job"
	"tracerag/src/infrastructure/log"
)

var (
	ingestStrategy string
	ingestSize     int
	ingestOverlap  int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [sources...]",
	Short: "Ingest one or more sources from the command line",
	Long: `The ingest command runs the full pipeline inline for each source:
collect, chunk, embed, and index. Sources can be file paths, URLs,
GitHub repositories, or jira:// issue keys.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	settingDefaultConfig()

	ingestCmd.Flags().StringVar(&ingestStrategy, "strategy", "", "chunking strategy (structure, recursive, fixed, semantic, paragraph-overlap)")
	ingestCmd.Flags().IntVar(&ingestSize, "chunk-size", 0, "chunk size budget in characters")
	ingestCmd.Flags().IntVar(&ingestOverlap, "chunk-overlap", 0, "overlap between adjacent chunks")
}

func runIngest(cmd *cobra.Command, args []string) error {
	strategy := ingestStrategy
	if strategy == "" {
		strategy = viper.GetString("chunking.strategy")
	}
	size := ingestSize
	if size == 0 {
		size = viper.GetInt("chunking.size")
	}
	overlap := ingestOverlap
	if overlap == 0 {
		overlap = viper.GetInt("chunking.overlap")
	}

	cfg, err := jobctrl.ChunkingConfig(strategy, size, overlap)
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	stack, err := buildIngestStack(db)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(args)), "ingesting")

	var ingested, failed int
	for _, source := range args {
		report, err := stack.service.Ingest(cmd.Context(), source, cfg)
		if err != nil {
			log.Error(err, "failed to ingest source", "source", source)
			failed++
			bar.Add(1)
			continue
		}
		ingested += report.Ingested
		failed += report.Failed
		for _, doc := range report.Documents {
			if doc.Status == "failed" {
				fmt.Printf("  %s: %s\n", doc.Name, doc.Error)
			}
		}
		bar.Add(1)
	}

	fmt.Printf("\ndone: %d documents ingested, %d failed\n", ingested, failed)
	return nil
}
