package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shekelflow/shekelflow/internal/cli"
	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/config"
	"github.com/shekelflow/shekelflow/internal/model"
	"github.com/shekelflow/shekelflow/internal/rules"
	"github.com/shekelflow/shekelflow/internal/table"
)

// resultColumns are appended to the input batch, one value per row.
var resultColumns = []string{
	"payee_canonical_suggested",
	"category_target_suggested",
	"match_rule_id",
	"match_specificity_score",
	"match_status",
	"match_candidate_rule_ids",
	"match_rule_count",
}

func classifyCmd() *cobra.Command {
	var inPaths []string
	var rulesPath, outPath string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify transactions against the payee map",
		Long: `Prepares each transaction's comparison view, matches it against the
active payee-map rules and writes the batch back out with the
classification result columns appended.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			batch, err := readBatches(inPaths)
			if err != nil {
				return err
			}

			engine, ruleCount, err := loadEngine(rulesPath)
			if err != nil {
				return err
			}

			txns := rules.PrepareTransactions(batch)
			bar := progressbar.Default(int64(len(txns)), "classifying")
			results := make([]model.Classification, len(txns))
			for i := range txns {
				results[i] = engine.Classify(&txns[i])
				_ = bar.Add(1)
			}

			appendResults(batch, results)
			if err := batch.WriteFile(outPath); err != nil {
				return err
			}

			unique, ambiguous, none := tallyStatuses(results)
			common.LogInfo("classified batch", common.Fields{
				"rows": len(txns), "rules": ruleCount,
				"unique": unique, "ambiguous": ambiguous, "none": none,
			})
			cli.Successf("Classified %d transactions against %d rules: %d unique, %d ambiguous, %d unmatched",
				len(txns), ruleCount, unique, ambiguous, none)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&inPaths, "in", nil, "normalized transaction CSV (repeatable)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "payee map CSV (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "classified output path")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// loadEngine reads and validates the payee map, then builds a matching
// engine over it. Validation failures abort before any matching.
func loadEngine(rulesPath string) (*rules.Engine, int, error) {
	if rulesPath == "" {
		rulesPath = config.PayeeMapPath()
	}
	ruleTable, err := table.ReadFile(rulesPath)
	if err != nil {
		return nil, 0, err
	}
	ruleSet, err := rules.ParseRules(ruleTable)
	if err != nil {
		return nil, 0, err
	}
	return rules.NewEngine(ruleSet), len(ruleSet), nil
}

func appendResults(batch *table.Table, results []model.Classification) {
	for _, col := range resultColumns {
		if !batch.HasColumn(col) {
			batch.Columns = append(batch.Columns, col)
		}
	}
	for i, result := range results {
		batch.Set(i, "payee_canonical_suggested", result.PayeeCanonicalSuggested)
		batch.Set(i, "category_target_suggested", result.CategoryTargetSuggested)
		batch.Set(i, "match_rule_id", result.MatchRuleID)
		batch.Set(i, "match_specificity_score", fmt.Sprintf("%d", result.MatchSpecificityScore))
		batch.Set(i, "match_status", string(result.MatchStatus))
		batch.Set(i, "match_candidate_rule_ids", result.MatchCandidateRuleIDs)
		batch.Set(i, "match_rule_count", fmt.Sprintf("%d", result.MatchRuleCount))
	}
}

func tallyStatuses(results []model.Classification) (unique, ambiguous, none int) {
	for _, result := range results {
		switch result.MatchStatus {
		case model.MatchUnique:
			unique++
		case model.MatchAmbiguous:
			ambiguous++
		case model.MatchNone:
			none++
		}
	}
	return unique, ambiguous, none
}
