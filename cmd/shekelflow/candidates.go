package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shekelflow/shekelflow/internal/candidates"
	"github.com/shekelflow/shekelflow/internal/cli"
	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/model"
	"github.com/shekelflow/shekelflow/internal/rules"
	"github.com/shekelflow/shekelflow/internal/table"
)

func candidatesCmd() *cobra.Command {
	var inPaths, pairPaths []string
	var rulesPath, outPath string

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Build the rule-candidate report for human review",
		Long: `Classifies the input batches, groups them by (txn_kind,
fingerprint_hash, description_clean_norm) and writes one row per group
with usage counts, bounded examples and the payee/category
distributions seen in reconciled register pairs.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			batch, err := readBatches(inPaths)
			if err != nil {
				return err
			}

			engine, _, err := loadEngine(rulesPath)
			if err != nil {
				return err
			}

			txns := rules.PrepareTransactions(batch)
			results := engine.ClassifyAll(txns)

			hints, err := readPairHints(pairPaths)
			if err != nil {
				return err
			}

			groups := candidates.BuildGroups(txns, results, hints)
			out := groupsTable(groups)
			if err := out.WriteFile(outPath); err != nil {
				return err
			}

			common.LogInfo("built candidate groups", common.Fields{
				"transactions": len(txns), "groups": len(groups), "hints": len(hints), "path": outPath,
			})
			cli.Successf("Wrote %d candidate groups (%d transactions) to %s", len(groups), len(txns), outPath)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&inPaths, "in", nil, "normalized transaction CSV (repeatable)")
	cmd.Flags().StringArrayVar(&pairPaths, "pairs", nil, "matched pairs CSV (repeatable)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "payee map CSV (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "candidate report output path")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// readPairHints runs the Transaction Preparer over matched-pairs
// batches so hint keys line up with candidate group keys, then zips in
// the register payee/category columns.
func readPairHints(paths []string) ([]candidates.PairHint, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	batch, err := readBatches(paths)
	if err != nil {
		return nil, err
	}

	txns := rules.PrepareTransactions(batch)
	hints := make([]candidates.PairHint, len(txns))
	for i := range txns {
		hints[i] = candidates.PairHint{
			TxnKind:         txns[i].TxnKind,
			FingerprintHash: txns[i].FingerprintHash,
			PayeeRaw:        batch.Get(i, "ynab_payee_raw"),
			CategoryRaw:     batch.Get(i, "ynab_category_raw"),
		}
	}
	return hints, nil
}

func groupsTable(groups []model.CandidateGroup) *table.Table {
	t := table.New(
		"txn_kind",
		"fingerprint_hash",
		"description_clean_norm",
		"count_in_period",
		"example_1",
		"example_2",
		"suggested_payee_distribution",
		"suggested_category_distribution",
		"existing_rules_hit_count",
		"status",
	)
	for _, group := range groups {
		t.Append(map[string]string{
			"txn_kind":                        group.TxnKind,
			"fingerprint_hash":                group.FingerprintHash,
			"description_clean_norm":          group.DescriptionCleanNorm,
			"count_in_period":                 strconv.Itoa(group.CountInPeriod),
			"example_1":                       group.Example1,
			"example_2":                       group.Example2,
			"suggested_payee_distribution":    group.SuggestedPayeeDistribution,
			"suggested_category_distribution": group.SuggestedCategoryDistribution,
			"existing_rules_hit_count":        strconv.Itoa(group.ExistingRulesHitCount),
			"status":                          string(group.Status),
		})
	}
	return t
}
