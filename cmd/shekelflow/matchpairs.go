package main

import (
	"github.com/spf13/cobra"

	"github.com/shekelflow/shekelflow/internal/cli"
	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/config"
	"github.com/shekelflow/shekelflow/internal/pairing"
	"github.com/shekelflow/shekelflow/internal/table"
)

func matchPairsCmd() *cobra.Command {
	var bankPaths, cardPaths, registerPaths []string
	var outPath string

	cmd := &cobra.Command{
		Use:   "match-pairs",
		Short: "Reconcile bank/card transactions against the register",
		Long: `Joins normalized bank and card batches against budgeting-register
entries on exact account, date and signed amount, and writes the
matched pairs with their fingerprints and ambiguity flags.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			bank, err := readBatches(bankPaths)
			if err != nil {
				return err
			}
			card, err := readBatches(cardPaths)
			if err != nil {
				return err
			}
			register, err := readBatches(registerPaths)
			if err != nil {
				return err
			}

			pairs := pairing.MatchPairs(bank, card, register)
			out := pairing.PairsTable(pairs)
			if outPath == "" {
				outPath = config.MatchedPairsPath()
			}
			if err := out.WriteFile(outPath); err != nil {
				return err
			}

			ambiguous := 0
			for _, pair := range pairs {
				if pair.AmbiguousKey {
					ambiguous++
				}
			}
			common.LogInfo("matched pairs", common.Fields{"pairs": len(pairs), "ambiguous": ambiguous, "path": outPath})
			cli.Successf("Wrote %d matched pairs to %s (%d on ambiguous keys)", len(pairs), outPath, ambiguous)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&bankPaths, "bank", nil, "normalized bank CSV (repeatable)")
	cmd.Flags().StringArrayVar(&cardPaths, "card", nil, "normalized card CSV (repeatable)")
	cmd.Flags().StringArrayVar(&registerPaths, "register", nil, "normalized register CSV (repeatable)")
	cmd.Flags().StringVar(&outPath, "out", "", "matched pairs output path")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("register")
	return cmd
}

// readBatches reads and stacks CSV batches, tagging each row with the
// file it came from.
func readBatches(paths []string) (*table.Table, error) {
	tables := make([]*table.Table, 0, len(paths))
	for _, path := range paths {
		t, err := table.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for i := 0; i < t.Len(); i++ {
			t.Set(i, "source_file", path)
		}
		tables = append(tables, t)
	}
	return table.Concat(tables...), nil
}
