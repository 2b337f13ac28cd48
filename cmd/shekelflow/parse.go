package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shekelflow/shekelflow/internal/accountmap"
	"github.com/shekelflow/shekelflow/internal/cli"
	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/config"
	"github.com/shekelflow/shekelflow/internal/ingest"
	"github.com/shekelflow/shekelflow/internal/table"
)

func parseBankCmd() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "parse-bank",
		Short: "Normalize a bank statement export into CSV",
		RunE: func(_ *cobra.Command, _ []string) error {
			batch, err := ingest.ReadBank(inPath)
			if err != nil {
				common.LogError(err, "bank statement parse failed", common.Fields{"path": inPath})
				return common.NewUserError("could not parse bank statement", err)
			}
			return writeNormalized(batch, "bank", outPath)
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "bank statement file (.xls)")
	cmd.Flags().StringVar(&outPath, "out", "", "normalized CSV output path")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func parseCardCmd() *cobra.Command {
	var inPath, outPath, account string

	cmd := &cobra.Command{
		Use:   "parse-card",
		Short: "Normalize a credit-card statement export into CSV",
		RunE: func(_ *cobra.Command, _ []string) error {
			batch, err := ingest.ReadCard(inPath, account)
			if err != nil {
				common.LogError(err, "card statement parse failed", common.Fields{"path": inPath})
				return common.NewUserError("could not parse card statement", err)
			}
			return writeNormalized(batch, "card", outPath)
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "card statement file (.xlsx)")
	cmd.Flags().StringVar(&outPath, "out", "", "normalized CSV output path")
	cmd.Flags().StringVar(&account, "account", "", "account name to stamp on every row")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func parseRegisterCmd() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "parse-register",
		Short: "Normalize a budgeting-register CSV export",
		RunE: func(_ *cobra.Command, _ []string) error {
			batch, err := ingest.ReadRegister(inPath)
			if err != nil {
				common.LogError(err, "register parse failed", common.Fields{"path": inPath})
				return common.NewUserError("could not parse register export", err)
			}
			return writeNormalized(batch, "ynab", outPath)
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "register export CSV")
	cmd.Flags().StringVar(&outPath, "out", "", "normalized CSV output path")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func writeNormalized(batch *table.Table, source, outPath string) error {
	accountmap.Apply(batch, source, config.AccountMapPath())
	if err := batch.WriteFile(outPath); err != nil {
		return fmt.Errorf("writing %s output: %w", source, err)
	}
	common.LogInfo("wrote normalized batch", common.Fields{"source": source, "rows": batch.Len(), "path": outPath})
	cli.Successf("Wrote %d rows to %s", batch.Len(), outPath)
	return nil
}
