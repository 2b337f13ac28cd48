package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shekelflow/shekelflow/internal/cli"
	"github.com/shekelflow/shekelflow/internal/config"
	"github.com/shekelflow/shekelflow/internal/rules"
	"github.com/shekelflow/shekelflow/internal/table"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate the payee map",
	}
	cmd.AddCommand(rulesValidateCmd())
	cmd.AddCommand(rulesListCmd())
	return cmd
}

func rulesValidateCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the payee map table",
		RunE: func(_ *cobra.Command, _ []string) error {
			if rulesPath == "" {
				rulesPath = config.PayeeMapPath()
			}
			ruleTable, err := table.ReadFile(rulesPath)
			if err != nil {
				return err
			}

			ruleSet, err := rules.ParseRules(ruleTable)
			if err != nil {
				var verr *rules.ValidationError
				if errors.As(err, &verr) {
					cli.Warnf("Validation failed: %v", verr)
				}
				return err
			}

			active := 0
			for _, rule := range ruleSet {
				if rule.IsActive {
					active++
				}
			}
			cli.Successf("Payee map OK: %d rules (%d active)", len(ruleSet), active)
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "payee map CSV (default from config)")
	return cmd
}

func rulesListCmd() *cobra.Command {
	var rulesPath string
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payee map rules with their computed specificity",
		RunE: func(_ *cobra.Command, _ []string) error {
			if rulesPath == "" {
				rulesPath = config.PayeeMapPath()
			}
			ruleTable, err := table.ReadFile(rulesPath)
			if err != nil {
				return err
			}
			ruleSet, err := rules.ParseRules(ruleTable)
			if err != nil {
				return err
			}

			for _, rule := range ruleSet {
				if activeOnly && !rule.IsActive {
					continue
				}
				state := "active"
				if !rule.IsActive {
					state = "inactive"
				}
				fmt.Printf("%-20s priority=%-4d specificity=%d %-8s payee=%q category=%q\n",
					rule.ID, rule.Priority, rule.Specificity, state, rule.PayeeCanonical, rule.CategoryTarget)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "payee map CSV (default from config)")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only list active rules")
	return cmd
}
