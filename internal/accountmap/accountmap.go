// Package accountmap remaps source-system account names onto the
// budgeting register's account names via a small CSV mapping table.
// Mapping problems are warnings, never failures: an unmapped account
// passes through unchanged so the pipeline keeps moving.
package accountmap

import (
	"os"
	"sort"
	"strings"

	"github.com/shekelflow/shekelflow/internal/common"
	"github.com/shekelflow/shekelflow/internal/table"
)

// Apply rewrites the account_name column of a batch in place using the
// mapping file. Map rows may carry a source column restricting them to
// one origin system; blank source rows apply to every origin.
func Apply(t *table.Table, source, mapPath string) {
	if !t.HasColumn("account_name") {
		t.Columns = append(t.Columns, "account_name")
	}

	accounts := distinctAccounts(t)
	if len(accounts) == 0 {
		return
	}

	if _, err := os.Stat(mapPath); err != nil {
		warnUnmatched(source, "account map file not found", mapPath, accounts)
		return
	}

	mapTable, err := table.ReadFile(mapPath)
	if err != nil {
		warnUnmatched(source, "account map file unreadable", mapPath, accounts)
		return
	}
	if !mapTable.HasColumn("source_account") || !mapTable.HasColumn("ynab_account_name") {
		warnUnmatched(source, "account map file missing required columns", mapPath, accounts)
		return
	}

	mapping := buildMapping(mapTable, source)
	if len(mapping) == 0 {
		warnUnmatched(source, "account map file has no usable rows", mapPath, accounts)
		return
	}

	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, "account_name")
		if mapped, ok := mapping[name]; ok {
			t.Set(i, "account_name", mapped)
		} else {
			t.Set(i, "account_name", name)
		}
	}

	warnUnmatched(source, "account map does not include all accounts", mapPath, unmappedAccounts(accounts, mapping))
}

func buildMapping(mapTable *table.Table, source string) map[string]string {
	sourceKey := strings.ToLower(strings.TrimSpace(source))
	mapping := make(map[string]string)
	for i := 0; i < mapTable.Len(); i++ {
		from := mapTable.Get(i, "source_account")
		to := mapTable.Get(i, "ynab_account_name")
		if from == "" || to == "" {
			continue
		}
		rowSource := strings.ToLower(mapTable.Get(i, "source"))
		if rowSource != "" && rowSource != sourceKey {
			continue
		}
		mapping[from] = to
	}
	return mapping
}

func distinctAccounts(t *table.Table) []string {
	seen := make(map[string]bool)
	for i := 0; i < t.Len(); i++ {
		if name := t.Get(i, "account_name"); name != "" {
			seen[name] = true
		}
	}
	accounts := make([]string, 0, len(seen))
	for name := range seen {
		accounts = append(accounts, name)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return strings.ToLower(accounts[i]) < strings.ToLower(accounts[j])
	})
	return accounts
}

func unmappedAccounts(accounts []string, mapping map[string]string) []string {
	var out []string
	for _, name := range accounts {
		if _, ok := mapping[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func warnUnmatched(source, message, mapPath string, accounts []string) {
	if len(accounts) == 0 {
		return
	}
	common.LogWarn(message, common.Fields{
		"source":             source,
		"map_path":           mapPath,
		"unmatched_accounts": strings.Join(accounts, ", "),
	})
}
