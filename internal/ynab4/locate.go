package ynab4

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// FindBudgets lists the .ynab4 folders directly under root.
func FindBudgets(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), ".ynab4") {
			out = append(out, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// LocateBudget finds the .ynab4 folder under root whose budget name matches
// name (case-insensitive). When nothing matches, the error names the closest
// candidate by edit distance.
func LocateBudget(root, name string) (string, error) {
	dirs, err := FindBudgets(root)
	if err != nil {
		return "", err
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("no .ynab4 budgets under %s", root)
	}
	want := strings.ToUpper(strings.TrimSpace(name))
	best, bestDist := "", -1
	for _, d := range dirs {
		got := strings.ToUpper(BudgetName(d))
		if got == want {
			return d, nil
		}
		dist := levenshtein.ComputeDistance(got, want)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = BudgetName(d), dist
		}
	}
	return "", fmt.Errorf("budget %q not found under %s (did you mean %q?)", name, root, best)
}
