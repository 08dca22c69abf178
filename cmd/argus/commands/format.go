package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// Common formatting utilities shared by the commands so every
// subcommand prints the same way.

// printHeader prints a section banner.
func printHeader(title string) {
	fmt.Println()
	fmt.Println(strings.Repeat("═", 59))
	fmt.Printf("  %s\n", title)
	fmt.Println(strings.Repeat("─", 59))
}

// printSeparator prints a visual separator.
func printSeparator() {
	fmt.Println(strings.Repeat("─", 59))
}

// printTableHeader prints a table header with a rule under it.
func printTableHeader(columns []string, widths []int) {
	for i, col := range columns {
		fmt.Printf("%-*s", widths[i], col)
		if i < len(columns)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// printTableRow prints one table row.
func printTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// printKeyValue prints an aligned key-value pair.
func printKeyValue(key, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// printSuccess prints a success message.
func printSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// printWarning prints a warning message.
func printWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// formatPct renders a fraction as a signed percentage.
func formatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v*100)
}

// writeCSV writes a slice of tagged structs to path as CSV.
func writeCSV(path string, records interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(records, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
