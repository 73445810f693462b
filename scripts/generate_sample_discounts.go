package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleDiscounts creates a sample discount-code file for local
// development. Each line is CODE,PERCENT; lines starting with # are
// comments.
func main() {
	dataDir := "data/discounts"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	codes := []string{
		"# sample discount codes for local development",
		"WELCOME10,10",
		"SUMMER2026,15",
		"FREESHIP5,5",
		"VIP25,25",
		"FLASH50,50",
	}

	filePath := filepath.Join(dataDir, "codes.csv.gz")
	if err := createDiscountFile(filePath, codes); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d codes\n", filePath, len(codes)-1)
	fmt.Println("\nSample codes:")
	fmt.Println("  - WELCOME10  (10% off)")
	fmt.Println("  - SUMMER2026 (15% off)")
	fmt.Println("  - FREESHIP5  (5% off)")
	fmt.Println("  - VIP25      (25% off)")
	fmt.Println("  - FLASH50    (50% off)")
}

func createDiscountFile(filePath string, lines []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(gzWriter, line); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}

	return nil
}
