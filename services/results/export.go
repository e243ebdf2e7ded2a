package results

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"udemy-coupons/lib/timezone"

	"github.com/atotto/clipboard"
)

var ErrNoCoupons = errors.New("no coupons to export")

const (
	bannerRule        = "================================================================"
	bannerTitle       = "UDEMY COUPONS SCRAPER"
	bannerDescription = "Automatically discover and collect free Udemy course coupons."

	generatedLayout = "02/01/2006, 03:04:05 pm"
	fileNameLayout  = "02-01-2006_15-04"
)

// writeClipboard is swapped out in tests, there is no clipboard on CI.
var writeClipboard = clipboard.WriteAll

// Export is a snapshot of the coupon set, every delivery writes the same
// Render output.
type Export struct {
	Coupons     []string
	GeneratedAt time.Time
}

func NewExport(coupons []string) Export {
	return Export{
		Coupons:     append([]string(nil), coupons...),
		GeneratedAt: timezone.Now(),
	}
}

func (e Export) Render() string {
	var b strings.Builder
	b.WriteString(bannerRule + "\n")
	b.WriteString(bannerTitle + "\n")
	b.WriteString(bannerRule + "\n")
	b.WriteString(bannerDescription + "\n")
	fmt.Fprintf(&b, "Generated On: %s\n", e.GeneratedAt.Format(generatedLayout))
	fmt.Fprintf(&b, "Total Coupons Links: %d\n", len(e.Coupons))
	b.WriteString(bannerRule + "\n")
	b.WriteString("\n")
	b.WriteString(strings.Join(e.Coupons, "\n"))
	return b.String()
}

func (e Export) FileName() string {
	return fmt.Sprintf("udemy-coupons-%s.txt", e.GeneratedAt.Format(fileNameLayout))
}

func (e Export) CopyToClipboard() error {
	if len(e.Coupons) == 0 {
		return ErrNoCoupons
	}
	return writeClipboard(e.Render())
}

// WriteFile writes the export to FileName() under dir and returns the
// resulting path.
func (e Export) WriteFile(dir string) (string, error) {
	if len(e.Coupons) == 0 {
		return "", ErrNoCoupons
	}
	return writeExportFile(dir, e.FileName(), e.Render())
}

func writeExportFile(dir, name, content string) (string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	err = os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}
