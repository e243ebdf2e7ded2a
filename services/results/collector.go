package results

import (
	"fmt"
	"io"
	"sync"
	"udemy-coupons/services/scraper"
)

const statusWindow = 5

type Status struct {
	Message  string
	Severity scraper.Severity
}

// Collector is the scraper.Observer that keeps the coupons of a run in
// discovery order along with the most recent status messages.
type Collector struct {
	// Printer receives a line per event when set.
	Printer io.Writer

	lock     sync.Mutex
	coupons  []string
	seen     map[string]struct{}
	statuses []Status
}

func NewCollector(printer io.Writer) *Collector {
	return &Collector{
		Printer: printer,
		seen:    map[string]struct{}{},
	}
}

// Add inserts url unless it is already present and reports whether it was
// inserted.
func (c *Collector) Add(url string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.seen == nil {
		c.seen = map[string]struct{}{}
	}
	if _, exists := c.seen[url]; exists {
		return false
	}
	c.seen[url] = struct{}{}
	c.coupons = append(c.coupons, url)
	return true
}

func (c *Collector) GetAll() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]string(nil), c.coupons...)
}

func (c *Collector) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.coupons)
}

func (c *Collector) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.coupons = nil
	c.seen = map[string]struct{}{}
	c.statuses = nil
}

// Statuses returns up to the last 5 status messages, oldest first.
func (c *Collector) Statuses() []Status {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]Status(nil), c.statuses...)
}

// Export snapshots the collected coupons.
func (c *Collector) Export() Export {
	return NewExport(c.GetAll())
}

func (c *Collector) printf(format string, args ...any) {
	if c.Printer == nil {
		return
	}
	fmt.Fprintf(c.Printer, format, args...)
}

func (c *Collector) OnCouponDiscovered(url string) {
	if c.Add(url) {
		c.printf("+ %s\n", url)
	}
}

func (c *Collector) OnStatus(message string, severity scraper.Severity) {
	c.lock.Lock()
	c.statuses = append(c.statuses, Status{Message: message, Severity: severity})
	if len(c.statuses) > statusWindow {
		c.statuses = c.statuses[len(c.statuses)-statusWindow:]
	}
	c.lock.Unlock()

	c.printf("[%s] %s\n", severity, message)
}

func (c *Collector) OnProgress(fraction float64, label string) {
	c.printf("%3.0f%% %s\n", fraction*100, label)
}
