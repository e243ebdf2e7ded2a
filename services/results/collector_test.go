package results

import (
	"fmt"
	"strings"
	"testing"
	"udemy-coupons/services/scraper"

	"github.com/stretchr/testify/require"
)

var _ scraper.Observer = (*Collector)(nil)

func TestCollectorKeepsUniqueCoupons(t *testing.T) {
	var out strings.Builder
	c := NewCollector(&out)

	c.OnCouponDiscovered("https://www.udemy.com/course/a/?couponCode=A")
	c.OnCouponDiscovered("https://www.udemy.com/course/b/?couponCode=B")
	c.OnCouponDiscovered("https://www.udemy.com/course/a/?couponCode=A")

	require.Equal(t, 2, c.Len())
	require.Equal(t, []string{
		"https://www.udemy.com/course/a/?couponCode=A",
		"https://www.udemy.com/course/b/?couponCode=B",
	}, c.GetAll())
	require.Equal(t, 2, strings.Count(out.String(), "+ https://"))

	require.False(t, c.Add("https://www.udemy.com/course/b/?couponCode=B"))
	require.Equal(t, c.GetAll(), c.Export().Coupons)

	c.Clear()
	require.Zero(t, c.Len())
	require.True(t, c.Add("https://www.udemy.com/course/a/?couponCode=A"))
}

func TestCollectorStatusWindow(t *testing.T) {
	c := &Collector{}
	for i := 1; i <= 7; i++ {
		c.OnStatus(fmt.Sprintf("message %d", i), scraper.SeverityInfo)
	}
	c.OnStatus("failure", scraper.SeverityError)

	statuses := c.Statuses()
	require.Len(t, statuses, 5)
	require.Equal(t, "message 4", statuses[0].Message)
	require.Equal(t, Status{Message: "failure", Severity: scraper.SeverityError}, statuses[4])
}

func TestCollectorPrints(t *testing.T) {
	var out strings.Builder
	c := NewCollector(&out)
	c.OnStatus("Scraping listing page 1...", scraper.SeverityInfo)
	c.OnProgress(0.25, "Scanning page 1 of 2")
	c.OnStatus("Skipped course 1: request timed out", scraper.SeverityError)

	require.Equal(t, "[info] Scraping listing page 1...\n"+
		" 25% Scanning page 1 of 2\n"+
		"[error] Skipped course 1: request timed out\n", out.String())
}
