package scraper

import (
	"fmt"
	"time"
)

type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusStopped:
		return "stopped"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Phase int

const (
	PhaseNone Phase = iota
	PhaseListing
	PhaseResolution
)

// RunState describes one run. The controller owns the live value, callers
// only ever see copies.
type RunState struct {
	RunID  string
	Status Status
	// Completed or Stopped once a run has finished, the controller itself
	// is back to Idle by then
	Outcome Status
	Phase   Phase

	CancelRequested bool

	PageStart int
	PageEnd   int
	// 1-based index of the last listing page handled
	CurrentPageIndex int

	TotalCourseCount     int
	ProcessedCourseCount int

	// unique coupon urls in discovery order
	Coupons []string

	StartedAt  time.Time
	FinishedAt time.Time
}

func (s RunState) IsRunning() bool {
	return s.Status == StatusRunning
}

func (s RunState) TotalPages() int {
	if s.PageEnd < s.PageStart {
		return 0
	}
	return s.PageEnd - s.PageStart + 1
}

// Progress weighs the listing phase and the resolution phase equally.
func (s RunState) Progress() float64 {
	var progress float64
	if total := s.TotalPages(); total > 0 {
		progress += float64(s.CurrentPageIndex) / float64(total) * 0.5
	}
	if s.TotalCourseCount > 0 {
		progress += float64(s.ProcessedCourseCount) / float64(s.TotalCourseCount) * 0.5
	}
	return min(1, progress)
}

func (s RunState) ProgressLabel() string {
	if s.Phase == PhaseResolution && s.TotalCourseCount > 0 {
		return fmt.Sprintf("Processing course %d of %d", s.ProcessedCourseCount, s.TotalCourseCount)
	}
	return fmt.Sprintf("Scanning page %d of %d", s.CurrentPageIndex, s.TotalPages())
}

func (s RunState) clone() RunState {
	out := s
	out.Coupons = append([]string(nil), s.Coupons...)
	return out
}

// couponSet keeps insertion order, string equality is the key.
type couponSet struct {
	order []string
	seen  map[string]struct{}
}

func newCouponSet() *couponSet {
	return &couponSet{seen: map[string]struct{}{}}
}

// Add reports whether url was not already present.
func (s *couponSet) Add(url string) bool {
	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

func (s *couponSet) Len() int {
	return len(s.order)
}
