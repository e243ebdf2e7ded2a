package scraper

type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	}
	return "info"
}

// Observer receives the lifecycle events of a run. The controller invokes
// it synchronously from the goroutine running Start.
type Observer interface {
	OnCouponDiscovered(url string)
	OnStatus(message string, severity Severity)
	OnProgress(fraction float64, label string)
}

// Observers fans every event out to each observer in order.
type Observers []Observer

func (o Observers) OnCouponDiscovered(url string) {
	for _, observer := range o {
		observer.OnCouponDiscovered(url)
	}
}

func (o Observers) OnStatus(message string, severity Severity) {
	for _, observer := range o {
		observer.OnStatus(message, severity)
	}
}

func (o Observers) OnProgress(fraction float64, label string) {
	for _, observer := range o {
		observer.OnProgress(fraction, label)
	}
}

type NopObserver struct{}

func (NopObserver) OnCouponDiscovered(string)  {}
func (NopObserver) OnStatus(string, Severity)  {}
func (NopObserver) OnProgress(float64, string) {}
