package analyzer

// Observer is notified of every log an Analyzer finishes, successful or not.
// Batch analysis calls ObserveRun from several goroutines at once.
type Observer interface {
	ObserveRun(r *RunResult)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r *RunResult)

// ObserveRun calls f(r).
func (f ObserverFunc) ObserveRun(r *RunResult) {
	f(r)
}
