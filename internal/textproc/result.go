package textproc

const (
	SentinelTranscript = "Transcript not available"
	SentinelSummary    = "Summary not available"
)

// Result is the outcome of one transformation. A degraded result carries a
// sentinel in Text and the cause in Reason.
type Result struct {
	Text     string
	Degraded bool
	Reason   string
}

func OK(text string) Result {
	return Result{Text: text}
}

func Degraded(sentinel, reason string) Result {
	return Result{Text: sentinel, Degraded: true, Reason: reason}
}
