package domain

type OutcomeKind string

const (
	OutcomeIdle    OutcomeKind = "idle"
	OutcomeLoading OutcomeKind = "loading"
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is what the UI shows about the last submission. Result is set only
// for OutcomeSuccess and Message only for OutcomeFailure.
type Outcome struct {
	Kind    OutcomeKind
	Result  *AnalysisResult
	Message string
}

func Idle() Outcome { return Outcome{Kind: OutcomeIdle} }

func Loading() Outcome { return Outcome{Kind: OutcomeLoading} }

func Success(result *AnalysisResult) Outcome {
	return Outcome{Kind: OutcomeSuccess, Result: result}
}

func Failure(message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: message}
}

// Settled reports whether the outcome has left the loading state.
func (o Outcome) Settled() bool {
	return o.Kind == OutcomeSuccess || o.Kind == OutcomeFailure
}

// SelectedFile is the photo chosen by the user. Data is treated as immutable
// once selected.
type SelectedFile struct {
	Name        string
	ContentType string
	Data        []byte
}
