package yterrors

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrNoTranscript     = Error("no transcript found")
	ErrVideoNotFound    = Error("video not found")
	ErrInvalidCount     = Error("video count must be a non-negative integer")
	ErrNoInitialData    = Error("initial data not found in page")
	ErrCommentsDisabled = Error("comments are disabled for this video")
)
