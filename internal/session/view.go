package session

import "fmt"

// View is the render-ready projection of a session State. The rendering layer
// (CLI progress lines, JSON output) consumes views and never touches the
// controller's state directly.
type View struct {
	Status     Status
	StatusLine string

	Script    string
	Narration string
	AudioURL  string
	OutputURL string
	Images    []ImageComponent

	Failure string

	// ControlsEnabled reports whether a new session may be started. A failed
	// or cancelled session never locks the interface.
	ControlsEnabled bool
	// CancelEnabled reports whether cancellation is currently meaningful.
	CancelEnabled bool
}

// Project maps a session state to its view. Pure: equal states yield equal
// views.
func Project(st State) View {
	return View{
		Status:          st.Status,
		StatusLine:      statusLine(st),
		Script:          st.Script,
		Narration:       st.Narration,
		AudioURL:        st.TTSAudioURL,
		OutputURL:       st.OutputFile,
		Images:          st.Images,
		Failure:         st.Failure,
		ControlsEnabled: st.Status == StatusIdle || st.Status.Terminal(),
		CancelEnabled:   st.Status == StatusConnecting || st.Status == StatusRunning,
	}
}

func statusLine(st State) string {
	switch st.Status {
	case StatusIdle:
		return "Ready"
	case StatusConnecting:
		return "Connecting to generation service"
	case StatusRunning:
		if st.Stage != "" && st.Message != "" {
			return fmt.Sprintf("%s: %s", st.Stage, st.Message)
		}
		if st.Message != "" {
			return st.Message
		}
		if st.Stage != "" {
			return st.Stage
		}
		return "Generating"
	case StatusCompleted:
		if st.Message != "" {
			return st.Message
		}
		return "Generation complete"
	case StatusErrored:
		if st.Failure != "" {
			return st.Failure
		}
		return "Generation failed"
	case StatusCancelled:
		return "Generation cancelled"
	}
	return string(st.Status)
}
