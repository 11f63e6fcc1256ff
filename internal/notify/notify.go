package notify

// Notice is one user-visible popup. Controllers attach exactly one
// notice per failure path and one per successful mutation; presentation
// is the client's concern.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func Success(text string) Notice {
	return Notice{Level: LevelSuccess, Text: text}
}

func Warning(text string) Notice {
	return Notice{Level: LevelWarning, Text: text}
}

func Error(text string) Notice {
	return Notice{Level: LevelError, Text: text}
}

// ForFailure builds the popup for a failed operation: the server's own
// message when it sent one, otherwise the operation's default message.
func ForFailure(serverMessage, fallback string) Notice {
	if serverMessage != "" {
		return Error(serverMessage)
	}
	return Error(fallback)
}
