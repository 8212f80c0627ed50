package focus

import "math/rand/v2"

var completionMessages = []string{
	"Frog Completed!",
	"Task Completed!",
	"Completed!",
	"Complete!",
	"Yes!",
	"Frog Conquered!",
	"Mission Accomplished!",
}

// CompletionMessage returns a random line to celebrate a finished frog.
func CompletionMessage() string {
	return completionMessages[rand.IntN(len(completionMessages))]
}
