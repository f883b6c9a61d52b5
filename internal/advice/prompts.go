package advice

import (
	"encoding/json"
	"fmt"
)

const (
	AdvicePlaceholder = "⚠️ No advice generated."
	FactPlaceholder   = "⚠️ No fact generated."
)

const adviceInstruction = "You are a friendly, non-diagnostic health assistant. " +
	"Based on the following patient details, suggest 3-5 practical, evidence-informed steps " +
	"to reduce stroke risk and list any red flags requiring immediate medical attention. " +
	"Keep it short, under 50 words, summarized and encouraging."

const factPrompt = "Tell me a short, interesting medical or health fact or statistic about stroke or brain health. " +
	"One line only, and make it different each time I ask."

// AdvicePrompt appends the caller's inputs as JSON (object keys sorted) to the fixed instruction.
func AdvicePrompt(inputs any) string {
	if inputs == nil {
		return adviceInstruction + " {}"
	}
	b, err := json.Marshal(inputs)
	if err != nil {
		return adviceInstruction + " " + fmt.Sprint(inputs)
	}
	return adviceInstruction + " " + string(b)
}

func FactPrompt() string {
	return factPrompt
}
