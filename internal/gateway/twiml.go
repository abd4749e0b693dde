package gateway

import (
	"fmt"

	"github.com/twilio/twilio-go/twiml"
)

// TwiML wraps each text in a <Message> inside one messaging <Response>.
func TwiML(texts ...string) (string, error) {
	verbs := make([]twiml.Element, 0, len(texts))
	for _, t := range texts {
		verbs = append(verbs, &twiml.MessagingMessage{Body: t})
	}
	out, err := twiml.Messages(verbs)
	if err != nil {
		return "", fmt.Errorf("render twiml: %w", err)
	}
	return out, nil
}
