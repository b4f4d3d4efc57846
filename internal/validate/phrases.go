package validate

import "strings"

// Closed phrase sets. Membership is exact over the normalized (trimmed,
// lowercased) text, not substring containment.

var greetings = map[string]struct{}{
	"hola": {}, "buenas": {}, "buenos días": {}, "buen día": {},
	"buenas tardes": {}, "buenas noches": {}, "saludos": {},
}

var affirmations = map[string]struct{}{
	"si": {}, "sí": {}, "claro": {}, "ok": {}, "okay": {}, "vale": {},
	"yes": {}, "de acuerdo": {}, "confirmo": {}, "acepto": {},
}

var negations = map[string]struct{}{
	"no": {}, "nop": {}, "no gracias": {}, "cancelar": {}, "cancelado": {},
}

var resetWords = map[string]struct{}{
	"menu": {}, "menú": {}, "inicio": {}, "cancelar": {}, "salir": {}, "0": {},
}

// Button choice ids carried by yes/no button replies. Checked before phrase
// membership so a tapped button is never misread.
const (
	ChoiceYes = "si"
	ChoiceNo  = "no"
)

// Answer is the outcome of reading a yes/no reply.
type Answer int

const (
	AnswerUnknown Answer = iota
	AnswerYes
	AnswerNo
)

// Normalize lowercases and trims the text the way every phrase set expects.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsGreeting reports exact membership in the greeting set.
func IsGreeting(text string) bool {
	_, ok := greetings[Normalize(text)]
	return ok
}

// IsResetKeyword reports whether the text is a global escape word that clears
// any flow back to the menu.
func IsResetKeyword(text string) bool {
	_, ok := resetWords[Normalize(text)]
	return ok
}

// ReadAnswer resolves a yes/no reply. An explicit button choice id wins over
// phrase membership of the text.
func ReadAnswer(choiceID, text string) Answer {
	switch choiceID {
	case ChoiceYes:
		return AnswerYes
	case ChoiceNo:
		return AnswerNo
	}
	t := Normalize(text)
	if _, ok := affirmations[t]; ok {
		return AnswerYes
	}
	if _, ok := negations[t]; ok {
		return AnswerNo
	}
	return AnswerUnknown
}
