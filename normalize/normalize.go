// Package normalize canonicalizes transcript text before scoring so that
// case, punctuation and number spelling differences do not count as word
// errors. Scoring itself assumes already-normalized input and never calls
// into this package.
package normalize

import (
	"strings"
	"unicode"

	"github.com/maastricht-university/stt-benchmark/transcript"
)

// Normalizer canonicalizes text. Implementations must be pure: the same
// input always yields the same output.
type Normalizer interface {
	NormalizeText(text string) string
}

// English applies a fixed English rule set: lowercasing, contraction
// expansion, punctuation stripping, spelled-number canonicalization and
// whitespace collapsing.
type English struct{}

// NewEnglish returns the English normalizer.
func NewEnglish() *English { return &English{} }

var contractions = map[string]string{
	"i'm": "i am", "i've": "i have", "i'll": "i will", "i'd": "i would",
	"you're": "you are", "you've": "you have", "you'll": "you will", "you'd": "you would",
	"he's": "he is", "she's": "she is", "it's": "it is", "that's": "that is",
	"we're": "we are", "we've": "we have", "we'll": "we will", "we'd": "we would",
	"they're": "they are", "they've": "they have", "they'll": "they will",
	"there's": "there is", "here's": "here is", "what's": "what is", "who's": "who is",
	"can't": "cannot", "won't": "will not", "don't": "do not", "doesn't": "does not",
	"didn't": "did not", "isn't": "is not", "aren't": "are not", "wasn't": "was not",
	"weren't": "were not", "haven't": "have not", "hasn't": "has not", "hadn't": "had not",
	"shouldn't": "should not", "wouldn't": "would not", "couldn't": "could not",
	"let's": "let us", "gonna": "going to", "wanna": "want to", "gotta": "got to",
}

var numberWords = map[string]string{
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"ten": "10", "eleven": "11", "twelve": "12", "thirteen": "13",
	"fourteen": "14", "fifteen": "15", "sixteen": "16", "seventeen": "17",
	"eighteen": "18", "nineteen": "19", "twenty": "20", "thirty": "30",
	"forty": "40", "fifty": "50", "sixty": "60", "seventy": "70",
	"eighty": "80", "ninety": "90", "hundred": "100", "thousand": "1000",
}

// NormalizeText lowercases, expands contractions, strips punctuation,
// maps spelled numbers to digits and collapses whitespace.
func (n *English) NormalizeText(text string) string {
	text = strings.ToLower(text)

	var out []string
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,!?;:\"()[]{}—–-")
		if word == "" {
			continue
		}
		if exp, ok := contractions[word]; ok {
			out = append(out, strings.Fields(exp)...)
			continue
		}
		word = stripPunct(word)
		if word == "" {
			continue
		}
		if digits, ok := numberWords[word]; ok {
			out = append(out, digits)
			continue
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

// stripPunct drops everything except letters and digits, including
// apostrophes of any contraction not covered by the expansion table.
func stripPunct(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeTranscript returns a new transcript with every utterance's
// text normalized; speaker labels and timestamps are untouched.
func NormalizeTranscript(n Normalizer, t transcript.Transcript) transcript.Transcript {
	out := make(transcript.Transcript, 0, len(t))
	for _, u := range t {
		u.Text = n.NormalizeText(u.Text)
		out = append(out, u)
	}
	return out
}
