// Package emotion holds the fixed code table shared with the EEG
// classifier that sends predictions to the receiver.  Each prediction
// arrives as one unsigned byte; codes 1-4 name an emotion and every
// other value is reported with the fallback message.
package emotion

// Labels for the known codes.
const (
	Surprise = "Surprise"
	Relief   = "Relief"
	Fear     = "Fear"
	Disgust  = "Disgust"

	// Fallback is reported for any code outside 1-4, including 0.
	Fallback = "Data not received properly."
)

// Codes understood by the sender.
const (
	CodeSurprise byte = 1
	CodeRelief   byte = 2
	CodeFear     byte = 3
	CodeDisgust  byte = 4
)

// table is indexed by code; index 0 is unused.
var table = [...]string{
	CodeSurprise: Surprise,
	CodeRelief:   Relief,
	CodeFear:     Fear,
	CodeDisgust:  Disgust,
}

// Decode returns the label for code, or Fallback when the code is not
// in the table.
func Decode(code byte) string {
	if !Known(code) {
		return Fallback
	}
	return table[code]
}

// Known reports whether code has its own label.
func Known(code byte) bool {
	return code >= CodeSurprise && code <= CodeDisgust
}

// Codes returns the known codes in ascending order.
func Codes() []byte {
	return []byte{CodeSurprise, CodeRelief, CodeFear, CodeDisgust}
}
