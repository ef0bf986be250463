package ir

import "fmt"

// Kind is the lexical kind of a token. The integer codes match the ones
// used by the upstream tokenizer and appear verbatim in csv and json output.
type Kind int

// Token kind constants.
const (
	KindPunctuation  Kind = 1
	KindTime         Kind = 2
	KindDate         Kind = 3
	KindYear         Kind = 4
	KindNumber       Kind = 5
	KindWord         Kind = 6
	KindTelno        Kind = 7
	KindPercent      Kind = 8
	KindURL          Kind = 9
	KindOrdinal      Kind = 10
	KindTimestamp    Kind = 11
	KindCurrency     Kind = 12
	KindAmount       Kind = 13
	KindPerson       Kind = 14
	KindEmail        Kind = 15
	KindEntity       Kind = 16
	KindUnknown      Kind = 17
	KindDateAbs      Kind = 18
	KindDateRel      Kind = 19
	KindTimestampAbs Kind = 20
	KindTimestampRel Kind = 21
	KindMeasurement  Kind = 22
	KindNumWLetter   Kind = 23
	KindDomain       Kind = 24
	KindHashtag      Kind = 25
	KindMolecule     Kind = 26
	KindSSN          Kind = 27
	KindUsername     Kind = 28
	KindSerialNumber Kind = 29
	KindCompany      Kind = 30

	KindSentenceSplit  Kind = 10000
	KindParagraphBegin Kind = 10001
	KindParagraphEnd   Kind = 10002
	KindSentenceBegin  Kind = 11001
	KindSentenceEnd    Kind = 11002
	KindEnd            Kind = 12001
)

// kindLabels maps each kind to its label, as used in token-level json.
var kindLabels = map[Kind]string{
	KindPunctuation:    "PUNCTUATION",
	KindTime:           "TIME",
	KindDate:           "DATE",
	KindYear:           "YEAR",
	KindNumber:         "NUMBER",
	KindWord:           "WORD",
	KindTelno:          "TELNO",
	KindPercent:        "PERCENT",
	KindURL:            "URL",
	KindOrdinal:        "ORDINAL",
	KindTimestamp:      "TIMESTAMP",
	KindCurrency:       "CURRENCY",
	KindAmount:         "AMOUNT",
	KindPerson:         "PERSON",
	KindEmail:          "EMAIL",
	KindEntity:         "ENTITY",
	KindUnknown:        "UNKNOWN",
	KindDateAbs:        "DATEABS",
	KindDateRel:        "DATEREL",
	KindTimestampAbs:   "TIMESTAMPABS",
	KindTimestampRel:   "TIMESTAMPREL",
	KindMeasurement:    "MEASUREMENT",
	KindNumWLetter:     "NUMWLETTER",
	KindDomain:         "DOMAIN",
	KindHashtag:        "HASHTAG",
	KindMolecule:       "MOLECULE",
	KindSSN:            "SSN",
	KindUsername:       "USERNAME",
	KindSerialNumber:   "SERIALNUMBER",
	KindCompany:        "COMPANY",
	KindSentenceSplit:  "SPLIT SENT",
	KindParagraphBegin: "BEGIN PARA",
	KindParagraphEnd:   "END PARA",
	KindSentenceBegin:  "BEGIN SENT",
	KindSentenceEnd:    "END SENT",
	KindEnd:            "END SENT+",
}

// AllKinds returns every defined kind in ascending code order.
func AllKinds() []Kind {
	return []Kind{
		KindPunctuation, KindTime, KindDate, KindYear, KindNumber, KindWord,
		KindTelno, KindPercent, KindURL, KindOrdinal, KindTimestamp,
		KindCurrency, KindAmount, KindPerson, KindEmail, KindEntity,
		KindUnknown, KindDateAbs, KindDateRel, KindTimestampAbs,
		KindTimestampRel, KindMeasurement, KindNumWLetter, KindDomain,
		KindHashtag, KindMolecule, KindSSN, KindUsername, KindSerialNumber,
		KindCompany, KindSentenceSplit, KindParagraphBegin, KindParagraphEnd,
		KindSentenceBegin, KindSentenceEnd, KindEnd,
	}
}

// IsValid returns true if the kind is one of the defined constants.
func (k Kind) IsValid() bool {
	_, ok := kindLabels[k]
	return ok
}

// String returns the kind label.
func (k Kind) String() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTerminator reports whether a token of this kind closes a sentence.
func (k Kind) IsTerminator() bool {
	switch k {
	case KindSentenceEnd, KindParagraphEnd, KindEnd, KindSentenceSplit:
		return true
	}
	return false
}

// IsMarker reports whether the kind is a structural marker with no surface text.
func (k Kind) IsMarker() bool {
	switch k {
	case KindSentenceBegin, KindParagraphBegin:
		return true
	}
	return k.IsTerminator()
}
