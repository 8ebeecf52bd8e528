package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"recruitment-portal/internal/common/validation"
)

type DomainAnswersKind string

const (
	// DomainAnswersStructured is the current form: one answer per catalog question.
	DomainAnswersStructured DomainAnswersKind = "structured"
	// DomainAnswersFlattened is the older single text blob.
	DomainAnswersFlattened DomainAnswersKind = "flattened"
	// DomainAnswersFallback carries the domainAnswersText sibling field when
	// domainAnswers itself is neither an array nor a string.
	DomainAnswersFallback DomainAnswersKind = "fallback"
)

type QuestionAnswer struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

// DomainAnswers is stored in the same shape in JSON and BSON: an array of
// pairs for structured answers, a plain string otherwise.
type DomainAnswers struct {
	Kind  DomainAnswersKind
	Pairs []QuestionAnswer
	Text  string
}

func StructuredAnswers(pairs []QuestionAnswer) DomainAnswers {
	return DomainAnswers{Kind: DomainAnswersStructured, Pairs: pairs}
}

func FlattenedAnswers(text string) DomainAnswers {
	return DomainAnswers{Kind: DomainAnswersFlattened, Text: text}
}

func FallbackAnswers(text string) DomainAnswers {
	return DomainAnswers{Kind: DomainAnswersFallback, Text: text}
}

// WordCount is the canonical answer length used for the minimum-words rule.
func (d DomainAnswers) WordCount() int {
	if d.Kind == DomainAnswersStructured {
		total := 0
		for _, qa := range d.Pairs {
			total += validation.WordCount(qa.Answer)
		}
		return total
	}
	return validation.WordCount(d.Text)
}

// MarshalJSON writes structured answers as an array of pairs and the other
// kinds as a plain string.
func (d DomainAnswers) MarshalJSON() ([]byte, error) {
	if d.Kind == DomainAnswersStructured {
		pairs := d.Pairs
		if pairs == nil {
			pairs = []QuestionAnswer{}
		}
		return json.Marshal(pairs)
	}
	return json.Marshal(d.Text)
}

func (d *DomainAnswers) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = DomainAnswers{}
		return nil
	}
	switch data[0] {
	case '[':
		var pairs []QuestionAnswer
		if err := json.Unmarshal(data, &pairs); err != nil {
			return fmt.Errorf("domainAnswers: %w", err)
		}
		*d = StructuredAnswers(pairs)
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("domainAnswers: %w", err)
		}
		*d = FlattenedAnswers(text)
	default:
		return fmt.Errorf("domainAnswers: unsupported JSON value %s", data)
	}
	return nil
}

func (d DomainAnswers) MarshalBSONValue() (byte, []byte, error) {
	var (
		typ  bson.Type
		data []byte
		err  error
	)
	if d.Kind == DomainAnswersStructured {
		pairs := d.Pairs
		if pairs == nil {
			pairs = []QuestionAnswer{}
		}
		typ, data, err = bson.MarshalValue(pairs)
	} else {
		typ, data, err = bson.MarshalValue(d.Text)
	}
	return byte(typ), data, err
}

// UnmarshalBSONValue reads the array and string shapes the admin dashboard
// has always stored, plus the {kind, pairs, text} documents written by
// earlier builds of this service.
func (d *DomainAnswers) UnmarshalBSONValue(typ byte, data []byte) error {
	switch bson.Type(typ) {
	case bson.TypeArray:
		var pairs []QuestionAnswer
		if err := bson.UnmarshalValue(bson.TypeArray, data, &pairs); err != nil {
			return fmt.Errorf("domainAnswers: %w", err)
		}
		*d = StructuredAnswers(pairs)
	case bson.TypeString:
		var text string
		if err := bson.UnmarshalValue(bson.TypeString, data, &text); err != nil {
			return fmt.Errorf("domainAnswers: %w", err)
		}
		*d = FlattenedAnswers(text)
	case bson.TypeEmbeddedDocument:
		var legacy struct {
			Kind  DomainAnswersKind `bson:"kind"`
			Pairs []QuestionAnswer  `bson:"pairs"`
			Text  string            `bson:"text"`
		}
		if err := bson.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("domainAnswers: %w", err)
		}
		*d = DomainAnswers{Kind: legacy.Kind, Pairs: legacy.Pairs, Text: legacy.Text}
	case bson.TypeNull, bson.TypeUndefined:
		*d = DomainAnswers{}
	default:
		return fmt.Errorf("domainAnswers: unsupported BSON type %s", bson.Type(typ))
	}
	return nil
}
