package domain

import "fmt"

// KnowledgeRecord is a paraphrase cluster: every question resolves to the
// same answer.
type KnowledgeRecord struct {
	// Questions are the phrasings that should all match this record.
	Questions []string `json:"questions"`

	// Answer is returned verbatim when any question matches.
	Answer string `json:"answer"`
}

// KnowledgeBase is the ordered set of records for one subject.
// It is loaded as a whole and replaced wholesale on subject switch;
// callers must not mutate Records after load.
type KnowledgeBase struct {
	// Subject is the subject the records were loaded for.
	Subject Subject `json:"subject"`

	// Records are the knowledge records in resource order.
	Records []KnowledgeRecord `json:"records"`
}

// EmptyKnowledgeBase returns a base with zero records for the subject.
func EmptyKnowledgeBase(subject Subject) KnowledgeBase {
	return KnowledgeBase{Subject: subject, Records: []KnowledgeRecord{}}
}

// Len returns the number of records.
func (kb KnowledgeBase) Len() int {
	return len(kb.Records)
}

// IsEmpty returns true if the base holds no records.
func (kb KnowledgeBase) IsEmpty() bool {
	return len(kb.Records) == 0
}

// QuestionCount returns the total number of question phrasings.
func (kb KnowledgeBase) QuestionCount() int {
	n := 0
	for i := range kb.Records {
		n += len(kb.Records[i].Questions)
	}
	return n
}

// ValidateRecords checks that every record carries at least one question.
// Violations wrap ErrKnowledgeBaseCorrupt.
func ValidateRecords(records []KnowledgeRecord) error {
	for i := range records {
		if len(records[i].Questions) == 0 {
			return fmt.Errorf("record %d has no questions: %w", i, ErrKnowledgeBaseCorrupt)
		}
	}
	return nil
}
