package domain

// Citation points a generated item back at one chunk that was shown to
// the model. Only chunk ids from the sampled coverage set are valid.
type Citation struct {
	ChunkID string `json:"chunk_id"`
	File    string `json:"file"`
	Page    string `json:"page"`
}

type MCQOptions struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

type MCQItem struct {
	Question    string     `json:"question"`
	Options     MCQOptions `json:"options"`
	Correct     string     `json:"correct"`
	Explanation string     `json:"explanation"`
	Citations   []Citation `json:"citations"`
}

type ShortAnswerItem struct {
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

const (
	StudyStatusOK           = "ok"
	StudyStatusInsufficient = "insufficient"
)

// MCQResult carries exactly five validated MCQs on success. The
// insufficient shape is deliberately identical for an empty subject and
// an exhausted retry budget.
type MCQResult struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Items   []MCQItem `json:"items,omitempty"`
}

// ShortAnswerResult carries exactly three validated short-answer items
// on success.
type ShortAnswerResult struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Items   []ShortAnswerItem `json:"items,omitempty"`
}
