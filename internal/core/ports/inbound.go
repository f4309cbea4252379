package ports

import (
	"context"
	"io"

	"github.com/askmynotes/backend/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload
// orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, userID, subjectID, fileName string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// processing (extract, chunk, embed, persist).
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// QuestionAnswerer answers a question with verbatim snippets from the
// user's own notes, or a not-found result.
type QuestionAnswerer interface {
	Answer(ctx context.Context, userID, subjectID, question string) (*domain.QAResult, error)
}

// StudyGenerator produces citation-validated practice questions.
type StudyGenerator interface {
	GenerateMCQs(ctx context.Context, userID, subjectID string) (*domain.MCQResult, error)
	GenerateShortAnswers(ctx context.Context, userID, subjectID string) (*domain.ShortAnswerResult, error)
}

// FollowUpAssistant answers an open-ended follow-up question grounded
// in retrieved notes plus prior conversation turns.
type FollowUpAssistant interface {
	FollowUp(ctx context.Context, userID, subjectID, question string, history []domain.ChatTurn) (*domain.FollowUpAnswer, error)
}
