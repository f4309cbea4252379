package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/askmynotes/backend/internal/core/domain"
	"github.com/askmynotes/backend/internal/core/ports"
)

// FollowUpUseCase answers open-ended follow-up questions. It reuses the
// QA retrieval path keyed by the live question, but trusts the system
// prompt's grounding instruction instead of validating the output:
// free-form prose is not mechanically verifiable the way structured
// study items are.
type FollowUpUseCase struct {
	subjects  ports.SubjectRepository
	chunks    ports.ChunkStore
	embedder  ports.Embedder
	generator ports.TextGenerator
	topK      int
}

func NewFollowUpUseCase(
	subjects ports.SubjectRepository,
	chunks ports.ChunkStore,
	embedder ports.Embedder,
	generator ports.TextGenerator,
	topK int,
) *FollowUpUseCase {
	if topK <= 0 {
		topK = 15
	}
	return &FollowUpUseCase{
		subjects:  subjects,
		chunks:    chunks,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
	}
}

func (uc *FollowUpUseCase) FollowUp(ctx context.Context, userID, subjectID, question string, history []domain.ChatTurn) (*domain.FollowUpAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "assistant followup", fmt.Errorf("question is required"))
	}

	subject, err := uc.subjects.GetByID(ctx, userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("verify subject ownership: %w", err)
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := uc.chunks.NearestNeighbors(ctx, userID, subjectID, queryVector, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("nearest neighbor search: %w", err)
	}

	answer, err := uc.generator.GenerateText(ctx, followUpSystemPrompt, buildFollowUpPrompt(subject.Name, question, history, matches))
	if err != nil {
		return nil, fmt.Errorf("generate followup answer: %w", err)
	}

	return &domain.FollowUpAnswer{Answer: answer}, nil
}

const followUpSystemPrompt = `You are an assistant helping a user study from their own notes.
You MUST base your answers only on the provided context from their notes.
If the notes do not contain enough information to answer, clearly say that it is not covered in their notes.
Use the conversation history to keep answers coherent, but never introduce facts that are not grounded in the notes.
Respond in a concise paragraph or short list that would be easy to read aloud.`

func buildFollowUpPrompt(subjectName, question string, history []domain.ChatTurn, matches []domain.RetrievalMatch) string {
	contextBlock := "No directly relevant chunks were found for this question."
	if len(matches) > 0 {
		blocks := make([]string, 0, len(matches))
		for _, m := range matches {
			blocks = append(blocks, fmt.Sprintf("FILE: %s\nPAGE: %s\nCHUNK_INDEX: %d\nTEXT:\n%s\n---", m.FileName, m.PageRange, m.ChunkIndex, m.Content))
		}
		contextBlock = strings.Join(blocks, "\n\n")
	}

	historyBlock := "No previous conversation."
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, turn := range history {
			role := "User"
			if turn.Role == "assistant" {
				role = "Assistant"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", role, turn.Content))
		}
		historyBlock = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Subject: %s

Conversation so far:
%s

User's new question:
%s

Relevant note chunks:
%s

Task:
- Answer the question for the user.
- Base everything on the note chunks above.
- If the answer is not in the notes, say so explicitly.`,
		subjectName, historyBlock, question, contextBlock)
}
