package usecase

import "github.com/askmynotes/backend/internal/core/domain"

// ConfidenceThresholds are cut points on cosine similarity. They are
// configuration because they must be retuned whenever the embedding
// model changes.
type ConfidenceThresholds struct {
	NotFound float64
	Medium   float64
	High     float64
}

func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{
		NotFound: 0.35,
		Medium:   0.45,
		High:     0.6,
	}
}

// classifyConfidence maps the best retrieval similarity to a discrete
// bucket. hasBest=false means no match carried a similarity at all.
func classifyConfidence(best float64, hasBest bool, t ConfidenceThresholds) domain.Confidence {
	switch {
	case !hasBest || best < t.NotFound:
		return domain.ConfidenceNotFound
	case best >= t.High:
		return domain.ConfidenceHigh
	case best >= t.Medium:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
