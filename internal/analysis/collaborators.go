package analysis

import (
	"context"

	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// RouteSource fetches route candidates between an origin and a destination.
// Implementations wrap external routing providers.
type RouteSource interface {
	FetchCandidates(ctx context.Context, origin, destination string) (*route.CandidateSet, error)
}

// NewsClassifier classifies recent news items for a corridor into
// sentiment polarities. Implementations wrap external news and NLP
// providers; a failure here degrades the analysis to neutral sentiment
// rather than aborting it.
type NewsClassifier interface {
	Classify(ctx context.Context, corridor []string) ([]sentiment.ClassifiedItem, error)
}
