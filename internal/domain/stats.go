package domain

// CollectionStats is the derived statistics view over a card collection.
// Categories overlap by construction (a card can be both learning and
// struggling); the view is recomputed from the collection on every request,
// never cached.
type CollectionStats struct {
	TotalActive int
	DueToday    int
	Mastered    int // active, reviewCount >= 5 and ease >= 2.5
	Learning    int // active, reviewCount < 5
	Struggling  int // active, ease < 2.0
	Archived    int
}

// Dashboard aggregates the statistics shown on the study dashboard.
type Dashboard struct {
	Stats         CollectionStats
	ReviewedToday int
}
