package catalog

// Outcome partitions one resolution request: every requested identifier
// is either a key in Resolved or an element of Missing, never both,
// never neither.
type Outcome struct {
	Resolved map[ExerciseID]Exercise
	Missing  []ExerciseID
}

// reconcile merges an upstream batch result with the identifiers that
// were actually requested. The missing list is recomputed locally from
// the returned entity keys rather than trusted from the upstream's
// bookkeeping: an identifier counts as resolved only if its data came
// back. Duplicate requested identifiers collapse to one entry, first-seen
// order preserved.
func reconcile(requested []ExerciseID, res *BatchResult) Outcome {
	resolved := make(map[ExerciseID]Exercise, len(res.Exercises))
	for _, e := range res.Exercises {
		resolved[e.ID] = e
	}

	var missing []ExerciseID
	seen := make(map[ExerciseID]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := resolved[id]; !ok {
			missing = append(missing, id)
		}
	}

	return Outcome{Resolved: resolved, Missing: missing}
}

// dedupe returns ids with duplicates removed, first-seen order preserved.
func dedupe(ids []ExerciseID) []ExerciseID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[ExerciseID]struct{}, len(ids))
	unique := make([]ExerciseID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
