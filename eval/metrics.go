package eval

// CalculateRetrievalMetrics computes precision, recall, and MRR from the
// retrieved chunk IDs (in rank order, deduplicated here) and the
// ground-truth relevant set. Identifier equality is exact-string; no
// partial credit.
//
// Edge-case policy, deliberate and relied on by aggregation:
//   - precision is 0 when nothing was retrieved
//   - recall is 1 when the relevant set is empty (vacuously fully recalled)
//   - MRR is 0 when no retrieved ID is relevant
func CalculateRetrievalMetrics(retrievedIDs, relevantIDs []string) Metrics {
	relevant := make(map[string]struct{}, len(relevantIDs))
	for _, id := range relevantIDs {
		relevant[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(retrievedIDs))
	retrieved := 0
	hits := 0
	firstHitRank := 0
	for _, id := range retrievedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		retrieved++
		if _, ok := relevant[id]; ok {
			hits++
			if firstHitRank == 0 {
				firstHitRank = retrieved
			}
		}
	}

	var m Metrics
	if retrieved > 0 {
		m.Precision = float64(hits) / float64(retrieved)
	}
	if len(relevant) > 0 {
		m.Recall = float64(hits) / float64(len(relevant))
	} else {
		m.Recall = 1
	}
	if firstHitRank > 0 {
		m.MRR = 1 / float64(firstHitRank)
	}

	return m
}

// Aggregate folds per-question results into batch-level means.
func Aggregate(results []Result) AggregateMetrics {
	agg := AggregateMetrics{Evaluated: len(results)}
	if len(results) == 0 {
		return agg
	}

	correct := 0
	for _, r := range results {
		agg.MeanPrecision += r.Metrics.Precision
		agg.MeanRecall += r.Metrics.Recall
		agg.MeanMRR += r.Metrics.MRR
		if r.Correct {
			correct++
		}
	}

	n := float64(len(results))
	agg.MeanPrecision /= n
	agg.MeanRecall /= n
	agg.MeanMRR /= n
	agg.CorrectnessRate = float64(correct) / n

	return agg
}
