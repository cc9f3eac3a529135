package manifest

import "express-ledger-service/internal/domain"

// Aggregate sums each category, the grand total and the entry count.
// The result does not depend on the order of entries.
func Aggregate(entries []domain.ManifestEntry) domain.Statistics {
	var s domain.Statistics
	for _, e := range entries {
		s.SumJu += e.Ju
		s.SumGong += e.Gong
		s.SumMixed += e.Mixed
	}
	s.Count = len(entries)
	s.SumAll = s.SumJu + s.SumGong + s.SumMixed
	return s
}
