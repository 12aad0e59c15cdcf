package signal

import "math"

// RiskScore reduces a signal list to a 0-100 risk contribution using a
// weighted average of normalized risk values. Averaging (not summing) is
// deliberate: many low-confidence signals must not inflate the score through
// volume alone, they only shift the mean.
//
// Experimental signals never score. Negative weights are clamped to zero
// rather than failing the scan.
func RiskScore(signals []Signal) int {
	if len(signals) == 0 {
		return 0
	}

	var weightedSum, totalWeight float64
	for _, s := range signals {
		if s.Experimental {
			continue
		}

		weight := s.Weight
		if weight < 0 {
			weight = 0
		}

		effectiveWeight := weight * s.Confidence.Multiplier()
		weightedSum += s.Value.RiskMagnitude() * effectiveWeight
		totalWeight += effectiveWeight
	}

	if totalWeight == 0 {
		return 0
	}

	return int(math.Round(weightedSum / totalWeight * 100))
}

// OverallConfidence is the arithmetic mean of confidence scores across
// non-experimental signals, rounded to two decimals. Unlike the risk score
// it is unweighted: every signal counts equally toward "how sure are we".
func OverallConfidence(signals []Signal) float64 {
	var sum float64
	var count int
	for _, s := range signals {
		if s.Experimental {
			continue
		}
		sum += s.ConfidenceScore
		count++
	}

	if count == 0 {
		return 0
	}

	return math.Round(sum/float64(count)*100) / 100
}
