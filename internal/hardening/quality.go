package hardening

import "fmt"

// Thresholds for the structural checks. chi-square cutoff is the 0.1%
// tail for 15 degrees of freedom (16 nibble bins).
const (
	chiSquareCutoff = 37.70
	maxBitRun       = 24

	penaltyConstant  = 100
	penaltyRepeating = 60
	penaltyChiSquare = 25
	penaltyBitRun    = 20
)

// ScoreEntropy runs structural sanity checks over raw entropy and returns
// a 0..100 score with human-readable warnings. It is an advisory layer on
// top of correct algorithmic output: a correct derivation can, very
// rarely, score low by chance.
func ScoreEntropy(raw []byte) (int, []string) {
	if len(raw) == 0 {
		return 0, []string{"empty entropy buffer"}
	}

	score := 100
	var warnings []string

	if allBytesEqual(raw) {
		score -= penaltyConstant
		warnings = append(warnings, fmt.Sprintf("constant byte value 0x%02x", raw[0]))
	} else if p := repeatingPeriod(raw); p > 0 {
		score -= penaltyRepeating
		warnings = append(warnings, fmt.Sprintf("repeating pattern with period %d", p))
	}

	if len(raw) >= 16 {
		if chi := nibbleChiSquare(raw); chi > chiSquareCutoff {
			score -= penaltyChiSquare
			warnings = append(warnings, fmt.Sprintf("byte frequency bias (chi-square %.1f)", chi))
		}
	}

	if run := longestBitRun(raw); run > maxBitRun {
		score -= penaltyBitRun
		warnings = append(warnings, fmt.Sprintf("identical-bit run of length %d", run))
	}

	if score < 0 {
		score = 0
	}
	return score, warnings
}

func allBytesEqual(raw []byte) bool {
	for _, b := range raw[1:] {
		if b != raw[0] {
			return false
		}
	}
	return true
}

// repeatingPeriod reports the shortest period 1..4 that tiles the whole
// buffer, or 0 when none does.
func repeatingPeriod(raw []byte) int {
	for p := 1; p <= 4 && p*2 <= len(raw); p++ {
		period := true
		for i := p; i < len(raw); i++ {
			if raw[i] != raw[i-p] {
				period = false
				break
			}
		}
		if period {
			return p
		}
	}
	return 0
}

// nibbleChiSquare measures byte-frequency bias over 16 high-nibble bins.
// Full 256-bin frequencies are too sparse at 16-64 bytes to say anything.
func nibbleChiSquare(raw []byte) float64 {
	var bins [16]int
	for _, b := range raw {
		bins[b>>4]++
	}
	expected := float64(len(raw)) / 16
	var chi float64
	for _, observed := range bins {
		diff := float64(observed) - expected
		chi += diff * diff / expected
	}
	return chi
}

func longestBitRun(raw []byte) int {
	longest, current := 0, 0
	last := -1
	for _, b := range raw {
		for shift := 7; shift >= 0; shift-- {
			bit := int(b>>uint(shift)) & 1
			if bit == last {
				current++
			} else {
				last = bit
				current = 1
			}
			if current > longest {
				longest = current
			}
		}
	}
	return longest
}
