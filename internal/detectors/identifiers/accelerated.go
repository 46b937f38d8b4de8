package identifiers

import "github.com/custodia-labs/scrub-cli/internal/core/domain"

// DetectAccelerated is the accelerated implementation: a hand-rolled
// byte scanner with no regex machinery. It must emit exactly the spans
// the reference implementation emits; any drift shows up in shadow-mode
// parity records.
//
// Each pattern kind tracks the end of its previous match so the scanner
// reproduces the regex engine's non-overlapping leftmost-match semantics.
func (d *Detector) DetectAccelerated(text string) ([]domain.Span, error) {
	var spans []domain.Span
	spans = scanSSNLabelled(text, spans)
	spans = scanSSNBare(text, spans)
	spans = scanMRN(text, spans)
	spans = scanCardsGrouped(text, spans)
	spans = scanCardsCompact(text, spans)
	return spans, nil
}

func isWordByte(b byte) bool {
	return b >= '0' && b <= '9' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b == '_'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z'
}

// isSeparator matches the [\s:#] class of the labelled patterns.
// \s in RE2 is [\t\n\f\r ], so vertical tab is deliberately excluded.
func isSeparator(b byte) bool {
	return b == ':' || b == '#' || b == ' ' || b == '\t' || b == '\n' ||
		b == '\r' || b == '\f'
}

// matchSSNValue matches ddd-dd-dddd at i with a trailing word boundary
// and returns the end offset.
func matchSSNValue(text string, i int) (int, bool) {
	if i+11 > len(text) {
		return 0, false
	}
	for k := range 3 {
		if !isDigit(text[i+k]) {
			return 0, false
		}
	}
	if text[i+3] != '-' || !isDigit(text[i+4]) || !isDigit(text[i+5]) || text[i+6] != '-' {
		return 0, false
	}
	for k := 7; k < 11; k++ {
		if !isDigit(text[i+k]) {
			return 0, false
		}
	}
	if i+11 < len(text) && isWordByte(text[i+11]) {
		return 0, false
	}
	return i + 11, true
}

func matchLabel(text string, i int, label string) bool {
	if i > 0 && isWordByte(text[i-1]) {
		return false
	}
	if i+len(label) > len(text) {
		return false
	}
	for k := 0; k < len(label); k++ {
		b := text[i+k]
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if b != label[k] {
			return false
		}
	}
	return true
}

func scanSSNLabelled(text string, spans []domain.Span) []domain.Span {
	lastEnd := 0
	for i := 0; i < len(text); i++ {
		if i < lastEnd || !matchLabel(text, i, "SSN") {
			continue
		}
		j := i + 3
		for j < len(text) && isSeparator(text[j]) {
			j++
		}
		vEnd, ok := matchSSNValue(text, j)
		if !ok {
			continue
		}
		spans = append(spans, span(text, j, vEnd, ssnLabelledPriority, ssnLabelledConfidence, "SSN labelled"))
		lastEnd = vEnd
	}
	return spans
}

func scanSSNBare(text string, spans []domain.Span) []domain.Span {
	lastEnd := 0
	for i := 0; i < len(text); i++ {
		if i < lastEnd || !isDigit(text[i]) {
			continue
		}
		if i > 0 && isWordByte(text[i-1]) {
			continue
		}
		end, ok := matchSSNValue(text, i)
		if !ok {
			continue
		}
		spans = append(spans, span(text, i, end, ssnBarePriority, ssnBareConfidence, "SSN bare"))
		lastEnd = end
	}
	return spans
}

// scanMRN emits labelled MRN spans: "MRN" at a word boundary, optional
// separators, then a 5-12 character alphanumeric run ending at a word
// boundary.
func scanMRN(text string, spans []domain.Span) []domain.Span {
	lastEnd := 0
	for i := 0; i < len(text); i++ {
		if i < lastEnd || !matchLabel(text, i, "MRN") {
			continue
		}
		j := i + 3
		for j < len(text) && isSeparator(text[j]) {
			j++
		}
		start := j
		for j < len(text) && isAlnum(text[j]) {
			j++
		}
		runLen := j - start
		if runLen < 5 || runLen > 12 {
			continue
		}
		if j < len(text) && isWordByte(text[j]) {
			continue
		}
		spans = append(spans, span(text, start, j, mrnPriority, mrnConfidence, "MRN labelled"))
		lastEnd = j
	}
	return spans
}

func scanCardsGrouped(text string, spans []domain.Span) []domain.Span {
	lastEnd := 0
	for i := 0; i < len(text); i++ {
		if i < lastEnd || !isDigit(text[i]) {
			continue
		}
		if i > 0 && isWordByte(text[i-1]) {
			continue
		}
		end, ok := matchGroupedCard(text, i)
		if !ok {
			continue
		}
		if luhnValid(text[i:end]) {
			spans = append(spans, span(text, i, end, cardPriority, cardConfidence, "Credit card grouped"))
		}
		lastEnd = end
	}
	return spans
}

func scanCardsCompact(text string, spans []domain.Span) []domain.Span {
	lastEnd := 0
	for i := 0; i < len(text); i++ {
		if i < lastEnd || !isDigit(text[i]) {
			continue
		}
		if i > 0 && isWordByte(text[i-1]) {
			continue
		}
		j := i
		for j < len(text) && isDigit(text[j]) {
			j++
		}
		if j-i != 16 || (j < len(text) && isWordByte(text[j])) {
			continue
		}
		if luhnValid(text[i:j]) {
			spans = append(spans, span(text, i, j, cardPriority, cardConfidence, "Credit card compact"))
		}
		lastEnd = j
	}
	return spans
}

// matchGroupedCard matches four 4-digit groups joined by a single space
// or dash, ending at a word boundary.
func matchGroupedCard(text string, i int) (int, bool) {
	pos := i
	for g := range 4 {
		if pos+4 > len(text) {
			return 0, false
		}
		for k := range 4 {
			if !isDigit(text[pos+k]) {
				return 0, false
			}
		}
		pos += 4
		if g < 3 {
			if pos >= len(text) || (text[pos] != ' ' && text[pos] != '-') {
				return 0, false
			}
			pos++
		}
	}
	if pos < len(text) && isWordByte(text[pos]) {
		return 0, false
	}
	return pos, true
}
