package translate

import (
	"regexp"
	"strconv"
)

// num is the capture used for an operand in every phrase pattern.
const num = `(-?\d+(?:\.\d+)?)`

// phrasePattern pairs one English phrasing of a binary arithmetic request
// with the operand roles of its captures: slots[i] is the operand slot
// (0 = first numeric parameter in schema order, 1 = second) filled by
// capture group i+1. Keeping the table literal keeps each phrasing
// independently unit-testable.
type phrasePattern struct {
	re    *regexp.Regexp
	slots []int
}

func pat(expr string, slots ...int) phrasePattern {
	return phrasePattern{re: regexp.MustCompile(`(?i)` + expr), slots: slots}
}

// arithmeticPhrases lists the recognized phrasings per canonical operation,
// tried in order. For subtract, slot 0 is the subtrahend and slot 1 the
// minuend: "subtract 15 from 20" fills slot 0 with 15 and slot 1 with 20,
// while "20 minus 15" captures the minuend first and so maps 1,0.
// For divide, slot 0 is the dividend and slot 1 the divisor.
var arithmeticPhrases = map[string][]phrasePattern{
	"add": {
		pat(num+`\s*\+\s*`+num, 0, 1),
		pat(num+`\s+plus\s+`+num, 0, 1),
		pat(`sum\s+of\s+`+num+`\s+and\s+`+num, 0, 1),
		pat(`add\s+`+num+`\s+(?:and|to|with)\s+`+num, 0, 1),
		pat(`total\s+of\s+`+num+`\s+and\s+`+num, 0, 1),
		pat(num+`\s+added\s+to\s+`+num, 0, 1),
		pat(`combine\s+`+num+`\s+(?:and|with)\s+`+num, 0, 1),
		pat(`increase\s+`+num+`\s+by\s+`+num, 0, 1),
		pat(num+`\s+and\s+`+num+`\s+together`, 0, 1),
	},
	"subtract": {
		pat(`subtract\s+`+num+`\s+from\s+`+num, 0, 1),
		pat(`take\s+away\s+`+num+`\s+from\s+`+num, 0, 1),
		pat(`take\s+`+num+`\s+away\s+from\s+`+num, 0, 1),
		pat(`deduct\s+`+num+`\s+from\s+`+num, 0, 1),
		pat(`remove\s+`+num+`\s+from\s+`+num, 0, 1),
		pat(num+`\s*-\s*`+num, 1, 0),
		pat(num+`\s+minus\s+`+num, 1, 0),
		pat(`difference\s+(?:of|between)\s+`+num+`\s+and\s+`+num, 1, 0),
		pat(`reduce\s+`+num+`\s+by\s+`+num, 1, 0),
		pat(`decrease\s+`+num+`\s+by\s+`+num, 1, 0),
		pat(num+`\s+less\s+`+num, 1, 0),
	},
	"multiply": {
		pat(num+`\s*[*×]\s*`+num, 0, 1),
		pat(num+`\s+times\s+`+num, 0, 1),
		pat(`multiply\s+`+num+`\s+(?:by|and|with)\s+`+num, 0, 1),
		pat(`product\s+of\s+`+num+`\s+and\s+`+num, 0, 1),
		pat(num+`\s+multiplied\s+by\s+`+num, 0, 1),
		pat(`scale\s+`+num+`\s+by\s+`+num, 0, 1),
	},
	"divide": {
		pat(num+`\s*/\s*`+num, 0, 1),
		pat(`divide\s+`+num+`\s+by\s+`+num, 0, 1),
		pat(num+`\s+divided\s+by\s+`+num, 0, 1),
		pat(num+`\s+over\s+`+num, 0, 1),
		pat(`quotient\s+of\s+`+num+`\s+and\s+`+num, 0, 1),
		pat(`split\s+`+num+`\s+(?:by|into)\s+`+num, 0, 1),
		pat(`ratio\s+of\s+`+num+`\s+to\s+`+num, 0, 1),
	},
}

// matchArithmeticPhrase runs the phrase table for a canonical operation
// against the request. On the first matching pattern it returns operand
// values keyed by slot.
func matchArithmeticPhrase(canonical, request string) (map[int]float64, bool) {
	for _, p := range arithmeticPhrases[canonical] {
		m := p.re.FindStringSubmatch(request)
		if m == nil {
			continue
		}
		operands := make(map[int]float64, len(p.slots))
		ok := true
		for i, slot := range p.slots {
			if i+1 >= len(m) {
				ok = false
				break
			}
			v, err := strconv.ParseFloat(m[i+1], 64)
			if err != nil {
				ok = false
				break
			}
			operands[slot] = v
		}
		if ok {
			return operands, true
		}
	}
	return nil, false
}
