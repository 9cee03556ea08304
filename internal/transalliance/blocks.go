package transalliance

// Segment splits lines into contiguous blocks. A new block opens at every
// line that starts with one of the keywords; lines before the first anchor
// form their own block. Every input line lands in exactly one block and
// input order is preserved.
func Segment(lines []string, keywords ...string) [][]string {
	var blocks [][]string
	var current []string

	for _, line := range lines {
		if HasPrefix(line, keywords...) && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}
