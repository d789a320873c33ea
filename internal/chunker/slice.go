package chunker

// lineOffsets returns the byte offset of the start of each line (1-based
// line i's start is lineOffsets[i-1]), plus a sentinel equal to len(text)
// so the last line's end is computable without bounds-checking.
func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	offsets = append(offsets, len(text))
	return offsets
}

// byteRange computes the [start, end) byte range for a 1-based
// (startLine, startCol, endLine, endCol) span with an inclusive end
// column, clamped to the text length.
func byteRange(offsets []int, textLen int, startLine, startCol, endLine, endCol int) (int, int) {
	start := 0
	if startLine-1 >= 0 && startLine-1 < len(offsets) {
		start = offsets[startLine-1]
	}
	if startCol > 0 {
		start += startCol - 1
	}

	end := textLen
	if endLine-1 >= 0 && endLine-1 < len(offsets) {
		if endCol > 0 {
			end = offsets[endLine-1] + endCol
		} else if endLine < len(offsets) {
			end = offsets[endLine]
		}
	}

	if start > textLen {
		start = textLen
	}
	if end > textLen {
		end = textLen
	}
	if end < start {
		end = start
	}
	return start, end
}
