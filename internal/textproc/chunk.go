package textproc

// Chunk splits text into consecutive pieces of at most size characters
// (Unicode code points). Boundaries fall wherever the count lands, including
// mid-word. A size <= 0 yields the whole text as a single chunk.
func Chunk(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}

	chunks := make([]string, 0, len(text)/size+1)
	start, n := 0, 0
	for i := range text {
		if n == size {
			chunks = append(chunks, text[start:i])
			start, n = i, 0
		}
		n++
	}
	return append(chunks, text[start:])
}
