package codec

type railFenceCodec struct {
	baseCodec
	rails int
}

// NewRailFence returns a rail fence codec with the given number of rails.
// Fewer than two rails leaves text unchanged.
func NewRailFence(rails int) Codec {
	return railFenceCodec{baseCodec: baseCodec{format: RailFence}, rails: rails}
}

// railIndexes walks the zig-zag and returns the rail of each of n positions.
func railIndexes(n, rails int) []int {
	idx := make([]int, n)
	cycle := 2 * (rails - 1)
	for i := range idx {
		r := i % cycle
		if r >= rails {
			r = cycle - r
		}
		idx[i] = r
	}
	return idx
}

func (c railFenceCodec) Encode(text string) string {
	runes := []rune(text)
	if c.rails < 2 || len(runes) < 2 {
		return text
	}
	rows := make([][]rune, c.rails)
	for i, r := range railIndexes(len(runes), c.rails) {
		rows[r] = append(rows[r], runes[i])
	}
	out := make([]rune, 0, len(runes))
	for _, row := range rows {
		out = append(out, row...)
	}
	return string(out)
}

func (c railFenceCodec) Decode(text string) (string, error) {
	runes := []rune(text)
	if c.rails < 2 || len(runes) < 2 {
		return text, nil
	}
	idx := railIndexes(len(runes), c.rails)
	counts := make([]int, c.rails)
	for _, r := range idx {
		counts[r]++
	}
	// next[r] is the position in runes of rail r's next unread character.
	next := make([]int, c.rails)
	for r := 1; r < c.rails; r++ {
		next[r] = next[r-1] + counts[r-1]
	}
	out := make([]rune, len(runes))
	for i, r := range idx {
		out[i] = runes[next[r]]
		next[r]++
	}
	return string(out), nil
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
