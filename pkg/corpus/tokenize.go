package corpus

import (
	"github.com/bastiangx/ngserve/internal/utils"
)

// Stats summarizes a tokenized corpus.
type Stats struct {
	Lines  int
	Tokens int
}

// Tokenize splits every line on spaces, dropping empty fragments.
// Lines without tokens are kept as empty slices so indexes match the input.
func Tokenize(lines []string) [][]string {
	tokenized := make([][]string, len(lines))
	for i, line := range lines {
		tokenized[i] = utils.SplitLine(line)
	}
	return tokenized
}

// Flatten concatenates per-line tokens into one ordered token stream.
func Flatten(lines [][]string) []string {
	total := 0
	for _, line := range lines {
		total += len(line)
	}
	tokens := make([]string, 0, total)
	for _, line := range lines {
		tokens = append(tokens, line...)
	}
	return tokens
}

// Read loads, tokenizes and flattens the corpus at path.
func Read(path string) ([]string, Stats, error) {
	lines, err := Load(path)
	if err != nil {
		return nil, Stats{}, err
	}
	tokens := Flatten(Tokenize(lines))
	return tokens, Stats{Lines: len(lines), Tokens: len(tokens)}, nil
}
