// Package wordlist serves the game's accepted-word dictionary. The list is
// compiled into the binary; lookups never touch the filesystem.
package wordlist

import (
	_ "embed"
	"math/rand/v2"
	"strings"
	"sync"
)

//go:embed words.txt
var rawWords string

var (
	once     sync.Once
	words    map[string]struct{}
	byLength map[int][]string
)

func load() {
	once.Do(func() {
		words = make(map[string]struct{})
		byLength = make(map[int][]string)
		for _, line := range strings.Split(rawWords, "\n") {
			w := strings.ToLower(strings.TrimSpace(line))
			if w == "" {
				continue
			}
			if _, dup := words[w]; dup {
				continue
			}
			words[w] = struct{}{}
			byLength[len(w)] = append(byLength[len(w)], w)
		}
	})
}

// Contains reports whether word is in the dictionary. Case-insensitive.
func Contains(word string) bool {
	load()
	_, ok := words[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// Len returns the number of words in the dictionary.
func Len() int {
	load()
	return len(words)
}

// ByLength returns all words of the given length, in list order.
func ByLength(n int) []string {
	load()
	return byLength[n]
}

// Random returns a random word of the given length, or "" if the
// dictionary has none of that length.
func Random(n int) string {
	load()
	candidates := byLength[n]
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rand.IntN(len(candidates))]
}
