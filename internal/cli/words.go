package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wordfall-io/wordfall/internal/wordlist"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Query the built-in word list",
}

var wordsCheckCmd = &cobra.Command{
	Use:   "check <word>",
	Short: "Check whether a word is playable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if wordlist.Contains(args[0]) {
			fmt.Printf("%s is playable.\n", args[0])
			return nil
		}
		fmt.Printf("%s is not in the word list.\n", args[0])
		return nil
	},
}

var wordsRandomCmd = &cobra.Command{
	Use:   "random [length]",
	Short: "Pick a random word (default length 5)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		length := 5
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid length %q: expected a positive integer", args[0])
			}
			length = n
		}

		word := wordlist.Random(length)
		if word == "" {
			return fmt.Errorf("no words of length %d", length)
		}
		fmt.Println(word)
		return nil
	},
}

var wordsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many words are loaded",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%d words loaded.\n", wordlist.Len())
	},
}

func init() {
	wordsCmd.AddCommand(wordsCheckCmd)
	wordsCmd.AddCommand(wordsCountCmd)
	wordsCmd.AddCommand(wordsRandomCmd)
}
