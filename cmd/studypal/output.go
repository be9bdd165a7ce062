package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addTextFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Read the text from a file (- for stdin) instead of arguments")
}

// readText returns the text named by --file, or the joined arguments.
// No text is not an error; the analyses return their empty results.
func readText(cmd *cobra.Command, args []string) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	var text string
	switch path {
	case "":
		text = strings.Join(args, " ")
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		text = string(data)
	}
	return text, nil
}
