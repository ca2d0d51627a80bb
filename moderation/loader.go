package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed censored/*.txt
var censoredFS embed.FS

// Dictionary carries the loaded word list plus metadata for logging.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadDictionary reads the embedded per-language blacklists. Each .txt file
// under censored/ is one language, one word per line.
func LoadDictionary() (*Dictionary, error) {
	entries, err := fs.ReadDir(censoredFS, "censored")
	if err != nil {
		return nil, err
	}

	var languages []string
	unique := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := censoredFS.ReadFile("censored/" + entry.Name())
		if err != nil {
			return nil, err
		}
		// A scanner handles both \n and \r\n line endings.
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word != "" {
				unique[word] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("no censored words found")
	}
	words := make([]string, 0, len(unique))
	for w := range unique {
		words = append(words, w)
	}
	return &Dictionary{Words: words, Languages: languages}, nil
}
