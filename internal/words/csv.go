package words

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed words.csv
var defaultCSV string

var ErrEmptyPool = errors.New("word pool is empty")

// DefaultPool returns the built-in word list, already normalized.
func DefaultPool() []string {
	pool, err := ReadCSV(strings.NewReader(defaultCSV))
	if err != nil {
		panic(fmt.Sprintf("embedded word list is invalid: %v", err))
	}
	return pool
}

// ReadCSVFile loads a "word,count" file. The count column is optional and
// only validated when present.
func ReadCSVFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read words file %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

func ReadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to parse words as CSV: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	pool := make([]string, 0, len(records))
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "word") {
			continue
		}
		if len(record) > 1 {
			if _, err := strconv.Atoi(strings.TrimSpace(record[1])); err != nil {
				log.Warn().Strs("record", record).Msg("[ReadCSV] skipping record with invalid count")
				continue
			}
		}

		word := Normalize(record[0])
		if word == "" {
			log.Warn().Strs("record", record).Msg("[ReadCSV] skipping empty word")
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		pool = append(pool, word)
	}

	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	return pool, nil
}
