package ingester

import (
	"bufio"
	"bytes"
	"io/ioutil"
	"strings"

	"github.com/tidwall/gjson" // JSON parsing.
	"go.uber.org/zap"          // Logging.
)

// LoadDocuments reads a document file and returns one raw JSON object per
// document. Three file shapes are accepted: a JSON array of objects, a
// single JSON object, and JSONL (one object per line). Array elements and
// lines that aren't JSON objects are skipped with a warning.
func LoadDocuments(path string, logger *zap.Logger) ([][]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' && gjson.ValidBytes(trimmed) {
		return arrayDocuments(trimmed, logger), nil
	}
	if gjson.ValidBytes(trimmed) && gjson.ParseBytes(trimmed).IsObject() {
		return [][]byte{trimmed}, nil
	}
	return lineDocuments(data, logger)
}

func arrayDocuments(data []byte, logger *zap.Logger) [][]byte {
	var docs [][]byte
	gjson.ParseBytes(data).ForEach(func(_, el gjson.Result) bool {
		if !el.IsObject() {
			logger.Warn("skipping non-object array element", zap.String("element", el.Raw))
			return true
		}
		docs = append(docs, []byte(el.Raw))
		return true
	})
	return docs
}

func lineDocuments(data []byte, logger *zap.Logger) ([][]byte, error) {
	var docs [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(nil, 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if !gjson.Valid(text) || !gjson.Parse(text).IsObject() {
			logger.Warn("skipping invalid document line", zap.Int("line", line))
			continue
		}
		docs = append(docs, []byte(text))
	}
	return docs, scanner.Err()
}
