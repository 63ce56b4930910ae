package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/lexsplit/internal/home"
)

// headerSchema is the shape of one metadata entry. Entries that do not
// match are dropped on load and their lines stay unclassified.
const headerSchema = `{
  "type": "object",
  "required": ["line", "type", "text", "page"],
  "properties": {
    "line": {"type": "integer", "minimum": 0},
    "type": {"type": "string"},
    "text": {"type": "string"},
    "page": {"type": "integer", "minimum": 0}
  }
}`

var compiledHeaderSchema = mustCompileSchema(headerSchema)

func mustCompileSchema(src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("header.json", strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("failed to load header schema: %v", err))
	}
	schema, err := compiler.Compile("header.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile header schema: %v", err))
	}
	return schema
}

// Save writes the line stream as newline-joined text and its metadata as
// indented JSON. Both writes are atomic.
func Save(s *Stream, textPath, metadataPath string) error {
	text := strings.Join(s.Texts(), "\n")
	if err := home.WriteFileAtomic(textPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to save text: %w", err)
	}

	data, err := EncodeMetadata(s.Metadata())
	if err != nil {
		return err
	}
	if err := home.WriteFileAtomic(metadataPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	return nil
}

// EncodeMetadata renders metadata as indented JSON without HTML escaping.
func EncodeMetadata(md Metadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(md); err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadText reads a line stream text artifact.
func LoadText(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return strings.Split(string(data), "\n"), nil
}

// LoadMetadata reads a metadata artifact. Each header entry is validated
// on its own; invalid entries are dropped and counted, never fatal.
func LoadMetadata(path string, logger *slog.Logger) (Metadata, int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, 0, fmt.Errorf("failed to read metadata: %w", err)
	}

	var raw struct {
		Headers []json.RawMessage `json:"headers"`
		Summary Summary           `json:"summary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Metadata{}, 0, fmt.Errorf("failed to decode metadata: %w", err)
	}

	md := Metadata{Headers: make([]Header, 0, len(raw.Headers)), Summary: raw.Summary}
	dropped := 0
	for i, entry := range raw.Headers {
		h, err := decodeHeader(entry)
		if err != nil {
			logger.Debug("dropping metadata entry", "index", i, "error", err)
			dropped++
			continue
		}
		md.Headers = append(md.Headers, h)
	}
	if dropped > 0 {
		logger.Warn("dropped invalid metadata entries", "count", dropped)
	}
	return md, dropped, nil
}

func decodeHeader(entry json.RawMessage) (Header, error) {
	var doc any
	if err := json.Unmarshal(entry, &doc); err != nil {
		return Header{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	if err := compiledHeaderSchema.Validate(doc); err != nil {
		return Header{}, fmt.Errorf("entry does not match schema: %w", err)
	}
	var h Header
	if err := json.Unmarshal(entry, &h); err != nil {
		return Header{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	return h, nil
}

// Load rebuilds a stream from its text and metadata artifacts.
func Load(textPath, metadataPath string, logger *slog.Logger) (*Stream, error) {
	texts, err := LoadText(textPath)
	if err != nil {
		return nil, err
	}
	md, _, err := LoadMetadata(metadataPath, logger)
	if err != nil {
		return nil, err
	}
	return FromArtifacts(texts, md.Headers), nil
}
