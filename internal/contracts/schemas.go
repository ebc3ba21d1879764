package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ключи схем
const (
	ValuationRequestV1 = "ValuationRequest/1.0.0"
	ValuationTaskV1    = "ValuationTaskEvent/1.0.0"
)

//go:embed schemas
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			log.Fatalf("could not compile schema %s: %v", path, err)
		}
		compiledSchemas[generateKeyFromPath(path)] = schema
	}
}

// generateKeyFromPath: "schemas/requests/valuation-request/v1.json" -> "ValuationRequest/1.0.0",
// "schemas/events/valuation-task/v1.json" -> "ValuationTaskEvent/1.0.0".
func generateKeyFromPath(path string) string {
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json"), "/")
	if len(parts) != 3 {
		return ""
	}
	kind, name, version := parts[0], parts[1], parts[2]

	caser := cases.Title(language.English)
	var b strings.Builder
	for _, p := range strings.Split(name, "-") {
		b.WriteString(caser.String(p))
	}
	if kind == "events" {
		b.WriteString("Event")
	}

	return fmt.Sprintf("%s/%s.0.0", b.String(), strings.TrimPrefix(version, "v"))
}

// Validate проверяет тело запроса или сообщения по зарегистрированной схеме.
func Validate(key string, body []byte) error {
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
