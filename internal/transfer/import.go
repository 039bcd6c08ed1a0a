package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/portfolio-keeper/internal/schemas"
	"github.com/jonathan/portfolio-keeper/internal/types"
	portfolioschemas "github.com/jonathan/portfolio-keeper/schemas"
)

var listKeys = []string{
	"languages", "education", "skills", "projects",
	"coreCompetencies", "additionalDetails", "certificates", "events",
}

var portfolioSchema = mustCompile()

func mustCompile() *schemas.Validator {
	v, err := schemas.Compile("portfolio", portfolioschemas.Portfolio)
	if err != nil {
		panic(err)
	}
	return v
}

// Import reads a portfolio JSON document. List sections that are absent or not arrays
// become empty, the structure is checked against the portfolio schema, and the record
// must have a name and an email. Missing scalar fields stay empty; nothing from the
// current record is merged in.
func Import(r io.Reader) (types.PortfolioRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.PortfolioRecord{}, parseError(err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.PortfolioRecord{}, parseError(err)
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return types.PortfolioRecord{}, parseError(errors.New("expected a JSON object"))
	}
	normalizeDocument(doc)

	if err := portfolioSchema.Validate(doc); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return types.PortfolioRecord{}, &ImportError{
				Kind:    KindSchema,
				Message: "Import validation error: " + verr.Summary(),
				Cause:   err,
			}
		}
		return types.PortfolioRecord{}, parseError(err)
	}

	record, err := decodeDocument(doc)
	if err != nil {
		return types.PortfolioRecord{}, parseError(err)
	}
	if err := record.Validate(); err != nil {
		return types.PortfolioRecord{}, &ImportError{Kind: KindValidation, Message: MissingRequiredMessage, Cause: err}
	}
	return record, nil
}

// ImportFile is Import over the contents of path.
func ImportFile(path string) (types.PortfolioRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.PortfolioRecord{}, parseError(err)
	}
	defer f.Close()
	return Import(f)
}

func normalizeDocument(doc map[string]interface{}) {
	for _, key := range listKeys {
		ensureList(doc, key)
	}
	normalizeItems(doc["projects"], "technologiesUsed")

	ai, ok := doc["aiExperience"].(map[string]interface{})
	if !ok {
		doc["aiExperience"] = map[string]interface{}{
			"description":          "",
			"currentInvestigation": "",
			"achievements":         []interface{}{},
			"projects":             []interface{}{},
		}
		return
	}
	ensureList(ai, "achievements")
	ensureList(ai, "projects")
	normalizeItems(ai["projects"], "technologies")
}

// ensureList replaces a missing or non-array value at key with an empty list.
func ensureList(obj map[string]interface{}, key string) {
	if _, ok := obj[key].([]interface{}); !ok {
		obj[key] = []interface{}{}
	}
}

// normalizeItems applies ensureList to key in every object element of items.
func normalizeItems(items interface{}, key string) {
	list, _ := items.([]interface{})
	for _, item := range list {
		if obj, ok := item.(map[string]interface{}); ok {
			ensureList(obj, key)
		}
	}
}

func decodeDocument(doc map[string]interface{}) (types.PortfolioRecord, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return types.PortfolioRecord{}, fmt.Errorf("failed to re-encode document: %w", err)
	}
	var record types.PortfolioRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return types.PortfolioRecord{}, err
	}
	return types.Normalize(record), nil
}
