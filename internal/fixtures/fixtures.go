// Package fixtures provides the built-in sample portfolio used on a fresh store and
// after clearing all data.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/jonathan/portfolio-keeper/internal/schemas"
	"github.com/jonathan/portfolio-keeper/internal/types"
	portfolioschemas "github.com/jonathan/portfolio-keeper/schemas"
)

//go:embed default_portfolio.json
var defaultPortfolioJSON []byte

var defaultPortfolio = mustParse(defaultPortfolioJSON)

// Default returns a fresh copy of the sample portfolio. Callers may modify it freely.
func Default() types.PortfolioRecord {
	return defaultPortfolio.Clone()
}

// DefaultJSON returns the embedded fixture as written on disk.
func DefaultJSON() []byte {
	return append([]byte(nil), defaultPortfolioJSON...)
}

func mustParse(data []byte) types.PortfolioRecord {
	v, err := schemas.Compile("portfolio", portfolioschemas.Portfolio)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	if err := v.ValidateBytes(data); err != nil {
		panic(fmt.Sprintf("fixtures: default_portfolio.json does not match the schema: %v", err))
	}

	var r types.PortfolioRecord
	if err := json.Unmarshal(data, &r); err != nil {
		panic(fmt.Sprintf("fixtures: invalid default_portfolio.json: %v", err))
	}
	r = types.Normalize(r)
	if err := r.Validate(); err != nil {
		panic(fmt.Sprintf("fixtures: default portfolio is not persistable: %v", err))
	}
	return r
}
