package objfile

import (
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/internal/registry"
)

// Communal - A communal name and whether it was already reported earlier in the run
type Communal struct {
	Name      string
	Commented bool
}

// Report - Symbols of one object file split into the report categories, each in ascending name order
//   - GlobalFunctions are names both external and public, always reported
//   - PublicData are public only names, when model.Pubdef is requested
//   - Communals are the communal names seen in this file, when model.Comdef is requested
//   - Externals are external only names, when model.Extdef is requested
type Report struct {
	GlobalFunctions []string
	PublicData      []string
	Communals       []Communal
	Externals       []string
}

// IsEmpty - Returns true if no category has any names
func (R Report) IsEmpty() bool {
	return len(R.GlobalFunctions) == 0 && len(R.PublicData) == 0 && len(R.Communals) == 0 && len(R.Externals) == 0
}

// Classify - Splits the registries into report categories.
// Every communal picked up is marked as written, so a later object file declaring the same name gets it reported
// as a comment.
func Classify(symbols, communals *registry.Registry, options Options) (report Report) {
	symbols.Range(func(symbol *registry.Symbol) bool {
		switch {
		case symbol.Flags.Has(model.Extdef | model.Pubdef):
			report.GlobalFunctions = append(report.GlobalFunctions, symbol.Name)
		case symbol.Flags.Has(model.Pubdef) && options.Requested.Has(model.Pubdef):
			report.PublicData = append(report.PublicData, symbol.Name)
		case symbol.Flags.Has(model.Extdef) && options.Requested.Has(model.Extdef):
			report.Externals = append(report.Externals, symbol.Name)
		}
		return true
	})

	if !options.Requested.Has(model.Comdef) {
		return
	}

	communals.Range(func(symbol *registry.Symbol) bool {
		if symbol.Flags.Has(model.Comdef) {
			report.Communals = append(report.Communals, Communal{
				Name:      symbol.Name,
				Commented: symbol.Flags.Has(model.Written),
			})
			symbol.Flags = model.Written
		}
		return true
	})

	return
}
