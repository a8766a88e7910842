// Package paramschema synthesizes a *parser.Schema for OAS 2.0 parameters
// and headers, which declare their type/constraint fields directly rather
// than via a nested schema object the way OAS 3.0+ does.
package paramschema

import "github.com/apigate/apigate/parser"

// FromParameter returns p's schema: its OAS 3.0+ Schema field if set,
// otherwise a schema synthesized from its OAS 2.0 inline fields.
func FromParameter(p *parser.Parameter) *parser.Schema {
	if p == nil {
		return nil
	}
	if p.Schema != nil {
		return p.Schema
	}
	if p.Type == "" {
		return nil
	}
	return &parser.Schema{
		Type:             p.Type,
		Format:           p.Format,
		Items:            fromItems(p.Items),
		Default:          p.Default,
		Maximum:          p.Maximum,
		ExclusiveMaximum: p.ExclusiveMaximum,
		Minimum:          p.Minimum,
		ExclusiveMinimum: p.ExclusiveMinimum,
		MaxLength:        p.MaxLength,
		MinLength:        p.MinLength,
		Pattern:          p.Pattern,
		MaxItems:         p.MaxItems,
		MinItems:         p.MinItems,
		UniqueItems:      p.UniqueItems,
		Enum:             p.Enum,
		MultipleOf:       p.MultipleOf,
	}
}

// FromHeader returns h's schema: its OAS 3.0+ Schema field if set,
// otherwise a schema synthesized from its OAS 2.0 inline fields.
func FromHeader(h *parser.Header) *parser.Schema {
	if h == nil {
		return nil
	}
	if h.Schema != nil {
		return h.Schema
	}
	if h.Type == "" {
		return nil
	}
	return &parser.Schema{
		Type:             h.Type,
		Format:           h.Format,
		Items:            fromItems(h.Items),
		Default:          h.Default,
		Maximum:          h.Maximum,
		ExclusiveMaximum: h.ExclusiveMaximum,
		Minimum:          h.Minimum,
		ExclusiveMinimum: h.ExclusiveMinimum,
		MaxLength:        h.MaxLength,
		MinLength:        h.MinLength,
		Pattern:          h.Pattern,
		MaxItems:         h.MaxItems,
		MinItems:         h.MinItems,
		UniqueItems:      h.UniqueItems,
		Enum:             h.Enum,
		MultipleOf:       h.MultipleOf,
	}
}

func fromItems(items *parser.Items) *parser.Schema {
	if items == nil {
		return nil
	}
	return &parser.Schema{
		Type:             items.Type,
		Format:           items.Format,
		Items:            fromItems(items.Items),
		Default:          items.Default,
		Maximum:          items.Maximum,
		ExclusiveMaximum: items.ExclusiveMaximum,
		Minimum:          items.Minimum,
		ExclusiveMinimum: items.ExclusiveMinimum,
		MaxLength:        items.MaxLength,
		MinLength:        items.MinLength,
		Pattern:          items.Pattern,
		MaxItems:         items.MaxItems,
		MinItems:         items.MinItems,
		UniqueItems:      items.UniqueItems,
		Enum:             items.Enum,
		MultipleOf:       items.MultipleOf,
	}
}
