package repository

import "github.com/eslsoft/phrasenet/pkg/filterexpr"

var listVocabSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"level": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ:  "Level",
				filterexpr.OpGTE: "LevelMin",
				filterexpr.OpLTE: "LevelMax",
			},
		},
		"form": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpSW: "Form"},
		},
		"category": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Category",
				filterexpr.OpIN: "Categories",
			},
		},
		"create_time": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "CreatedAfter",
				filterexpr.OpLTE: "CreatedBefore",
			},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "create_time",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		FallbackDesc:       false,
		Fields: map[string]filterexpr.OrderField{
			"create_time": {Expr: "created_at", Nulls: "last"},
			"level":       {Expr: "level", Nulls: "last"},
			"form":        {Expr: "form", Nulls: "last"},
			"id":          {Expr: "id", Nulls: "last"},
		},
	},
}

var listPhrasesSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"level": {
			Kind: filterexpr.KindNumber,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ:  "Level",
				filterexpr.OpGTE: "LevelMin",
				filterexpr.OpLTE: "LevelMax",
			},
		},
		"tier": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Tier",
				filterexpr.OpIN: "Tiers",
			},
		},
		"form": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpSW: "Form"},
		},
		"activated": {
			Kind: filterexpr.KindBool,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Activated"},
		},
		"in_study": {
			Kind: filterexpr.KindBool,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "InStudy"},
		},
		"create_time": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "CreatedAfter",
				filterexpr.OpLTE: "CreatedBefore",
			},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "create_time",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		FallbackDesc:       false,
		Fields: map[string]filterexpr.OrderField{
			"create_time": {Expr: "created_at", Nulls: "last"},
			"level":       {Expr: "level", Nulls: "last"},
			"tier":        {Expr: "tier", Nulls: "last"},
			"form":        {Expr: "form", Nulls: "last"},
			"id":          {Expr: "id", Nulls: "last"},
		},
	},
}

// orderClause renders one whitelisted order key as a SQL fragment. Keys
// reaching here were validated against the schema by pkg/filterexpr.
func orderClause(schema filterexpr.OrderSchema, key string, desc bool) string {
	field, ok := schema.Fields[key]
	if !ok {
		field = schema.Fields[schema.FallbackKey]
	}
	clause := field.Expr + " ASC"
	if desc {
		clause = field.Expr + " DESC"
	}
	if field.Nulls == "last" {
		clause += " NULLS LAST"
	}
	return clause
}
