package filterexpr

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

type rawQuery struct {
	filter  string
	orderBy string
}

func (r rawQuery) GetFilter() string  { return r.filter }
func (r rawQuery) GetOrderBy() string { return r.orderBy }

type listPhrasesParams struct {
	Tier         *string
	Tiers        []string
	LevelMin     *int64
	LevelMax     *int64
	Activated    *bool
	FormPrefix   *string
	FormContains *string
	CreatedAfter *time.Time

	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

var phrasesSchema = ResourceSchema{
	Filter: map[string]FilterField{
		"tier": {
			Kind: KindString,
			Ops:  map[Op]string{OpEQ: "Tier", OpIN: "Tiers"},
		},
		"level": {
			Kind: KindNumber,
			Ops:  map[Op]string{OpGTE: "LevelMin", OpLTE: "LevelMax"},
		},
		"activated": {
			Kind: KindBool,
			Ops:  map[Op]string{OpEQ: "Activated"},
		},
		"form": {
			Kind: KindString,
			Ops:  map[Op]string{OpSW: "FormPrefix", OpContains: "FormContains"},
		},
		"create_time": {
			Kind: KindTimestamp,
			Ops:  map[Op]string{OpGTE: "CreatedAfter"},
		},
	},
	Order: OrderSchema{
		DefaultPrimary:     "create_time",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		Fields: map[string]OrderField{
			"create_time": {Expr: "created_at"},
			"level":       {Expr: "level"},
			"id":          {Expr: "id"},
		},
	},
}

func TestBind_PhraseQuery(t *testing.T) {
	var params listPhrasesParams
	msg := rawQuery{
		filter:  "tier == 'simple' && level >= 2 && level <= 4 && activated == true && form.contains('茶')",
		orderBy: "level desc",
	}

	if err := Bind(msg, &params, phrasesSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	if params.Tier == nil || *params.Tier != "simple" {
		t.Fatalf("expected Tier 'simple', got %v", params.Tier)
	}
	if params.LevelMin == nil || *params.LevelMin != 2 {
		t.Fatalf("expected LevelMin 2, got %v", params.LevelMin)
	}
	if params.LevelMax == nil || *params.LevelMax != 4 {
		t.Fatalf("expected LevelMax 4, got %v", params.LevelMax)
	}
	if params.Activated == nil || !*params.Activated {
		t.Fatalf("expected Activated true, got %v", params.Activated)
	}
	if params.FormContains == nil || *params.FormContains != "茶" {
		t.Fatalf("expected FormContains '茶', got %v", params.FormContains)
	}
	if params.PrimaryKey != "level" || !params.PrimaryDesc {
		t.Fatalf("expected primary order level desc, got %s desc=%v", params.PrimaryKey, params.PrimaryDesc)
	}
	if params.SecondaryKey != "id" || params.SecondaryDesc {
		t.Fatalf("expected secondary order id asc, got %s desc=%v", params.SecondaryKey, params.SecondaryDesc)
	}
}

func TestBind_Defaults(t *testing.T) {
	var params listPhrasesParams
	if err := Bind(rawQuery{}, &params, phrasesSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	if params.Tier != nil || params.LevelMin != nil || params.Activated != nil {
		t.Fatalf("expected no filter fields set, got %+v", params)
	}
	if params.PrimaryKey != "create_time" || !params.PrimaryDesc {
		t.Fatalf("expected default order create_time desc, got %s desc=%v", params.PrimaryKey, params.PrimaryDesc)
	}
	if params.SecondaryKey != "id" {
		t.Fatalf("expected fallback secondary id, got %s", params.SecondaryKey)
	}
}

func TestBind_InOperator(t *testing.T) {
	var params listPhrasesParams
	msg := rawQuery{filter: "tier in ['simple', 'medium']"}

	if err := Bind(msg, &params, phrasesSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	want := []string{"simple", "medium"}
	if !reflect.DeepEqual(params.Tiers, want) {
		t.Fatalf("expected Tiers %v, got %v", want, params.Tiers)
	}
}

func TestBind_ReceiverStartsWith(t *testing.T) {
	var params listPhrasesParams
	msg := rawQuery{filter: "form.startsWith('喝')"}

	if err := Bind(msg, &params, phrasesSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	if params.FormPrefix == nil || *params.FormPrefix != "喝" {
		t.Fatalf("expected FormPrefix '喝', got %v", params.FormPrefix)
	}
}

func TestBind_Timestamp(t *testing.T) {
	var params listPhrasesParams
	stamp := "2026-01-01T00:00:00Z"
	msg := rawQuery{filter: fmt.Sprintf("create_time >= timestamp('%s')", stamp)}

	if err := Bind(msg, &params, phrasesSchema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	want, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if params.CreatedAfter == nil || !params.CreatedAfter.Equal(want) {
		t.Fatalf("expected CreatedAfter %v, got %v", want, params.CreatedAfter)
	}
}

func TestBind_CustomSetter(t *testing.T) {
	type tierValue struct {
		Name  string
		Valid bool
	}
	type params struct {
		Tier tierValue

		PrimaryKey    string
		PrimaryDesc   bool
		SecondaryKey  string
		SecondaryDesc bool
	}

	schema := ResourceSchema{
		Filter: map[string]FilterField{
			"tier": {
				Kind: KindString,
				Ops:  map[Op]string{OpEQ: "Tier"},
				Setter: func(field reflect.Value, v any) error {
					name, ok := v.(string)
					if !ok {
						return fmt.Errorf("expected string, got %T", v)
					}
					field.Set(reflect.ValueOf(tierValue{Name: name, Valid: true}))
					return nil
				},
			},
		},
		Order: phrasesSchema.Order,
	}

	var p params
	if err := Bind(rawQuery{filter: "tier == 'complex'"}, &p, schema); err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}

	if !p.Tier.Valid || p.Tier.Name != "complex" {
		t.Fatalf("expected tier complex, got %+v", p.Tier)
	}
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		orderBy string
		want    string
	}{
		{"unsupported field", "unknown == 'x'", "", "not allowed"},
		{"unsupported operator", "tier <= 'a'", "", "operator"},
		{"bad literal type", "tier == 1", "", "expected string"},
		{"bad bool literal", "activated == 'yes'", "", "expected bool"},
		{"bad logical op", "tier == 'simple' || level <= 3", "", "only AND"},
		{"non literal", "level <= foo", "", "right-hand side"},
		{"unknown order key", "", "form asc", "cannot be used"},
		{"bad direction", "", "level sideways", "invalid direction"},
		{"too many order keys", "", "level asc, id desc, create_time", "at most two"},
		{"duplicate order key", "", "level, level desc", "duplicate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var params listPhrasesParams
			err := Bind(rawQuery{filter: tc.filter, orderBy: tc.orderBy}, &params, phrasesSchema)
			if err == nil {
				t.Fatalf("expected error for filter=%q order_by=%q", tc.filter, tc.orderBy)
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tc.want)) {
				t.Fatalf("expected error to contain %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBind_ListWrongType(t *testing.T) {
	var params listPhrasesParams
	err := Bind(rawQuery{filter: "tier in [1]"}, &params, phrasesSchema)
	if err == nil || !strings.Contains(err.Error(), "list literal elements must be strings") {
		t.Fatalf("expected list literal error, got %v", err)
	}
}

func TestBind_NilBinding(t *testing.T) {
	var params *listPhrasesParams
	if err := Bind(rawQuery{filter: "tier == 'simple'"}, params, phrasesSchema); err == nil {
		t.Fatalf("expected error when binding is a nil pointer")
	}
}
