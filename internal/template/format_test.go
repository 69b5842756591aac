package template

import (
	"encoding/json"
	"strings"
	"testing"
)

func sensorTemplate() *Template {
	return &Template{
		ID:    1,
		Label: "SensorModel",
		Attrs: []Attribute{
			{ID: 1, TemplateID: 1, Label: "temperature", Type: AttrTypeDynamic, ValueType: ValueTypeFloat},
			{ID: 2, TemplateID: 1, Label: "model-id", Type: AttrTypeStatic, ValueType: ValueTypeString, StaticValue: strPtr("model-001")},
		},
	}
}

func TestParseAttrFormat(t *testing.T) {
	tests := []struct {
		input string
		want  AttrFormat
	}{
		{"single", FormatSingle},
		{"split", FormatSplit},
		{"both", FormatBoth},
		{"", FormatBoth},
		{"combined", FormatBoth},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseAttrFormat(tt.input); got != tt.want {
				t.Errorf("ParseAttrFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tmpl := sensorTemplate()

	t.Run("single", func(t *testing.T) {
		v := Format(FormatSingle, tmpl)
		if v.Attrs == nil {
			t.Fatal("Format(single) attrs missing")
		}
		if len(*v.Attrs) != 2 {
			t.Errorf("len(attrs) = %d, want 2", len(*v.Attrs))
		}
		// Insertion order preserved.
		if (*v.Attrs)[0].Label != "temperature" || (*v.Attrs)[1].Label != "model-id" {
			t.Errorf("attrs order = %q, %q", (*v.Attrs)[0].Label, (*v.Attrs)[1].Label)
		}
		if v.ConfigAttrs != nil || v.DataAttrs != nil {
			t.Error("Format(single) must suppress split keys")
		}
	})

	t.Run("split partitions attributes", func(t *testing.T) {
		v := Format(FormatSplit, tmpl)
		if v.Attrs != nil {
			t.Error("Format(split) must suppress combined key")
		}
		if v.ConfigAttrs == nil || v.DataAttrs == nil {
			t.Fatal("Format(split) split keys missing")
		}
		if len(*v.ConfigAttrs) != 1 || (*v.ConfigAttrs)[0].Label != "model-id" {
			t.Errorf("config_attrs = %v, want [model-id]", *v.ConfigAttrs)
		}
		if len(*v.DataAttrs) != 1 || (*v.DataAttrs)[0].Label != "temperature" {
			t.Errorf("data_attrs = %v, want [temperature]", *v.DataAttrs)
		}
	})

	t.Run("both emits all keys", func(t *testing.T) {
		v := Format(FormatBoth, tmpl)
		if v.Attrs == nil || v.ConfigAttrs == nil || v.DataAttrs == nil {
			t.Fatal("Format(both) must emit all three lists")
		}
		if len(*v.Attrs) != len(*v.ConfigAttrs)+len(*v.DataAttrs) {
			t.Error("split lists must partition the combined list")
		}
	})

	t.Run("empty template serialises empty lists", func(t *testing.T) {
		v := Format(FormatSplit, &Template{ID: 2, Label: "Empty"})
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshalling view: %v", err)
		}
		s := string(data)
		if !strings.Contains(s, `"config_attrs":[]`) || !strings.Contains(s, `"data_attrs":[]`) {
			t.Errorf("selected modes must serialise empty lists, got %s", s)
		}
		if strings.Contains(s, `"attrs"`) {
			t.Errorf("suppressed mode must omit its key, got %s", s)
		}
	})
}
