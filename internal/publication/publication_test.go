package publication

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYear_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Year
	}{
		{"number", `2024`, "2024"},
		{"string", `"2025 Expected"`, "2025 Expected"},
		{"qualifier first", `"Communicated 2024"`, "Communicated 2024"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var y Year
			if err := json.Unmarshal([]byte(tt.input), &y); err != nil {
				t.Fatalf("UnmarshalJSON() error = %v", err)
			}
			if y != tt.want {
				t.Errorf("UnmarshalJSON() = %q, want %q", y, tt.want)
			}
		})
	}
}

func TestYear_UnmarshalJSON_Invalid(t *testing.T) {
	var y Year
	if err := json.Unmarshal([]byte(`[2024]`), &y); err == nil {
		t.Error("UnmarshalJSON() expected error for array input")
	}
}

func TestYear_UnmarshalYAML(t *testing.T) {
	var doc struct {
		A Year `yaml:"a"`
		B Year `yaml:"b"`
	}
	input := "a: 2024\nb: 2025*\n"
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if doc.A != "2024" || doc.B != "2025*" {
		t.Errorf("got a=%q b=%q, want 2024 and 2025*", doc.A, doc.B)
	}
}

func TestYear_Leading(t *testing.T) {
	tests := []struct {
		year Year
		want string
	}{
		{"2024", "2024"},
		{"2025 Expected", "2025"},
		{"2025*", "2025"},
		{"Communicated 2024", "Communicated 2024"},
		{"Communicated", "Communicated"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.year), func(t *testing.T) {
			if got := tt.year.Leading(); got != tt.want {
				t.Errorf("Leading() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYear_Digits(t *testing.T) {
	tests := []struct {
		year Year
		want string
	}{
		{"2024", "2024"},
		{"2025 Expected", "2025"},
		{"Communicated 2024", "2024"},
		{"Proposed Case Study 2024", "2024"},
		{"Communicated", ""},
		{"24b rev", "24"},
	}

	for _, tt := range tests {
		t.Run(string(tt.year), func(t *testing.T) {
			if got := tt.year.Digits(); got != tt.want {
				t.Errorf("Digits() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYear_Sortable(t *testing.T) {
	if got := Year("2023").Sortable(); got != 2023 {
		t.Errorf("Sortable() = %d, want 2023", got)
	}
	if got := Year("Communicated 2024").Sortable(); got != 0 {
		t.Errorf("Sortable() = %d, want 0", got)
	}
}

func TestType_Valid(t *testing.T) {
	for _, typ := range Types {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	if Type("poem").Valid() {
		t.Error(`"poem" should not be valid`)
	}
}

func TestPublication_URL(t *testing.T) {
	p := Publication{DOILink: "https://doi.org/10.1/x", Link: "https://example.org"}
	if got := p.URL(); got != p.DOILink {
		t.Errorf("URL() = %q, want DOI link", got)
	}
	p.DOILink = ""
	if got := p.URL(); got != p.Link {
		t.Errorf("URL() = %q, want plain link", got)
	}
}

func TestGroupByType(t *testing.T) {
	pubs := []Publication{
		{ID: "wip1", Type: InProgress, Year: "Communicated 2024"},
		{ID: "j2023", Type: Journal, Year: "2023"},
		{ID: "bc1", Type: BookChapter, Year: "2024"},
		{ID: "j2024a", Type: Journal, Year: "2024"},
		{ID: "j2024b", Type: Journal, Year: "2024"},
		{ID: "odd", Type: Type("poster"), Year: "2020"},
	}

	groups := GroupByType(pubs)

	wantTypes := []Type{Journal, BookChapter, InProgress, Type("poster")}
	if len(groups) != len(wantTypes) {
		t.Fatalf("GroupByType() returned %d groups, want %d", len(groups), len(wantTypes))
	}
	for i, want := range wantTypes {
		if groups[i].Type != want {
			t.Errorf("group %d type = %q, want %q", i, groups[i].Type, want)
		}
	}

	journals := groups[0].Publications
	gotIDs := []string{journals[0].ID, journals[1].ID, journals[2].ID}
	wantIDs := []string{"j2024a", "j2024b", "j2023"}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("journal order = %v, want %v", gotIDs, wantIDs)
			break
		}
	}

	if groups[0].Title != "Peer-Reviewed Journal Articles" {
		t.Errorf("group title = %q", groups[0].Title)
	}
}

func TestGroupByType_Empty(t *testing.T) {
	if groups := GroupByType(nil); len(groups) != 0 {
		t.Errorf("GroupByType(nil) = %v, want empty", groups)
	}
}
