package warnengine

import (
	"strings"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	json "github.com/goccy/go-json"
)

func TestExportJSON(t *testing.T) {
	env := newTestEnv()

	res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityModerate, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}

	data, err := env.engine.ExportWarningData("g1", "json")
	if err != nil {
		t.Fatalf("ExportWarningData: %v", err)
	}

	var out []GuildWarning
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		t.Fatalf("el JSON exportado no parsea: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].ID != res.Warning.ID || out[0].UserID != "u1" {
		t.Errorf("registro incorrecto: %+v", out[0])
	}
	if out[0].Reason != "spam reiterado" || out[0].Severity != models.SeverityModerate {
		t.Errorf("campos incorrectos: %+v", out[0])
	}
	if out[0].CreatedAt != res.Warning.CreatedAt {
		t.Errorf("CreatedAt = %d, want %d", out[0].CreatedAt, res.Warning.CreatedAt)
	}
}

func TestExportJSONEmptyGuild(t *testing.T) {
	env := newTestEnv()

	data, err := env.engine.ExportWarningData("g-vacio", "json")
	if err != nil {
		t.Fatalf("ExportWarningData: %v", err)
	}
	if strings.TrimSpace(data) != "[]" {
		t.Errorf("export vacío = %q, want []", data)
	}
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv()

	res, err := env.engine.AddWarning("g1", "u1", `spam, flood y "raids"`, "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}

	data, err := env.engine.ExportWarningData("g1", "csv")
	if err != nil {
		t.Fatalf("ExportWarningData: %v", err)
	}

	lines := strings.Split(strings.TrimRight(data, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("líneas = %d, want 2 (cabecera + registro)", len(lines))
	}
	if lines[0] != csvHeader {
		t.Errorf("cabecera = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], res.Warning.ID+",u1,") {
		t.Errorf("registro = %q", lines[1])
	}
	// La razón con comas y comillas va entrecomillada con comillas dobladas
	if !strings.Contains(lines[1], `"spam, flood y ""raids"""`) {
		t.Errorf("la razón no quedó bien escapada: %q", lines[1])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	env := newTestEnv()

	if _, err := env.engine.ExportWarningData("g1", "xml"); err != ErrUnknownFormat {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestCSVField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"simple", "simple"},
		{"con, coma", `"con, coma"`},
		{`con "comillas"`, `"con ""comillas"""`},
		{"con\nsalto", "\"con\nsalto\""},
	}
	for _, tt := range tests {
		if got := csvField(tt.in); got != tt.want {
			t.Errorf("csvField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
